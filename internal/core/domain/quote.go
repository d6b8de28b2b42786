package domain

var motivationalQuotes = []string{
	"Small daily improvements over time lead to stunning results.",
	"Success is the sum of small efforts repeated day in and day out.",
	"The only bad workout is the one that didn't happen.",
	"Don't count the days. Make the days count.",
	"Motivation gets you started. Habit keeps you going.",
	"The secret of your future is hidden in your daily routine.",
	"You don't have to be great to start, but you have to start to be great.",
	"Discipline is choosing between what you want now and what you want most.",
	"Good habits are worth being fanatical about.",
	"Your only limit is you.",
	"What you do every day matters more than what you do once in a while.",
	"One habit at a time.",
	"Consistency is the key to achieving and maintaining momentum.",
	"Success isn't always about greatness. It's about consistency.",
	"Small disciplines repeated with consistency every day lead to great achievements gained slowly over time.",
	"The difference between who you are and who you want to be is what you do.",
	"Excellence is not an exception, it is a prevailing attitude.",
	"Don't wish for it, work for it.",
	"What you plant now, you will harvest later.",
	"Your future is created by what you do today, not tomorrow.",
}

// DailyQuote picks a quote by day of year, so every caller sees the same
// quote for the whole day.
func DailyQuote(date CalendarDate) string {
	dayOfYear := date.Time().YearDay()
	return motivationalQuotes[dayOfYear%len(motivationalQuotes)]
}
