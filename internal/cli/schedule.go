package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

// maxScheduleSpan bounds the listing to roughly ten years.
const maxScheduleSpan = 3660

type scheduleReport struct {
	Frequency  domain.Frequency      `json:"frequency"`
	CustomDays []domain.Weekday      `json:"custom_days,omitempty"`
	From       domain.CalendarDate   `json:"from"`
	To         domain.CalendarDate   `json:"to"`
	Count      int                   `json:"count"`
	Dates      []domain.CalendarDate `json:"dates"`
}

func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		frequency string
		days      []string
		from, to  string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List the dates a recurrence rule schedules",
		Example: `  habitctl schedule --frequency weekdays --from 2024-01-01 --to 2024-01-07
  habitctl schedule --frequency custom --days mon,thu --from 2024-02-01 --to 2024-02-29`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule, err := domain.NewRecurrenceRule(frequency, days)
			if err != nil {
				return err
			}
			start, err := domain.ParseDate(from)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			end, err := domain.ParseDate(to)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if end.Before(start) {
				return fmt.Errorf("--to %s is before --from %s", end, start)
			}
			if start.DaysUntil(end) > maxScheduleSpan {
				return fmt.Errorf("range too large: at most %d days", maxScheduleSpan)
			}

			dates := engine.ScheduledDates(rule, start, end)
			if dates == nil {
				dates = []domain.CalendarDate{}
			}

			report := scheduleReport{
				Frequency:  rule.Frequency(),
				CustomDays: domain.CustomDays(rule),
				From:       start,
				To:         end,
				Count:      len(dates),
				Dates:      dates,
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeScheduleText(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&frequency, "frequency", "", "daily, weekdays, weekends or custom")
	cmd.Flags().StringSliceVar(&days, "days", nil, "weekdays for a custom frequency (e.g. mon,thu)")
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("frequency")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func writeScheduleText(w io.Writer, r scheduleReport) error {
	for _, d := range r.Dates {
		if _, err := fmt.Fprintf(w, "%s  %s\n", d, d.Weekday()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d scheduled between %s and %s\n", r.Count, r.From, r.To)
	return err
}
