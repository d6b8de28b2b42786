package http

import (
	"log"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/habitvault/habitvault/internal/core/domain"
)

var registerOnce sync.Once

// RegisterValidators installs the isodate, weekday and timerange tags on
// gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Printf("[HTTP] binding engine is %T, custom validators not registered", binding.Validator.Engine())
			return
		}
		for tag, fn := range map[string]validator.Func{
			"isodate":   validateISODate,
			"weekday":   validateWeekday,
			"timerange": validateTimeRange,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				log.Printf("[HTTP] failed to register %s validator: %v", tag, err)
			}
		}
	})
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := domain.ParseDate(fl.Field().String())
	return err == nil
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, err := domain.ParseWeekday(fl.Field().String())
	return err == nil
}

func validateTimeRange(fl validator.FieldLevel) bool {
	_, err := domain.ParseTimeRange(fl.Field().String())
	return err == nil
}
