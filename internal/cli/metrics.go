package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/habitvault/habitvault/internal/core/domain"
	"github.com/habitvault/habitvault/internal/core/engine"
)

// habitFile is the on-disk form read by the metrics command, in JSON or YAML.
type habitFile struct {
	Habit struct {
		Name       string   `json:"name" yaml:"name"`
		Frequency  string   `json:"frequency" yaml:"frequency"`
		CustomDays []string `json:"custom_days" yaml:"custom_days"`
		StartDate  string   `json:"start_date" yaml:"start_date"`
	} `json:"habit" yaml:"habit"`
	Logs map[string]string `json:"logs" yaml:"logs"`
}

type metricsReport struct {
	Habit      string                `json:"habit"`
	Frequency  domain.Frequency      `json:"frequency"`
	CustomDays []domain.Weekday      `json:"custom_days,omitempty"`
	StartDate  domain.CalendarDate   `json:"start_date"`
	Today      domain.CalendarDate   `json:"today"`
	Metrics    domain.DerivedMetrics `json:"metrics"`
}

func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	var today string

	cmd := &cobra.Command{
		Use:   "metrics <file>",
		Short: "Compute streaks and completion rate for a habit file",
		Long: `Reads a habit and its log from a JSON or YAML file:

  habit:
    name: Run
    frequency: custom
    custom_days: [mon, thu]
    start_date: "2024-01-01"
  logs:
    "2024-01-01": completed

and prints the current streak, longest streak and completion rate as of --today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			habit, log, err := loadHabitFile(args[0])
			if err != nil {
				return err
			}

			report := metricsReport{
				Habit:      habit.Name,
				Frequency:  habit.Rule.Frequency(),
				CustomDays: domain.CustomDays(habit.Rule),
				StartDate:  habit.StartDate,
				Today:      day,
				Metrics:    engine.ComputeMetrics(habit, log, day),
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeMetricsText(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&today, "today", "", "evaluation date (YYYY-MM-DD, default: local today)")

	return cmd
}

func parseToday(s string) (domain.CalendarDate, error) {
	if s == "" {
		return domain.DateOf(time.Now()), nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.CalendarDate{}, fmt.Errorf("--today: %w", err)
	}
	return d, nil
}

func loadHabitFile(path string) (*domain.Habit, domain.HabitLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read habit file: %w", err)
	}

	var f habitFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	rule, err := domain.NewRecurrenceRule(f.Habit.Frequency, f.Habit.CustomDays)
	if err != nil {
		return nil, nil, err
	}
	start, err := domain.ParseDate(f.Habit.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("start_date: %w", err)
	}
	habit, err := domain.NewHabit("local", f.Habit.Name, rule, start)
	if err != nil {
		return nil, nil, err
	}

	log := make(domain.HabitLog, len(f.Logs))
	for rawDate, rawStatus := range f.Logs {
		date, err := domain.ParseDate(rawDate)
		if err != nil {
			return nil, nil, fmt.Errorf("logs: %w", err)
		}
		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, nil, fmt.Errorf("logs[%s]: %w", rawDate, err)
		}
		if err := log.Mark(date, status); err != nil {
			return nil, nil, err
		}
	}

	return habit, log, nil
}

func writeMetricsText(w io.Writer, r metricsReport) error {
	schedule := string(r.Frequency)
	if len(r.CustomDays) > 0 {
		names := make([]string, len(r.CustomDays))
		for i, d := range r.CustomDays {
			names[i] = string(d)
		}
		schedule += " (" + strings.Join(names, ", ") + ")"
	}

	_, err := fmt.Fprintf(w,
		"Habit:            %s\n"+
			"Schedule:         %s\n"+
			"Started:          %s\n"+
			"As of:            %s\n"+
			"Current streak:   %d\n"+
			"Longest streak:   %d\n"+
			"Completion rate:  %d%%\n",
		r.Habit, schedule, r.StartDate, r.Today,
		r.Metrics.CurrentStreak, r.Metrics.LongestStreak, r.Metrics.CompletionRate)
	return err
}
