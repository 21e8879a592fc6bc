package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
)

// Schedules use the classic five fields, no seconds and no descriptors.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

var knownSchedules = map[string]string{
	"0 * * * *":   "Every hour at :00",
	"0 */6 * * *": "Every 6 hours",
	"0 0 * * *":   "Daily at midnight",
	"0 3 * * *":   "Daily at 03:00",
	"0 0 * * 0":   "Weekly on Sunday at midnight",
}

func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// CronDescription names the common retention schedules for log lines.
func CronDescription(schedule string) string {
	if desc, ok := knownSchedules[schedule]; ok {
		return desc
	}
	return "Custom schedule: " + schedule
}

// NextRunTime returns the first activation of schedule after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	s, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(from), nil
}
