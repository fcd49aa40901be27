package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type SchedulerConfig struct {
	ArchiveReminderDelay    time.Duration `mapstructure:"archive_reminder_delay"`
	NoResponseReminderDelay time.Duration `mapstructure:"no_response_reminder_delay"`
	CandidateReminderDelay  time.Duration `mapstructure:"candidate_reminder_delay"`
	PollSchedule            string        `mapstructure:"poll_schedule"`
}

func (config SchedulerConfig) validate() error {
	var errs []error

	if config.ArchiveReminderDelay <= 0 {
		errs = append(errs, fmt.Errorf("archive_reminder_delay must be greater than zero"))
	}
	if config.NoResponseReminderDelay <= 0 {
		errs = append(errs, fmt.Errorf("no_response_reminder_delay must be greater than zero"))
	}
	if config.CandidateReminderDelay <= 0 {
		errs = append(errs, fmt.Errorf("candidate_reminder_delay must be greater than zero"))
	}
	if config.PollSchedule == "" {
		errs = append(errs, fmt.Errorf("missing variable: poll_schedule"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config SchedulerConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("scheduler.archive_reminder_delay", "ARCHIVE_REMINDER_DELAY")
	if err != nil {
		return err
	}

	err = viper.BindEnv("scheduler.no_response_reminder_delay", "NO_RESPONSE_REMINDER_DELAY")
	if err != nil {
		return err
	}

	err = viper.BindEnv("scheduler.candidate_reminder_delay", "CANDIDATE_REMINDER_DELAY")
	if err != nil {
		return err
	}

	return viper.BindEnv("scheduler.poll_schedule", "SCHEDULER_POLL_SCHEDULE")
}
