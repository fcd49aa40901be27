package entities

import "time"

// Reminder kinds understood by the delayed task queue.
const (
	TaskArchiveReminder    = "archive-reminder"
	TaskNoResponseReminder = "no-response-reminder"
	TaskCandidateReminder  = "candidate-reminder"
)

// ScheduledTask is one pending delayed check. Delay is kept on the row
// so a reschedule fires again after the same interval.
type ScheduledTask struct {
	ID        int    `gorm:"primaryKey"`
	Kind      string `gorm:"index"`
	Payload   []byte
	Delay     time.Duration
	FireAt    time.Time `gorm:"index"`
	CreatedAt time.Time
}
