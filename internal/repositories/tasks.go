package repositories

import (
	"context"
	"time"

	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
)

type Tasks struct {
	db *gorm.DB
}

func NewTasksRepository(db *gorm.DB) *Tasks {
	return &Tasks{db: db}
}

func (repo *Tasks) Add(ctx context.Context, task *entities.ScheduledTask) error {
	return dbFrom(ctx, repo.db).Create(task).Error
}

func (repo *Tasks) GetDue(ctx context.Context, now time.Time) ([]entities.ScheduledTask, error) {
	var tasks []entities.ScheduledTask
	err := dbFrom(ctx, repo.db).
		Order("fire_at").
		Find(&tasks, "fire_at <= ?", now).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Remove deletes the row and reports whether it was still there. A
// false return means another poller already claimed this task.
func (repo *Tasks) Remove(ctx context.Context, id int) (bool, error) {
	tx := dbFrom(ctx, repo.db).Delete(&entities.ScheduledTask{}, "id = ?", id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
