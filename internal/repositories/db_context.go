package repositories

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/talentwave/opportunity-engine/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	entitiesToMigrate := []any{
		entities.BusinessLine{},
		entities.Opportunity{},
		entities.Candidate{},
		entities.Association{},
		entities.StatusChangeRecord{},
		entities.ScheduledTask{},
	}

	for _, entity := range entitiesToMigrate {
		if err := c.DB.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	// the unique pair index must also cover soft-deleted rows, so
	// re-association restores a row instead of inserting a duplicate
	if err := c.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_opportunity_candidate " +
		"ON associations (opportunity_id, candidate_id);").Error; err != nil {
		return fmt.Errorf("failed to create association index: %w", err)
	}

	return nil
}

// WithTransaction runs fn inside one storage transaction. Repositories
// called with the returned context write through that transaction, so
// a failure at any step rolls back the whole batch.
func (c *DbContext) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

type txKey struct{}

func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFrom resolves the session for ctx: the enclosing transaction when
// one is open, the repository's own connection otherwise.
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
