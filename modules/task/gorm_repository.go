package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormRepository stores tasks in a SQL database through GORM.
type GormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*GormRepository)(nil)

// OpenSQLite opens (creating if needed) a SQLite database at path and
// migrates the task table. debug enables GORM's SQL logging.
func OpenSQLite(path string, debug bool) (*GormRepository, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := NewGormRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repo, nil
}

// NewGormRepository wraps an open GORM handle.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Migrate creates or updates the task table and fills the search column
// of rows written before it existed.
func (r *GormRepository) Migrate() error {
	if err := r.db.AutoMigrate(&domain.Task{}); err != nil {
		return err
	}

	var stale []domain.Task
	if err := r.db.Select("id", "title").Where("title_search = '' AND title <> ''").Find(&stale).Error; err != nil {
		return fmt.Errorf("failed to read tasks for search backfill: %w", err)
	}
	for _, t := range stale {
		if err := r.db.Model(&domain.Task{}).Where("id = ?", t.ID).
			Update("title_search", searchKey(t.Title)).Error; err != nil {
			return fmt.Errorf("failed to backfill task %s: %w", t.ID, err)
		}
	}
	return nil
}

// Create saves a new task to the database.
func (r *GormRepository) Create(ctx context.Context, t *domain.Task) error {
	t.TitleSearch = searchKey(t.Title)
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *GormRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List returns one page of tasks matching q together with the filtered
// and unfiltered counts.
func (r *GormRepository) List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error) {
	db := r.db.WithContext(ctx)
	filter := listFilter(q)

	tasks := make([]domain.Task, 0, q.Limit)
	err := db.Model(&domain.Task{}).
		Scopes(filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortColumn()}, Desc: q.Descending()}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Descending()}).
		Offset(q.Offset()).
		Limit(q.Limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var total int64
	if err := db.Model(&domain.Task{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	var allTotal int64
	if err := db.Model(&domain.Task{}).Count(&allTotal).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &domain.ListResult{Tasks: tasks, Total: total, AllTotal: allTotal}, nil
}

// Update applies patch to the task with the given ID.
func (r *GormRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
		updates["title_search"] = searchKey(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Updates(updates)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a task by ID.
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping checks the database connection.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// listFilter restricts a query to the tasks matching q's search text and status.
func listFilter(q domain.ListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if q.Search != "" {
			pattern := "%" + escapeLike(searchKey(q.Search)) + "%"
			tx = tx.Where(`title_search LIKE ? ESCAPE '\'`, pattern)
		}
		if q.FiltersStatus() {
			tx = tx.Where("status = ?", string(q.Status))
		}
		return tx
	}
}

// searchKey folds s for case-insensitive matching. SQLite's LOWER only
// folds ASCII, so titles are folded here and stored in title_search.
func searchKey(s string) string {
	return strings.ToLower(s)
}

// escapeLike escapes LIKE wildcards so the search text matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
