package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/config"
	"github.com/arunvm123/cinemabooking/cinema-service/model"
	"github.com/arunvm123/cinemabooking/cinema-service/repository"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open connects to PostgreSQL, applies the pool settings and migrates every
// table.
func Open(cfg config.Database, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	// Parents first so the foreign keys resolve
	if err := db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Theater{},
		&model.Seat{},
		&model.Showtime{},
		&model.Review{},
		&model.Ticket{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database connected and cinema tables migrated")
	return db, nil
}

// NewRepositories builds every repository on top of db.
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Movies:    &MovieRepository{db: db},
		Reviews:   &ReviewRepository{db: db},
		Showtimes: &ShowtimeRepository{db: db},
		Theaters:  &TheaterRepository{db: db},
		Seats:     &SeatRepository{db: db},
		Tickets:   &TicketRepository{db: db},
		Users:     &UserRepository{db: db},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

func findByID[T any](ctx context.Context, db *gorm.DB, id int64) (*T, error) {
	var out T
	if err := db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, db *gorm.DB, query any, args ...any) ([]T, error) {
	out := []T{}
	tx := db.WithContext(ctx).Order("id")
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// save inserts rows with a zero id and fully replaces existing ones.
// Associations are never written through the parent.
func save[T any](ctx context.Context, db *gorm.DB, entity *T, id int64) error {
	tx := db.WithContext(ctx)
	if id == 0 {
		return translate(tx.Omit(clause.Associations).Create(entity).Error)
	}

	result := tx.Model(entity).Select("*").Omit(clause.Associations, "id", "created_at").Updates(entity)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id int64) error {
	var entity T
	result := db.WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
