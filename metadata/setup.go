package metadata

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Logger defines the logging surface the metadata store needs.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Store persists image provenance records in Postgres via gorm.
type Store struct {
	Client *gorm.DB
	cfg    *Config
	log    Logger
}

// NewStore connects to Postgres and configures the connection pool.
func NewStore(cfg *Config, log Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(
		postgres.Open(cfg.DSN()),
		&gorm.Config{
			TranslateError: true,
		})
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("metadata: failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Minute)

	log.Info("Successfully connected to PostgresSQL database", nil, map[string]interface{}{
		"host": cfg.Host,
		"db":   cfg.DbName,
	})

	return &Store{Client: db, cfg: cfg, log: log}, nil
}

// Migrate creates or updates the image_records table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.Client.WithContext(ctx).AutoMigrate(&ImageRecord{}); err != nil {
		return fmt.Errorf("metadata: migration failed: %w", err)
	}
	return nil
}

// InsertRecord writes one provenance row.
func (s *Store) InsertRecord(ctx context.Context, rec *ImageRecord) error {
	if err := s.Client.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("metadata: insert record failed: %w", err)
	}
	return nil
}

// GetRecord fetches one row by id.
func (s *Store) GetRecord(ctx context.Context, id string) (*ImageRecord, error) {
	var rec ImageRecord
	if err := s.Client.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("metadata: get record %s failed: %w", id, err)
	}
	return &rec, nil
}

// RecentRecords lists the latest rows, newest first.
func (s *Store) RecentRecords(ctx context.Context, limit int) ([]ImageRecord, error) {
	var recs []ImageRecord
	err := s.Client.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("metadata: list records failed: %w", err)
	}
	return recs, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.Client.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
