// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"lumbung/internal/config"
	"lumbung/internal/models"
	"lumbung/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore is the PostgreSQL backed Store.
type GormStore struct {
	db    *gorm.DB
	cache cache.UserCache
}

// NewGormStore wraps an open connection. Used directly by tests and seeders
// that bring their own *gorm.DB.
func NewGormStore(db *gorm.DB, userCache cache.UserCache) *GormStore {
	if userCache == nil {
		userCache = cache.Noop{}
	}
	return &GormStore{db: db, cache: userCache}
}

// InitDB opens the PostgreSQL connection, configures the pool and runs
// the schema migrations.
func InitDB(cfg config.DBConfig, userCache cache.UserCache) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	// Configure GORM logger to ignore "record not found" errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("✅ PostgreSQL connected & migrations applied successfully!")
	return NewGormStore(db, userCache), nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Waste{},
		&models.Transaction{},
	)
	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}
	return nil
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Users() UserRepository {
	return NewUserRepository(s.db, s.cache)
}

func (s *GormStore) Wastes() WasteRepository {
	return NewWasteRepository(s.db)
}

func (s *GormStore) Transactions() TransactionRepository {
	return NewTransactionRepository(s.db)
}

func (s *GormStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, cache: s.cache})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LogPoolStats periodically logs connection pool statistics until ctx is done.
func (s *GormStore) LogPoolStats(ctx context.Context, every time.Duration) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}
}
