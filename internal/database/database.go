// Package database opens the configured persistence backend and exposes its
// repositories as one Store.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store bundles the repositories of one backend with its lifecycle hooks.
type Store struct {
	Driver   string
	Users    repositories.UserRepository
	Orders   repositories.OrderRepository
	Products repositories.ProductRepository
	Contacts repositories.ContactRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.DBDriver and verifies it
// answers within cfg.DBTimeout.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()

	var (
		store *Store
		err   error
	)
	switch cfg.DBDriver {
	case config.DriverMongo:
		store, err = openMongo(ctx, cfg)
	case config.DriverPostgres:
		store, err = openGORM(ctx, postgres.Open(cfg.DatabaseDSN))
	case config.DriverSQLite:
		store, err = openGORM(ctx, sqlite.Open(cfg.DatabaseDSN))
	case config.DriverMemory:
		store = NewMemoryStore()
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	store.Driver = cfg.DBDriver

	log.Info(log.WithField(ctx, "driver", cfg.DBDriver), "database connected")
	return store, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg.MongoURL == "" {
		return nil, errors.New("MONGODB_URL is not set")
	}
	clientOpts := options.Client().ApplyURI(cfg.MongoURL).
		SetConnectTimeout(cfg.DBTimeout).
		SetServerSelectionTimeout(cfg.DBTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	store := NewMongoStore(client.Database(cfg.MongoDatabase))
	store.close = client.Disconnect
	return store, nil
}

// NewMongoStore wires the Mongo repositories on db. The caller owns the client.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Driver:   config.DriverMongo,
		Users:    repositories.NewMongoUserRepository(db),
		Orders:   repositories.NewMongoOrderRepository(db),
		Products: repositories.NewMongoProductRepository(db),
		Contacts: repositories.NewMongoContactRepository(db),
		ping: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
		migrate: func(ctx context.Context) error {
			return repositories.EnsureMongoIndexes(ctx, db)
		},
	}
}

func openGORM(ctx context.Context, dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	store := NewGORMStore(db)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}
	return store, nil
}

// NewGORMStore wires the GORM repositories on db.
func NewGORMStore(db *gorm.DB) *Store {
	return &Store{
		Driver:   db.Dialector.Name(),
		Users:    repositories.NewGORMUserRepository(db),
		Orders:   repositories.NewGORMOrderRepository(db),
		Products: repositories.NewGORMProductRepository(db),
		Contacts: repositories.NewGORMContactRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		migrate: func(ctx context.Context) error {
			return db.WithContext(ctx).AutoMigrate(
				&models.User{},
				&models.Order{},
				&models.Product{},
				&models.ContactMessage{},
			)
		},
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMemoryStore returns a process-local store. Nothing survives a restart.
func NewMemoryStore() *Store {
	return &Store{
		Driver:   config.DriverMemory,
		Users:    repositories.NewMemoryUserRepository(),
		Orders:   repositories.NewMemoryOrderRepository(),
		Products: repositories.NewMemoryProductRepository(),
		Contacts: repositories.NewMemoryContactRepository(),
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("database not initialized")
	}
	if s.ping == nil {
		return nil
	}
	if err := s.ping(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Migrate creates the schema or indexes the repositories depend on, in
// particular the unique email indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("database migrate: %w", err)
	}
	return nil
}

// Close releases the connection, waiting at most five seconds.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.close(ctx)
}
