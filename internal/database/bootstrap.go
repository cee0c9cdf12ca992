// internal/database/bootstrap.go
package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mercato/mercato-backend/internal/models"
)

// Bootstrap lifecycle: Uninitialized -> Attempting(n) -> Ready | Degraded.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateAttempting    State = "attempting"
	StateReady         State = "ready"
	StateDegraded      State = "degraded"
)

const (
	maxBootstrapAttempts = 5
	initialRetryDelay    = 2 * time.Second
	backoffFactor        = 1.5
)

// Guards schema creation against multiple workers starting concurrently.
// Not used on any per-request path.
var bootstrapMu sync.Mutex

type Bootstrap struct {
	db       *gorm.DB
	seedDemo bool
	state    State

	// Injected so retry timing and migration failures are unit-testable.
	sleep   func(time.Duration)
	migrate func() error
}

func NewBootstrap(db *gorm.DB, seedDemo bool) *Bootstrap {
	b := &Bootstrap{
		db:       db,
		seedDemo: seedDemo,
		state:    StateUninitialized,
		sleep:    time.Sleep,
	}
	b.migrate = b.runMigrations
	return b
}

func (b *Bootstrap) State() State {
	return b.state
}

// EnsureSchemaReady creates the schema and seeds demo data, retrying with
// exponential backoff when another process holds the tables with concurrent
// DDL. Any other storage error is logged once and the process continues in a
// degraded mode rather than crashing: availability over strict startup
// correctness. Safe to call more than once.
func (b *Bootstrap) EnsureSchemaReady() State {
	bootstrapMu.Lock()
	defer bootstrapMu.Unlock()

	delay := initialRetryDelay

	for attempt := 1; attempt <= maxBootstrapAttempts; attempt++ {
		b.state = StateAttempting
		logrus.Infof("Database initialization attempt %d/%d", attempt, maxBootstrapAttempts)

		err := b.migrate()
		if err == nil {
			err = b.verifyTables()
		}
		if err == nil {
			if b.seedDemo {
				if seedErr := SeedDemoData(b.db); seedErr != nil {
					// Seeding is best-effort; the schema itself is ready.
					logrus.WithError(seedErr).Warn("Demo data seeding skipped")
				}
			}
			b.state = StateReady
			logrus.Info("Database initialization successful")
			return b.state
		}

		if isConcurrentDDL(err) {
			if attempt < maxBootstrapAttempts {
				logrus.WithError(err).Warnf("Database table lock detected, retrying in %s", delay)
				b.sleep(delay)
				delay = time.Duration(float64(delay) * backoffFactor)
				continue
			}
			logrus.Error("Max retries reached. Continuing without confirmed schema")
			b.state = StateDegraded
			return b.state
		}

		logrus.WithError(err).Error("Database initialization failed, continuing degraded")
		b.state = StateDegraded
		return b.state
	}

	b.state = StateDegraded
	return b.state
}

// isConcurrentDDL matches the storage engine's report of schema objects being
// modified by another connection's DDL.
func isConcurrentDDL(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "concurrent DDL") ||
		strings.Contains(msg, "being modified by concurrent")
}

func (b *Bootstrap) runMigrations() error {
	err := b.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return createIndexes(b.db)
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// verifyTables confirms each core entity table answers a trivial query.
func (b *Bootstrap) verifyTables() error {
	probes := []interface{}{
		&[]models.User{},
		&[]models.Category{},
		&[]models.Product{},
	}

	for _, probe := range probes {
		if err := b.db.Limit(1).Find(probe).Error; err != nil {
			return fmt.Errorf("table verification failed: %w", err)
		}
	}

	return nil
}

// SeedDemoData populates the fixed demo catalog exactly once. The guard is
// the category table being empty, so a second call is a no-op.
func SeedDemoData(db *gorm.DB) error {
	var categoryCount int64
	if err := db.Model(&models.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if categoryCount > 0 {
		return nil
	}

	logrus.Info("Seeding demo catalog...")

	return db.Transaction(func(tx *gorm.DB) error {
		electronics := models.Category{Name: "Electronics", Description: "Electronic devices and gadgets"}
		clothing := models.Category{Name: "Clothing", Description: "Fashion and apparel"}
		books := models.Category{Name: "Books", Description: "Books and literature"}

		for _, category := range []*models.Category{&electronics, &clothing, &books} {
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Name, err)
			}
		}

		products := []models.Product{
			{
				Name:        "Wireless Headphones",
				Description: "High-quality wireless headphones with noise cancellation",
				Price:       99.99,
				Stock:       50,
				CategoryID:  electronics.ID,
				ImageURL:    "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
			{
				Name:        "Smartphone",
				Description: "Latest smartphone with advanced features",
				Price:       699.99,
				Stock:       30,
				CategoryID:  electronics.ID,
				ImageURL:    "https://images.pexels.com/photos/404280/pexels-photo-404280.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
			{
				Name:        "Classic T-Shirt",
				Description: "Comfortable cotton t-shirt in various colors",
				Price:       19.99,
				Stock:       100,
				CategoryID:  clothing.ID,
				ImageURL:    "https://images.pexels.com/photos/8532616/pexels-photo-8532616.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
			{
				Name:        "Programming Guide",
				Description: "Complete guide to modern programming practices",
				Price:       29.99,
				Stock:       75,
				CategoryID:  books.ID,
				ImageURL:    "https://images.pexels.com/photos/256417/pexels-photo-256417.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
			{
				Name:        "Laptop",
				Description: "High-performance laptop for professionals",
				Price:       1299.99,
				Stock:       15,
				CategoryID:  electronics.ID,
				ImageURL:    "https://images.pexels.com/photos/205421/pexels-photo-205421.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
			{
				Name:        "Designer Jacket",
				Description: "Stylish jacket for all seasons",
				Price:       89.99,
				Stock:       25,
				CategoryID:  clothing.ID,
				ImageURL:    "https://images.pexels.com/photos/1183266/pexels-photo-1183266.jpeg?auto=compress&cs=tinysrgb&w=400",
				IsActive:    true,
			},
		}

		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return fmt.Errorf("failed to create product %s: %w", products[i].Name, err)
			}
		}

		logrus.Info("Demo catalog created successfully")
		return nil
	})
}
