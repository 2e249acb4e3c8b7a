package data

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Delivery is the outcome of one report cycle. It deliberately holds no tide
// data.
type Delivery struct {
	gorm.Model
	CycleID string `gorm:"uniqueIndex;size:36"`
	Station string `gorm:"index;size:16"`
	Result  string `gorm:"size:32"`
	Error   string
	Samples int
}

// Ledger stores Deliveries in Postgres.
type Ledger struct {
	db *gorm.DB
}

// Open connects to the database at dsn and migrates the schema.
func Open(dsn string) (*Ledger, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Delivery{}); err != nil {
		return nil, fmt.Errorf("failed to migrate deliveries: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record saves the outcome of a cycle.
func (l *Ledger) Record(ctx context.Context, d *Delivery) error {
	if tx := l.db.WithContext(ctx).Create(d); tx.Error != nil {
		return fmt.Errorf("failed to record cycle %s: %w", d.CycleID, tx.Error)
	}
	return nil
}

// Recent returns the latest n deliveries for a station, newest first.
func (l *Ledger) Recent(ctx context.Context, station string, n int) ([]Delivery, error) {
	var result []Delivery
	tx := l.db.WithContext(ctx).
		Where("station = ?", station).
		Order("created_at desc").
		Limit(n).
		Find(&result)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return result, nil
}
