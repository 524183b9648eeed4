package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRow is a gorm model holding one serialized collection per row.
type CollectionRow struct {
	Name      string    `gorm:"primaryKey"`
	Data      []byte    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (CollectionRow) TableName() string { return "collections" }

// PostgresStore keeps collections as JSON blobs in a single table. It is
// the durable alternative to Redis; the contract is identical — whole
// collection in, whole collection out.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&CollectionRow{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection string, data []byte) error {
	row := CollectionRow{Name: collection, Data: data}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *PostgresStore) Get(ctx context.Context, collection string) ([]byte, error) {
	var row CollectionRow
	err := s.db.WithContext(ctx).First(&row, "name = ?", collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.Data, nil
}
