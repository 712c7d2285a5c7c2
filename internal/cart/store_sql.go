package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bodegonapp/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore persists cart buckets as one snapshot row per key. Deployments
// without Redis select it through the cart store backend flag.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore builds the SQL-backed cart store.
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &SQLStore{db: db}, nil
}

// Load implements Store. A missing row is an empty bucket.
func (s *SQLStore) Load(ctx context.Context, key Key) ([]Line, error) {
	var record models.CartSnapshot
	err := s.db.WithContext(ctx).First(&record, "key = ?", key.Bucket()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cart %q: %w", key, err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(record.Payload), &lines); err != nil {
		return nil, fmt.Errorf("decoding cart %q: %w", key, err)
	}
	return lines, nil
}

// Save implements Store with an upsert on the bucket key.
func (s *SQLStore) Save(ctx context.Context, key Key, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart %q: %w", key, err)
	}
	record := models.CartSnapshot{Key: key.Bucket(), Payload: string(payload)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("saving cart %q: %w", key, err)
	}
	return nil
}

// Erase implements Store.
func (s *SQLStore) Erase(ctx context.Context, key Key) error {
	err := s.db.WithContext(ctx).
		Delete(&models.CartSnapshot{}, "key = ?", key.Bucket()).Error
	if err != nil {
		return fmt.Errorf("erasing cart %q: %w", key, err)
	}
	return nil
}
