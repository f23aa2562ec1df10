package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL keeps one row per key in the cart_documents table (postgres or sqlite).
type SQL struct {
	client *db.Client
	now    func() time.Time
}

func NewSQL(client *db.Client) (*SQL, error) {
	if client == nil || client.DB() == nil {
		return nil, errors.New("db client is required")
	}
	return &SQL{client: client, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var doc models.CartDocument
	err := s.client.DB().WithContext(ctx).Where("cart_key = ?", key).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select cart document %s: %w", key, err)
	}
	return doc.Payload, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	doc := models.CartDocument{Key: key, Payload: value, UpdatedAt: s.now().UTC()}
	err := s.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("upsert cart document %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
