package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/router-for-me/storefront/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps sessions in the sessions table.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore constructs a GormStore; now defaults to time.Now.
func NewGormStore(db *gorm.DB, now func() time.Time) *GormStore {
	if now == nil {
		now = time.Now
	}
	return &GormStore{db: db, now: now}
}

// Get loads an unexpired session.
func (s *GormStore) Get(ctx context.Context, id string) (Data, error) {
	if id == "" {
		return Data{}, ErrNotFound
	}
	var row models.Session
	errFind := s.db.WithContext(ctx).
		Where("sid = ? AND expire > ?", id, s.now().UTC()).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return Data{}, ErrNotFound
		}
		return Data{}, fmt.Errorf("session: load: %w", errFind)
	}
	var data Data
	if errUnmarshal := json.Unmarshal(row.Data, &data); errUnmarshal != nil {
		return Data{}, fmt.Errorf("session: decode: %w", errUnmarshal)
	}
	return data, nil
}

// Set upserts the session with a fresh expiry.
func (s *GormStore) Set(ctx context.Context, id string, data Data, ttl time.Duration) error {
	payload, errMarshal := json.Marshal(data)
	if errMarshal != nil {
		return fmt.Errorf("session: encode: %w", errMarshal)
	}
	row := models.Session{
		SID:    id,
		Data:   datatypes.JSON(payload),
		Expire: s.now().UTC().Add(ttl),
	}
	errSave := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sid"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expire"}),
	}).Create(&row).Error
	if errSave != nil {
		return fmt.Errorf("session: save: %w", errSave)
	}
	return nil
}

// Destroy removes the session; a missing row is not an error.
func (s *GormStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if errDelete := s.db.WithContext(ctx).Where("sid = ?", id).Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("session: destroy: %w", errDelete)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *GormStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expire <= ?", s.now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("session: purge: %w", res.Error)
	}
	return res.RowsAffected, nil
}
