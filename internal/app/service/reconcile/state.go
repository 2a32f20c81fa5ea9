package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResumeSlot is the option name holding the ids a pass did not reach.
const ResumeSlot = "dues-update_id_list"

// StateStore persists the resume list between passes.
type StateStore interface {
	// Load returns the stored list; ok is false when no list is stored.
	Load(ctx context.Context) (ids []string, ok bool, err error)
	Save(ctx context.Context, ids []string) error
	Clear(ctx context.Context) error
}

// OptionState keeps the resume list in one app_option row.
type OptionState struct {
	db   *gorm.DB
	name string
}

func NewOptionState(db *gorm.DB) *OptionState {
	return &OptionState{db: db, name: ResumeSlot}
}

func (s *OptionState) Load(ctx context.Context) ([]string, bool, error) {
	var opt models.Option
	err := s.db.WithContext(ctx).Where("name = ?", s.name).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load resume list: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(opt.Value, &ids); err != nil {
		return nil, false, fmt.Errorf("failed to decode resume list: %w", err)
	}
	return ids, true, nil
}

func (s *OptionState) Save(ctx context.Context, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode resume list: %w", err)
	}
	opt := &models.Option{Name: s.name, Value: datatypes.JSON(raw), UpdatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(opt).Error
	if err != nil {
		return fmt.Errorf("failed to save resume list: %w", err)
	}
	return nil
}

func (s *OptionState) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("name = ?", s.name).Delete(&models.Option{}).Error; err != nil {
		return fmt.Errorf("failed to clear resume list: %w", err)
	}
	return nil
}
