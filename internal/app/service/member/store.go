package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/tool"
	"github.com/fatflowers/duesledger/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// columns maps engine field names to typed member columns. Every other
// field name is stored in the free-form fields column.
var columns = map[string]string{
	"email":                              "email",
	billing.FieldDateRecorded:            "date_recorded",
	billing.FieldLastPaymentDate:         "last_payment_date",
	billing.FieldNextDueDate:             "next_due_date",
	billing.FieldPaymentStatus:           "member_payment_status",
	billing.FieldPendingPaymentTimestamp: "pending_payment_timestamp",
	billing.FieldLastPaymentType:         "last_payment_type",
}

var timeColumns = map[string]bool{
	"date_recorded":             true,
	"last_payment_date":         true,
	"next_due_date":             true,
	"pending_payment_timestamp": true,
}

// Store is the GORM-backed member record store.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewStore(db *gorm.DB, log *zap.SugaredLogger) *Store {
	return &Store{db: db, log: log}
}

// Create inserts a member. A missing id is generated.
func (s *Store) Create(ctx context.Context, m *models.Member) error {
	if m == nil {
		return fmt.Errorf("nil member")
	}
	if m.ID == "" {
		m.ID = tool.GenerateUUIDV7()
	}
	if m.DateRecorded.IsZero() {
		m.DateRecorded = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// Find loads a member or returns billing.ErrMemberNotFound.
func (s *Store) Find(ctx context.Context, memberID string) (*models.Member, error) {
	var m models.Member
	err := s.db.WithContext(ctx).Where("id = ?", memberID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return &m, nil
}

func (s *Store) Get(ctx context.Context, memberID, field string) (any, bool, error) {
	rec, err := s.Record(ctx, memberID)
	if err != nil {
		return nil, false, err
	}
	v, ok := rec[field]
	if !ok || v == nil {
		return nil, false, nil
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, memberID, field string, value any) error {
	column, typed := columns[field]
	if !typed {
		return s.setField(ctx, memberID, field, value)
	}
	v, err := columnValue(column, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", field, err)
	}
	res := s.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", memberID).Update(column, v)
	if res.Error != nil {
		return fmt.Errorf("failed to update member %s: %w", field, res.Error)
	}
	if res.RowsAffected == 0 {
		return billing.ErrMemberNotFound
	}
	return nil
}

func (s *Store) setField(ctx context.Context, memberID, field string, value any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Member
		err := tx.Select("id", "fields").Where("id = ?", memberID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load member fields: %w", err)
		}
		fields := datatypes.JSONMap{}
		for k, v := range m.Fields {
			fields[k] = v
		}
		if value == nil {
			delete(fields, field)
		} else {
			fields[field] = value
		}
		if err := tx.Model(&models.Member{}).Where("id = ?", memberID).Update("fields", fields).Error; err != nil {
			return fmt.Errorf("failed to update member field %s: %w", field, err)
		}
		return nil
	})
}

func (s *Store) Record(ctx context.Context, memberID string) (billing.Record, error) {
	m, err := s.Find(ctx, memberID)
	if err != nil {
		return nil, err
	}
	rec := billing.Record(m.Record())
	for k, v := range rec {
		if t, ok := v.(*time.Time); ok {
			if t == nil {
				rec[k] = nil
			} else {
				rec[k] = *t
			}
		}
	}
	return rec, nil
}

// MemberIDs returns every member id in id order.
func (s *Store) MemberIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Member{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list member ids: %w", err)
	}
	return ids, nil
}

func columnValue(column string, value any) (any, error) {
	if value == nil {
		if column == "date_recorded" {
			return nil, fmt.Errorf("date_recorded cannot be cleared")
		}
		if timeColumns[column] {
			return gorm.Expr("NULL"), nil
		}
		return "", nil
	}
	if timeColumns[column] {
		t, ok := billing.AsTime(value)
		if !ok {
			return nil, fmt.Errorf("not a date: %v", value)
		}
		return t, nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case types.PaymentStatus:
		return string(v), nil
	case types.PaymentPortal:
		return string(v), nil
	}
	s := billing.AsString(value)
	if s == "" {
		return nil, fmt.Errorf("not a string: %v", value)
	}
	return s, nil
}
