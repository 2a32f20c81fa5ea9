package paymentlog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fatflowers/duesledger/internal/app/service/billing"
	"github.com/fatflowers/duesledger/internal/models"
	"github.com/fatflowers/duesledger/pkg/tool"
	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the payment ledger as the recording service needs it.
type Store interface {
	billing.Ledger
	// List returns the member's entries in insertion order.
	List(ctx context.Context, memberID string) ([]*models.PaymentLogEntry, error)
	// FindByTransactionID and Get return nil, nil when nothing matches.
	FindByTransactionID(ctx context.Context, txnID string) (*models.PaymentLogEntry, error)
	Get(ctx context.Context, entryID string) (*models.PaymentLogEntry, error)
	Delete(ctx context.Context, entryID string) (bool, error)
	DeleteMember(ctx context.Context, memberID string) (int64, error)
}

// Ledger is the GORM payment_log_entry table.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger { return &Ledger{db: db} }

// Entries returns the member's entries, latest payment date first. Entries
// without a payment date sort last.
func (l *Ledger) Entries(ctx context.Context, memberID string) ([]*models.PaymentLogEntry, error) {
	rows, err := l.List(ctx, memberID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].PaymentDate, rows[j].PaymentDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
	return rows, nil
}

func (l *Ledger) List(ctx context.Context, memberID string) ([]*models.PaymentLogEntry, error) {
	var rows []*models.PaymentLogEntry
	if err := l.db.WithContext(ctx).Where("member_id = ?", memberID).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment log entries: %w", err)
	}
	return rows, nil
}

func (l *Ledger) Append(ctx context.Context, entry *models.PaymentLogEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.PeriodCount < 1 {
		entry.PeriodCount = 1
	}
	if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
		return "", fmt.Errorf("failed to append payment log entry: %w", err)
	}
	return entry.ID, nil
}

func (l *Ledger) FindByTransactionID(ctx context.Context, txnID string) (*models.PaymentLogEntry, error) {
	return l.first(ctx, "transaction_id = ?", txnID)
}

func (l *Ledger) Get(ctx context.Context, entryID string) (*models.PaymentLogEntry, error) {
	return l.first(ctx, "id = ?", entryID)
}

func (l *Ledger) first(ctx context.Context, query string, arg any) (*models.PaymentLogEntry, error) {
	var e models.PaymentLogEntry
	err := l.db.WithContext(ctx).Where(query, arg).Order("created_at").First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment log entry: %w", err)
	}
	return &e, nil
}

func (l *Ledger) Delete(ctx context.Context, entryID string) (bool, error) {
	res := l.db.WithContext(ctx).Where("id = ?", entryID).Delete(&models.PaymentLogEntry{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete payment log entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (l *Ledger) DeleteMember(ctx context.Context, memberID string) (int64, error) {
	res := l.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.PaymentLogEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete member payment log entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// sortColumns are the payment_log_entry columns Scan may order by.
var sortColumns = []string{
	"created_at", "payment_date", "due_date", "gross_amount",
	"member_id", "payment_portal", "transaction_id", "period_count",
}

type ScanRequest struct {
	Filters   types.CommonFilters `json:"filters"`
	From      int                 `json:"from"`
	Size      int                 `json:"size"`
	SortBy    string              `json:"sort_by"`
	SortOrder string              `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.PaymentLogEntry `json:"items"`
	Total int64                     `json:"total"`
}

// Scan pages through all entries matching the filters.
func (l *Ledger) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if !lo.Contains(sortColumns, sortBy) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSort, sortBy)
	}

	filtered := func() *gorm.DB {
		tx := l.db.WithContext(ctx).Model(&models.PaymentLogEntry{})
		if len(req.Filters) > 0 {
			tx = tx.Where(clause.Where{Exprs: []clause.Expression{req.Filters}})
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment log entries: %w", err)
	}

	q := filtered().Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.PaymentLogEntry
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan payment log entries: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}
