package models

import (
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentLogEntry is one logged payment or manual entry. Rows are never
// updated in place; an edit is a delete followed by an insert.
type PaymentLogEntry struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"entry_id"`
	MemberID string `gorm:"column:member_id;type:varchar(64);index:idx_member_payment_date,priority:1;not null" json:"member_id"`
	// PaymentDate is when the payment was made.
	PaymentDate *time.Time `gorm:"column:payment_date;index:idx_member_payment_date,priority:2" json:"payment_date"`
	// DueDate is the due date in effect when the payment was recorded.
	DueDate       *time.Time          `gorm:"column:due_date" json:"due_date"`
	GrossAmount   decimal.Decimal     `gorm:"column:gross_amount;type:decimal(18,4);not null;default:0" json:"gross_amount"`
	Currency      string              `gorm:"column:currency;type:varchar(8)" json:"currency"`
	TransactionID *string             `gorm:"column:transaction_id;type:varchar(128);index" json:"transaction_id"`
	Portal        types.PaymentPortal `gorm:"column:payment_portal;type:varchar(32);not null" json:"payment_portal"`
	PayerEmail    string              `gorm:"column:payer_email;type:varchar(255)" json:"payer_email"`
	PeriodCount   int                 `gorm:"column:period_count;not null;default:1" json:"period_count"`
	Note          string              `gorm:"column:note;type:text" json:"note"`
	// Columns keeps processor-specific values verbatim.
	Columns datatypes.JSONMap `gorm:"column:columns;type:jsonb" json:"columns"`
	// CreatedAt is the log insertion time.
	CreatedAt time.Time `gorm:"column:created_at" json:"timestamp"`
}

func (PaymentLogEntry) TableName() string {
	return "payment_log_entry"
}

// Consistent reports whether the entry carries both dates.
func (e *PaymentLogEntry) Consistent() bool {
	return e.PaymentDate != nil && !e.PaymentDate.IsZero() && e.DueDate != nil && !e.DueDate.IsZero()
}

func (e *PaymentLogEntry) GetTransactionID() string {
	if e.TransactionID == nil {
		return ""
	}
	return *e.TransactionID
}
