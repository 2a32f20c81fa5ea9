package models

import (
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
	"gorm.io/datatypes"
)

// Member is the member record the dues engine reads and writes. Columns the
// engine knows about are typed; anything else lives in Fields.
type Member struct {
	ID                      string              `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email                   string              `gorm:"column:email;type:varchar(255)" json:"email"`
	DateRecorded            time.Time           `gorm:"column:date_recorded;not null" json:"date_recorded"`
	LastPaymentDate         *time.Time          `gorm:"column:last_payment_date" json:"last_payment_date"`
	NextDueDate             *time.Time          `gorm:"column:next_due_date;index" json:"next_due_date"`
	PaymentStatus           types.PaymentStatus `gorm:"column:member_payment_status;type:varchar(32);index" json:"member_payment_status"`
	PendingPaymentTimestamp *time.Time          `gorm:"column:pending_payment_timestamp" json:"pending_payment_timestamp"`
	LastPaymentType         string              `gorm:"column:last_payment_type;type:varchar(32)" json:"last_payment_type"`
	Fields                  datatypes.JSONMap   `gorm:"column:fields;type:jsonb" json:"fields"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`
}

func (Member) TableName() string {
	return "member"
}

// Record flattens the member into a field map, typed columns taking
// precedence over same-named free-form fields.
func (m *Member) Record() map[string]any {
	rec := make(map[string]any, len(m.Fields)+8)
	for k, v := range m.Fields {
		rec[k] = v
	}
	rec["id"] = m.ID
	rec["email"] = m.Email
	rec["date_recorded"] = m.DateRecorded
	rec["last_payment_date"] = m.LastPaymentDate
	rec["next_due_date"] = m.NextDueDate
	rec["member_payment_status"] = m.PaymentStatus
	rec["pending_payment_timestamp"] = m.PendingPaymentTimestamp
	rec["last_payment_type"] = m.LastPaymentType
	return rec
}
