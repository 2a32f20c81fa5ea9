package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
	PaymentNotificationLogStatusDuplicate    PaymentNotificationLogStatus = "duplicate"
)

// PaymentNotificationLog traces a verified payment event from arrival to the
// ledger entry it produced.
type PaymentNotificationLog struct {
	ID            string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Portal        string                       `gorm:"column:payment_portal;type:varchar(32);not null" json:"payment_portal"`
	MemberID      *string                      `gorm:"column:member_id;type:varchar(64);index" json:"member_id"`
	TraceID       string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	TransactionID string                       `gorm:"column:transaction_id;type:varchar(128);index" json:"transaction_id"`
	EntryID       *string                      `gorm:"column:entry_id;type:uuid" json:"entry_id"`
	ReceivedAt    time.Time                    `gorm:"column:received_at" json:"received_at"`
	Data          datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result        *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status        PaymentNotificationLogStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_log" }
