package models

import (
	"time"

	"github.com/fatflowers/duesledger/pkg/types"
	"gorm.io/datatypes"
)

// MemberStatusLog records every fired status transition.
// Use case: troubleshooting and member history.
type MemberStatusLog struct {
	ID       string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MemberID string              `gorm:"column:member_id;type:varchar(64);index:idx_member_status_log_member,priority:1;not null" json:"member_id"`
	Event    string              `gorm:"column:event;type:varchar(64);not null" json:"event"`
	From     types.PaymentStatus `gorm:"column:from_status;type:varchar(32)" json:"from_status"`
	To       types.PaymentStatus `gorm:"column:to_status;type:varchar(32);not null" json:"to_status"`
	// Info stores the status info tuple as display strings.
	Info datatypes.JSONMap `gorm:"column:info;type:jsonb" json:"info"`
	// Transaction stores the processor payload that triggered the write, if any.
	Transaction datatypes.JSONMap `gorm:"column:transaction;type:jsonb" json:"transaction"`
	CreatedAt   time.Time         `gorm:"index:idx_member_status_log_member,priority:2" json:"created_at"`
}

func (MemberStatusLog) TableName() string {
	return "member_status_log"
}
