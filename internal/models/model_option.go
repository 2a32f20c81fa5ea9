package models

import (
	"time"

	"gorm.io/datatypes"
)

// Option is a named slot in the shared settings store.
type Option struct {
	Name      string         `gorm:"column:name;type:varchar(128);primary_key" json:"name"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Option) TableName() string {
	return "app_option"
}
