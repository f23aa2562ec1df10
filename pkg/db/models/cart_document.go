package models

import "time"

// CartDocument stores one serialized cart under its storage key.
type CartDocument struct {
	Key       string    `gorm:"column:cart_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table created by the goose migration.
func (CartDocument) TableName() string {
	return "cart_documents"
}
