package model

import "time"

// カートの保存データ（キーは名前空間＋セッションID）
type CartSnapshot struct {
	Key       string    `gorm:"type:varchar(255);primaryKey"`
	Data      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
