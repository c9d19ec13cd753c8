package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品（英語・アラビア語の表示名を両方持つ）
type Product struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	NameEN        string          `gorm:"type:varchar(255);not null" json:"name_en"`
	NameAR        string          `gorm:"type:varchar(255);not null" json:"name_ar"`
	DescriptionEN string          `gorm:"type:text" json:"description_en"`
	DescriptionAR string          `gorm:"type:text" json:"description_ar"`
	Category      string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Sizes         []string        `gorm:"serializer:json;type:text" json:"sizes"`
	Colors        []string        `gorm:"serializer:json;type:text" json:"colors"`
	ImageURL      string          `gorm:"type:text" json:"image_url"`
	Stock         int64           `gorm:"not null" json:"stock"`
	IsActive      bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p Product) LocalizedName(locale Locale) string {
	if locale == LocaleAR && p.NameAR != "" {
		return p.NameAR
	}
	return p.NameEN
}

func (p Product) LocalizedDescription(locale Locale) string {
	if locale == LocaleAR && p.DescriptionAR != "" {
		return p.DescriptionAR
	}
	return p.DescriptionEN
}

// サイズ/カラーの選択肢が定義されていれば、その中にあるか
func (p Product) HasSize(size string) bool {
	return len(p.Sizes) == 0 || slices.Contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return len(p.Colors) == 0 || slices.Contains(p.Colors, color)
}
