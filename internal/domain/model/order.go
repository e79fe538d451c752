package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status は bool ひとつ: false=オープン / true=配達完了。
// total は注文確定時のカート明細合計で、以後は再計算しない。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64           `gorm:"not null;index" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID" json:"-"`
	Status         bool            `gorm:"not null;default:false" json:"status"`
	Total          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	DeliveryCrewID *int64          `gorm:"index" json:"delivery_crew_id"`
	DeliveryCrew   *User           `gorm:"foreignKey:DeliveryCrewID" json:"-"`
	PlacedAt       time.Time       `gorm:"not null" json:"date"`
}
