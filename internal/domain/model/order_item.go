package model

import "github.com/shopspring/decimal"

// 注文確定時にカート明細から取るスナップショット。
// メニュー価格が後から変わっても、ここは変わらない。
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64           `gorm:"not null;index" json:"order_id"`
	MenuItemID int64           `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem        `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}
