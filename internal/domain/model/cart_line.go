package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。
// (user_id, menu_item_id) は一意。同じ商品の二重追加はDB制約で弾く。
// unit_price は追加時点の価格スナップショットで、メニューの現在価格とはずれてよい。
type CartLine struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"user_id"`
	MenuItemID int64           `gorm:"not null;uniqueIndex:idx_user_menu_item" json:"menu_item_id"`
	MenuItem   MenuItem        `gorm:"foreignKey:MenuItemID" json:"menu_item"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
