package model

// GroupName はスタッフグループの正規名。
// 文字列リテラルの打ち間違いで権限チェックがすり抜けないよう、enumに固定する。
type GroupName string

const (
	GroupManagers     GroupName = "manager"
	GroupDeliveryCrew GroupName = "delivery crew"
)

// IsValid は認識済みグループ名かどうか。
func (n GroupName) IsValid() bool {
	return n == GroupManagers || n == GroupDeliveryCrew
}

type Group struct {
	ID   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name GroupName `gorm:"type:varchar(32);uniqueIndex;not null" json:"name"`

	Users []User `gorm:"many2many:user_groups" json:"-"`
}
