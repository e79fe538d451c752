// Package authz は操作ごとの認可判定をまとめる。
// ハンドラやusecaseはここを呼ぶだけで、ロール名の比較は書かない。
package authz

import "restaurant/internal/domain/model"

// OrderScope は注文一覧でどこまで見えるか。
type OrderScope int

const (
	ScopeOwn      OrderScope = iota // 自分の注文のみ
	ScopeAssigned                   // 自分に割り当てられた注文
	ScopeAll                        // 全注文
)

// CanCreateMenuItem はメニュー作成（管理者のみ）。
func CanCreateMenuItem(p model.Principal) bool {
	return p.IsSuperuser
}

// CanUpdateMenuItem は更新・featuredトグル（マネージャーか管理者）。
func CanUpdateMenuItem(p model.Principal) bool {
	return p.IsSuperuser || p.IsManager()
}

// CanDeleteMenuItem は削除（管理者のみ）。
func CanDeleteMenuItem(p model.Principal) bool {
	return p.IsSuperuser
}

// CanManageCategories はカテゴリの作成（管理者のみ）。
func CanManageCategories(p model.Principal) bool {
	return p.IsSuperuser
}

// CanManageGroups はグループメンバーの追加・削除・一覧。
func CanManageGroups(p model.Principal) bool {
	return p.IsSuperuser || p.IsManager()
}

// OrdersScope は注文一覧の可視範囲。
func OrdersScope(p model.Principal) OrderScope {
	if p.IsSuperuser || p.IsManager() {
		return ScopeAll
	}
	if p.IsDeliveryCrew() {
		return ScopeAssigned
	}
	return ScopeOwn
}

// CanViewOrder は単一注文の明細閲覧。
// 持ち主、マネージャー、管理者、割当済みの配達員だけ。
func CanViewOrder(p model.Principal, o model.Order) bool {
	if p.IsSuperuser || p.IsManager() {
		return true
	}
	if o.UserID == p.UserID {
		return true
	}
	return o.DeliveryCrewID != nil && *o.DeliveryCrewID == p.UserID
}

// CanAssignDeliveryCrew は配達員の割り当て（PUT）。
func CanAssignDeliveryCrew(p model.Principal) bool {
	return p.IsSuperuser || p.IsManager()
}

// CanToggleOrderStatus は配達状況のトグル（PATCH）。配達員も可。
func CanToggleOrderStatus(p model.Principal) bool {
	return p.IsSuperuser || p.IsManager() || p.IsDeliveryCrew()
}

// CanDeleteOrder は注文削除。
func CanDeleteOrder(p model.Principal) bool {
	return p.IsSuperuser || p.IsManager()
}
