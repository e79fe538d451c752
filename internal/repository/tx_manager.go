package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	MenuItems() MenuItemRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// チェックアウト（カート読込→注文作成→明細作成→カート削除）を1つの原子単位にするために使う。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
