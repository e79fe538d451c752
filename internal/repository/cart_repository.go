package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type CartRepository interface {
	// メニュー情報込みでユーザーの明細を返す
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 行ロック付きの読み取り。チェックアウトのトランザクション内で使う
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error)
	// (user, menu_item) が既にあれば ErrConflict（数量加算はしない）
	Create(ctx context.Context, line model.CartLine) (model.CartLine, error)
	DeleteByUserAndMenuItem(ctx context.Context, userID int64, menuItemID int64) error
	// ユーザーの明細を全削除。空でもエラーにしない
	ClearByUserID(ctx context.Context, userID int64) error
}
