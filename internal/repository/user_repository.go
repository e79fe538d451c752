package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// Groupsをpreloadして返す
	FindByID(ctx context.Context, userID int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

type GroupRepository interface {
	FindByName(ctx context.Context, name model.GroupName) (model.Group, error)
	// 既にメンバーでも成功する
	AddMember(ctx context.Context, group model.Group, user model.User) error
	// 非メンバーならno-op
	RemoveMember(ctx context.Context, group model.Group, user model.User) error
	ListMembers(ctx context.Context, name model.GroupName) ([]model.User, error)
	// 正規グループ2つを起動時に用意する
	EnsureCanonical(ctx context.Context) error
}
