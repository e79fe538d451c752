package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type GroupGormRepository struct {
	db *gorm.DB
}

func NewGroupGormRepository(db *gorm.DB) *GroupGormRepository {
	return &GroupGormRepository{db: db}
}

func (r *GroupGormRepository) FindByName(ctx context.Context, name model.GroupName) (model.Group, error) {
	if !name.IsValid() {
		return model.Group{}, repo.ErrNotFound
	}
	var g model.Group
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Group{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Group{}, err
	}
	return g, nil
}

// 既にメンバーでも成功（join行のupsertはgormが面倒を見る）
func (r *GroupGormRepository) AddMember(ctx context.Context, group model.Group, user model.User) error {
	return r.db.WithContext(ctx).Model(&group).Association("Users").Append(&user)
}

// 非メンバーならno-op
func (r *GroupGormRepository) RemoveMember(ctx context.Context, group model.Group, user model.User) error {
	return r.db.WithContext(ctx).Model(&group).Association("Users").Delete(&user)
}

func (r *GroupGormRepository) ListMembers(ctx context.Context, name model.GroupName) ([]model.User, error) {
	if !name.IsValid() {
		return []model.User{}, repo.ErrNotFound
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("join user_groups on user_groups.user_id = users.id").
		Joins("join groups on groups.id = user_groups.group_id").
		Where("groups.name = ?", name).
		Order("users.id asc").
		Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}

// 正規グループ2つを起動時に用意する
func (r *GroupGormRepository) EnsureCanonical(ctx context.Context) error {
	for _, name := range []model.GroupName{model.GroupManagers, model.GroupDeliveryCrew} {
		g := model.Group{Name: name}
		if err := r.db.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(&g).Error; err != nil {
			return err
		}
	}
	return nil
}
