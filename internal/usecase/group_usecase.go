package usecase

import (
	"context"
	"net/http"

	"restaurant/internal/authz"
	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

// GroupUsecase はスタッフグループ（manager / delivery crew）のメンバー管理。
type GroupUsecase struct {
	groups repo.GroupRepository
	users  repo.UserRepository
}

func NewGroupUsecase(groups repo.GroupRepository, users repo.UserRepository) *GroupUsecase {
	return &GroupUsecase{groups: groups, users: users}
}

type MemberOutput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AddMember はusernameで指定したユーザーをグループへ入れる。
// 既にメンバーでも成功（冪等）。ユーザーが見つからなければ404。
func (u *GroupUsecase) AddMember(ctx context.Context, p model.Principal, name model.GroupName, username string) error {
	if !authz.CanManageGroups(p) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if username == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid username")
	}

	group, err := u.groups.FindByName(ctx, name)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user, err := u.users.FindByUsername(ctx, username)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.groups.AddMember(ctx, group, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// RemoveMember はuserIDで外す。非メンバーならno-op。ユーザーが無ければ404。
func (u *GroupUsecase) RemoveMember(ctx context.Context, p model.Principal, name model.GroupName, userID int64) error {
	if !authz.CanManageGroups(p) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	group, err := u.groups.FindByName(ctx, name)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.groups.RemoveMember(ctx, group, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// ListMembers は現メンバーのusernameとemail。
func (u *GroupUsecase) ListMembers(ctx context.Context, p model.Principal, name model.GroupName) ([]MemberOutput, error) {
	if !authz.CanManageGroups(p) {
		return []MemberOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	users, err := u.groups.ListMembers(ctx, name)
	if err == repo.ErrNotFound {
		return []MemberOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return []MemberOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]MemberOutput, 0, len(users))
	for _, m := range users {
		outs = append(outs, MemberOutput{Username: m.Username, Email: m.Email})
	}
	return outs, nil
}
