package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"restaurant/internal/authz"
	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type MenuUsecase struct {
	menuRepo     repo.MenuItemRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewMenuUsecase(menuRepo repo.MenuItemRepository, categoryRepo repo.CategoryRepository) *MenuUsecase {
	return &MenuUsecase{menuRepo: menuRepo, categoryRepo: categoryRepo}
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

type MenuItemResponse struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Price    decimal.Decimal  `json:"price"`
	Featured bool             `json:"featured"`
	Category CategoryResponse `json:"category"`
}

type MenuItemListResponse struct {
	Items []MenuItemResponse `json:"items"`
	Total int64              `json:"total"`
}

type ListMenuItemsInput struct {
	Page         int
	Limit        int
	Search       string
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         string
}

type MenuItemInput struct {
	Title      string
	Price      decimal.Decimal
	Featured   bool
	CategoryID int64
}

// ListItems は公開のメニュー一覧。未認証でも呼べる。
func (u *MenuUsecase) ListItems(ctx context.Context, in ListMenuItemsInput) (MenuItemListResponse, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	switch in.Sort {
	case "", "price_asc", "price_desc", "category":
		// OK
	default:
		return MenuItemListResponse{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.menuRepo.List(ctx, repo.MenuItemListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Search:       in.Search,
		CategorySlug: in.CategorySlug,
		MinPrice:     in.MinPrice,
		MaxPrice:     in.MaxPrice,
		Sort:         in.Sort,
	})
	if err != nil {
		return MenuItemListResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := MenuItemListResponse{Items: make([]MenuItemResponse, 0, len(items)), Total: total}
	for _, it := range items {
		resp.Items = append(resp.Items, toMenuItemResponse(it))
	}
	return resp, nil
}

func (u *MenuUsecase) GetItem(ctx context.Context, id int64) (MenuItemResponse, error) {
	if id <= 0 {
		return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.menuRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return MenuItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toMenuItemResponse(item), nil
}

// CreateItem は管理者のみ。
func (u *MenuUsecase) CreateItem(ctx context.Context, p model.Principal, in MenuItemInput) (MenuItemResponse, error) {
	if !authz.CanCreateMenuItem(p) {
		return MenuItemResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if err := validateMenuItemInput(in); err != nil {
		return MenuItemResponse{}, err
	}

	// カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.menuRepo.Create(ctx, model.MenuItem{
		Title:      in.Title,
		Price:      in.Price,
		Featured:   in.Featured,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toMenuItemResponse(created), nil
}

// UpdateItem はマネージャーか管理者。
func (u *MenuUsecase) UpdateItem(ctx context.Context, p model.Principal, id int64, in MenuItemInput) (MenuItemResponse, error) {
	if !authz.CanUpdateMenuItem(p) {
		return MenuItemResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if id <= 0 {
		return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := validateMenuItemInput(in); err != nil {
		return MenuItemResponse{}, err
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err := u.menuRepo.Update(ctx, model.MenuItem{
		ID:         id,
		Title:      in.Title,
		Price:      in.Price,
		Featured:   in.Featured,
		CategoryID: in.CategoryID,
	})
	if err == repo.ErrNotFound {
		return MenuItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetItem(ctx, id)
}

// ToggleFeatured はfeaturedフラグを反転して新しい値を返す。
func (u *MenuUsecase) ToggleFeatured(ctx context.Context, p model.Principal, id int64) (MenuItemResponse, error) {
	if !authz.CanUpdateMenuItem(p) {
		return MenuItemResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if id <= 0 {
		return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.menuRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return MenuItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.menuRepo.SetFeatured(ctx, id, !item.Featured); err != nil {
		if err == repo.ErrNotFound {
			return MenuItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item.Featured = !item.Featured
	return toMenuItemResponse(item), nil
}

// DeleteItem は管理者のみ。
func (u *MenuUsecase) DeleteItem(ctx context.Context, p model.Principal, id int64) error {
	if !authz.CanDeleteMenuItem(p) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if id <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.menuRepo.Delete(ctx, id)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *MenuUsecase) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []CategoryResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryResponse{ID: c.ID, Slug: c.Slug})
	}
	return out, nil
}

type CategoryInput struct {
	Slug  string
	Title string
}

// CreateCategory は管理者のみ。
func (u *MenuUsecase) CreateCategory(ctx context.Context, p model.Principal, in CategoryInput) (CategoryResponse, error) {
	if !authz.CanManageCategories(p) {
		return CategoryResponse{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if in.Slug == "" {
		return CategoryResponse{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{Slug: in.Slug, Title: in.Title})
	if err == repo.ErrConflict {
		return CategoryResponse{}, NewHTTPError(http.StatusConflict, "category already exists")
	}
	if err != nil {
		return CategoryResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return CategoryResponse{ID: created.ID, Slug: created.Slug}, nil
}

func validateMenuItemInput(in MenuItemInput) error {
	if in.Title == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid title")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.CategoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}
	return nil
}

func toMenuItemResponse(it model.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:       it.ID,
		Title:    it.Title,
		Price:    it.Price,
		Featured: it.Featured,
		Category: CategoryResponse{ID: it.Category.ID, Slug: it.Category.Slug},
	}
}
