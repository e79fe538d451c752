package usecase

import (
	"context"
	"net/http"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジック。
type CartUsecase struct {
	cartRepo repo.CartRepository
	menuRepo repo.MenuItemRepository
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository, menuRepo repo.MenuItemRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo, menuRepo: menuRepo}
}

// menu_item は明細に埋め込む。price は追加時点のスナップショット。
type CartLineResponse struct {
	MenuItemID int64           `json:"menu_item_id"`
	Title      string          `json:"title"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Price      decimal.Decimal `json:"price"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartLineInput struct {
	MenuItemID int64
	Quantity   int64
}

// List はユーザーのカートを返す。
func (u *CartUsecase) List(ctx context.Context, p model.Principal) (CartResponse, error) {
	lines, err := u.cartRepo.ListByUserID(ctx, p.UserID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toCartResponse(lines), nil
}

// Add はカートに明細を追加する。
// 同じ商品が既に入っていたら409。数量の加算はしない（削除してから入れ直す決まり）。
func (u *CartUsecase) Add(ctx context.Context, p model.Principal, in AddCartLineInput) (CartResponse, error) {
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.MenuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu item")
	}

	// 商品チェック。存在しないIDは入力不正として扱う
	item, err := u.menuRepo.FindByID(ctx, in.MenuItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu item")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 価格は追加時点でスナップショット
	unit := item.Price
	price := unit.Mul(decimal.NewFromInt(in.Quantity))

	_, err = u.cartRepo.Create(ctx, model.CartLine{
		UserID:     p.UserID,
		MenuItemID: in.MenuItemID,
		Quantity:   in.Quantity,
		UnitPrice:  unit,
		Price:      price,
	})
	if err == repo.ErrConflict {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "item is already in the cart")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.List(ctx, p)
}

// Remove は指定商品の明細を消す。無ければ404。
func (u *CartUsecase) Remove(ctx context.Context, p model.Principal, menuItemID int64) (CartResponse, error) {
	if menuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu item")
	}

	err := u.cartRepo.DeleteByUserAndMenuItem(ctx, p.UserID, menuItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.List(ctx, p)
}

// Clear は全明細を消す。空でもエラーにしない。
func (u *CartUsecase) Clear(ctx context.Context, p model.Principal) error {
	if err := u.cartRepo.ClearByUserID(ctx, p.UserID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toCartResponse(lines []model.CartLine) CartResponse {
	items := make([]CartLineResponse, 0, len(lines))
	total := decimal.Zero

	for _, l := range lines {
		items = append(items, CartLineResponse{
			MenuItemID: l.MenuItemID,
			Title:      l.MenuItem.Title,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Price:      l.Price,
		})
		total = total.Add(l.Price)
	}

	return CartResponse{Items: items, Total: total}
}
