package usecase

import (
	"context"
	"net/http"
	"time"

	"restaurant/internal/authz"
	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx         repo.TransactionManager
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	users repo.UserRepository,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, orderItems: orderItems, users: users}
}

type OrderItemOutput struct {
	MenuItemID int64           `json:"menu_item_id"`
	Title      string          `json:"title"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Price      decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID             int64           `json:"id"`
	Username       string          `json:"username"`
	Status         bool            `json:"status"`
	Total          decimal.Decimal `json:"total"`
	DeliveryCrewID *int64          `json:"delivery_crew_id"`
	Date           time.Time       `json:"date"`
}

// PlaceOrder はカートを注文へ確定する。
// カート読込→注文作成→明細スナップショット→カート全削除を1トランザクションで行う。
// 途中で失敗したら全部巻き戻る。同一ユーザーの同時チェックアウトは直列化され、
// 後から来た方は空になったカートを見て400になる。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, p model.Principal) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().ListByUserIDForUpdate(ctx, p.UserID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		// 合計は明細priceのdecimal和。floatで足すと端数がずれる
		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			total = total.Add(l.Price)
			items = append(items, model.OrderItem{
				MenuItemID: l.MenuItemID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Price:      l.Price,
			})
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:   p.UserID,
			Status:   false,
			Total:    total,
			PlacedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Carts().ClearByUserID(ctx, p.UserID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{
			ID:       orderID,
			Username: p.Username,
			Status:   false,
			Total:    total,
			Date:     now,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ListOrders はロールで可視範囲が変わる。
// マネージャー/管理者は全件、配達員は自分に割り当てられた注文、それ以外は自分の注文。
func (u *OrderUsecase) ListOrders(ctx context.Context, p model.Principal) ([]OrderOutput, error) {
	var (
		orders []model.Order
		err    error
	)

	switch authz.OrdersScope(p) {
	case authz.ScopeAll:
		orders, err = u.orders.ListAll(ctx)
	case authz.ScopeAssigned:
		orders, err = u.orders.ListByDeliveryCrewID(ctx, p.UserID)
	default:
		orders, err = u.orders.ListByUserID(ctx, p.UserID)
	}
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, nil
}

// GetOrderItems は単一注文の明細。
// 見てよいのは持ち主・マネージャー・管理者・割当済み配達員だけで、
// それ以外には存在も教えない（404）。
func (u *OrderUsecase) GetOrderItems(ctx context.Context, p model.Principal, orderID int64) ([]OrderItemOutput, error) {
	if orderID <= 0 {
		return []OrderItemOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return []OrderItemOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return []OrderItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !authz.CanViewOrder(p, o) {
		return []OrderItemOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return []OrderItemOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			MenuItemID: it.MenuItemID,
			Title:      it.MenuItem.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Price:      it.Price,
		})
	}
	return outs, nil
}

// ToggleStatus は配達状況のboolを反転する。呼ぶたびに反転。
func (u *OrderUsecase) ToggleStatus(ctx context.Context, p model.Principal, orderID int64) (OrderOutput, error) {
	if !authz.CanToggleOrderStatus(p) {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orders.SetStatus(ctx, orderID, !o.Status); err != nil {
		if err == repo.ErrNotFound {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o.Status = !o.Status
	return toOrderOutput(o), nil
}

// AssignDeliveryCrew は配達員を割り当てる。注文かユーザーが無ければ404。
func (u *OrderUsecase) AssignDeliveryCrew(ctx context.Context, p model.Principal, orderID int64, crewID int64) (OrderOutput, string, error) {
	if !authz.CanAssignDeliveryCrew(p) {
		return OrderOutput{}, "", NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if orderID <= 0 || crewID <= 0 {
		return OrderOutput{}, "", NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, "", NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	crew, err := u.users.FindByID(ctx, crewID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, "", NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.orders.SetDeliveryCrew(ctx, orderID, crew.ID); err != nil {
		if err == repo.ErrNotFound {
			return OrderOutput{}, "", NewHTTPError(http.StatusNotFound, "not found")
		}
		return OrderOutput{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o.DeliveryCrewID = &crew.ID
	return toOrderOutput(o), crew.Username, nil
}

// DeleteOrder は注文と明細をまとめて消す。
func (u *OrderUsecase) DeleteOrder(ctx context.Context, p model.Principal, orderID int64) error {
	if !authz.CanDeleteOrder(p) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	// 明細→注文の順で消すので途中失敗しても巻き戻る
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Orders().FindByID(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, orderID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:             o.ID,
		Username:       o.User.Username,
		Status:         o.Status,
		Total:          o.Total,
		DeliveryCrewID: o.DeliveryCrewID,
		Date:           o.PlacedAt,
	}
}
