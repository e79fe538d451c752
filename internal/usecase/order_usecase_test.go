package usecase_test

import (
	"context"
	"testing"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecaseForTx(orders *OrderRepoMock, orderItems *OrderItemRepoMock, carts *CartRepoMock) (*usecase.OrderUsecase, *TxManagerMock) {
	tx := new(TxManagerMock)
	tx.Repos = &TxReposMock{
		orders:     orders,
		orderItems: orderItems,
		carts:      carts,
		menuItems:  new(MenuRepoMock),
	}
	uc := usecase.NewOrderUsecase(tx, orders, orderItems, new(UserRepoMock))
	return uc, tx
}

func TestPlaceOrder_TotalIsExactDecimalSum(t *testing.T) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	carts := new(CartRepoMock)
	uc, tx := newOrderUsecaseForTx(orders, orderItems, carts)

	p := customerPrincipal(7)

	// item A: qty 2 × 5.00, item B: qty 1 × 3.50
	lines := []model.CartLine{
		{ID: 1, UserID: 7, MenuItemID: 10, Quantity: 2,
			UnitPrice: decimal.RequireFromString("5.00"),
			Price:     decimal.RequireFromString("10.00")},
		{ID: 2, UserID: 7, MenuItemID: 11, Quantity: 1,
			UnitPrice: decimal.RequireFromString("3.50"),
			Price:     decimal.RequireFromString("3.50")},
	}

	tx.On("WithinTx", mock.Anything).Return(nil)
	carts.On("ListByUserIDForUpdate", mock.Anything, int64(7)).Return(lines, nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 7 &&
			o.Status == false &&
			o.Total.Equal(decimal.RequireFromString("13.50"))
	})).Return(int64(42), nil)

	orderItems.On("CreateBulk", mock.Anything, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		return items[0].MenuItemID == 10 && items[0].Quantity == 2 &&
			items[0].UnitPrice.Equal(decimal.RequireFromString("5.00")) &&
			items[1].MenuItemID == 11 &&
			items[1].Price.Equal(decimal.RequireFromString("3.50"))
	})).Return(nil)

	carts.On("ClearByUserID", mock.Anything, int64(7)).Return(nil)

	out, err := uc.PlaceOrder(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("13.50")), "total=%s", out.Total)
	assert.False(t, out.Status)

	carts.AssertCalled(t, "ClearByUserID", mock.Anything, int64(7))
	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
}

func TestPlaceOrder_EmptyCartIsBadRequest(t *testing.T) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	carts := new(CartRepoMock)
	uc, tx := newOrderUsecaseForTx(orders, orderItems, carts)

	tx.On("WithinTx", mock.Anything).Return(nil)
	carts.On("ListByUserIDForUpdate", mock.Anything, int64(7)).Return([]model.CartLine{}, nil)

	_, err := uc.PlaceOrder(context.Background(), customerPrincipal(7))
	assertErrContains(t, err, "cart is empty")

	// 注文もカート削除も起きない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}

func TestPlaceOrder_ItemInsertFailureRollsBack(t *testing.T) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	carts := new(CartRepoMock)
	uc, tx := newOrderUsecaseForTx(orders, orderItems, carts)

	lines := []model.CartLine{
		{ID: 1, UserID: 7, MenuItemID: 10, Quantity: 1,
			UnitPrice: decimal.RequireFromString("2.00"),
			Price:     decimal.RequireFromString("2.00")},
	}

	tx.On("WithinTx", mock.Anything).Return(nil)
	carts.On("ListByUserIDForUpdate", mock.Anything, int64(7)).Return(lines, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(assert.AnError)

	_, err := uc.PlaceOrder(context.Background(), customerPrincipal(7))
	assertErrContains(t, err, "db error")

	// トランザクション内なのでカートは触られずに終わる
	carts.AssertNotCalled(t, "ClearByUserID", mock.Anything, mock.Anything)
}

func TestListOrders_ScopeByRole(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), new(UserRepoMock))

	orders.On("ListAll", mock.Anything).Return([]model.Order{{ID: 1}, {ID: 2}}, nil)
	orders.On("ListByDeliveryCrewID", mock.Anything, int64(3)).Return([]model.Order{{ID: 2}}, nil)
	orders.On("ListByUserID", mock.Anything, int64(9)).Return([]model.Order{{ID: 1}}, nil)

	all, err := uc.ListOrders(context.Background(), managerPrincipal(1))
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assigned, err := uc.ListOrders(context.Background(), crewPrincipal(3))
	assert.NoError(t, err)
	assert.Len(t, assigned, 1)

	own, err := uc.ListOrders(context.Background(), customerPrincipal(9))
	assert.NoError(t, err)
	assert.Len(t, own, 1)
}

func TestToggleStatus_TwiceRestoresOriginal(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), new(UserRepoMock))

	p := managerPrincipal(1)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: false}, nil).Once()
	orders.On("SetStatus", mock.Anything, int64(5), true).Return(nil).Once()

	out1, err := uc.ToggleStatus(context.Background(), p, 5)
	assert.NoError(t, err)
	assert.True(t, out1.Status)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: true}, nil).Once()
	orders.On("SetStatus", mock.Anything, int64(5), false).Return(nil).Once()

	out2, err := uc.ToggleStatus(context.Background(), p, 5)
	assert.NoError(t, err)
	assert.False(t, out2.Status)

	orders.AssertExpectations(t)
}

func TestToggleStatus_ForbiddenForCustomer(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), new(UserRepoMock))

	_, err := uc.ToggleStatus(context.Background(), customerPrincipal(9), 5)
	assertErrContains(t, err, "forbidden")
	orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestToggleStatus_CrewAllowed(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), new(UserRepoMock))

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5, Status: false}, nil)
	orders.On("SetStatus", mock.Anything, int64(5), true).Return(nil)

	out, err := uc.ToggleStatus(context.Background(), crewPrincipal(3), 5)
	assert.NoError(t, err)
	assert.True(t, out.Status)
}

func TestAssignDeliveryCrew_UnknownOrderOrUser(t *testing.T) {
	orders := new(OrderRepoMock)
	users := new(UserRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), users)

	p := managerPrincipal(1)

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound).Once()
	_, _, err := uc.AssignDeliveryCrew(context.Background(), p, 99, 3)
	assertErrContains(t, err, "not found")

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5}, nil).Once()
	users.On("FindByID", mock.Anything, int64(77)).Return(model.User{}, repo.ErrNotFound).Once()
	_, _, err = uc.AssignDeliveryCrew(context.Background(), p, 5, 77)
	assertErrContains(t, err, "not found")
}

func TestAssignDeliveryCrew_Success(t *testing.T) {
	orders := new(OrderRepoMock)
	users := new(UserRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), users)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5}, nil)
	users.On("FindByID", mock.Anything, int64(3)).Return(model.User{ID: 3, Username: "rider"}, nil)
	orders.On("SetDeliveryCrew", mock.Anything, int64(5), int64(3)).Return(nil)

	out, crewName, err := uc.AssignDeliveryCrew(context.Background(), adminPrincipal(1), 5, 3)
	assert.NoError(t, err)
	assert.Equal(t, "rider", crewName)
	if assert.NotNil(t, out.DeliveryCrewID) {
		assert.Equal(t, int64(3), *out.DeliveryCrewID)
	}
}

func TestGetOrderItems_HiddenFromStrangers(t *testing.T) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, orderItems, new(UserRepoMock))

	crewID := int64(3)
	order := model.Order{ID: 5, UserID: 7, DeliveryCrewID: &crewID}
	orders.On("FindByID", mock.Anything, int64(5)).Return(order, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{{ID: 1, OrderID: 5}}, nil)

	// 持ち主は見える
	items, err := uc.GetOrderItems(context.Background(), customerPrincipal(7), 5)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	// 割当済み配達員も見える
	_, err = uc.GetOrderItems(context.Background(), crewPrincipal(3), 5)
	assert.NoError(t, err)

	// 無関係なユーザーには404
	_, err = uc.GetOrderItems(context.Background(), customerPrincipal(8), 5)
	assertErrContains(t, err, "not found")
}

func TestDeleteOrder_CascadesItems(t *testing.T) {
	orders := new(OrderRepoMock)
	orderItems := new(OrderItemRepoMock)
	carts := new(CartRepoMock)
	uc, tx := newOrderUsecaseForTx(orders, orderItems, carts)

	tx.On("WithinTx", mock.Anything).Return(nil)
	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{ID: 5}, nil)
	orderItems.On("DeleteByOrderID", mock.Anything, int64(5)).Return(nil)
	orders.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := uc.DeleteOrder(context.Background(), managerPrincipal(1), 5)
	assert.NoError(t, err)
	orderItems.AssertCalled(t, "DeleteByOrderID", mock.Anything, int64(5))
	orders.AssertCalled(t, "Delete", mock.Anything, int64(5))
}

func TestDeleteOrder_ForbiddenForCrew(t *testing.T) {
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(new(TxManagerMock), orders, new(OrderItemRepoMock), new(UserRepoMock))

	err := uc.DeleteOrder(context.Background(), crewPrincipal(3), 5)
	assertErrContains(t, err, "forbidden")
}
