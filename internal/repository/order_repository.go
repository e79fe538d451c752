package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// Userをpreloadして返す
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	ListByDeliveryCrewID(ctx context.Context, crewID int64) ([]model.Order, error)

	Create(ctx context.Context, order model.Order) (int64, error)
	SetStatus(ctx context.Context, orderID int64, status bool) error
	SetDeliveryCrew(ctx context.Context, orderID int64, crewID int64) error
	Delete(ctx context.Context, orderID int64) error
}
