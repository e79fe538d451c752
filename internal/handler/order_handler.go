package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant/internal/config"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type AssignCrewRequest struct {
	DeliveryCrewID int64 `json:"delivery_crew_id"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.LoadPrincipal(userRepo))

	g.POST("", h.checkout)
	g.GET("", h.list)
	g.GET("/:id", h.items)
	g.PUT("/:id", h.assignCrew)
	g.PATCH("/:id", h.toggleStatus)
	g.DELETE("/:id", h.delete)
}

// チェックアウト。カートが空なら400。
func (h *OrderHandler) checkout(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("your order has been placed, your order number is %d", out.ID)
	return c.JSON(http.StatusCreated, struct {
		Message string              `json:"message"`
		Order   usecase.OrderOutput `json:"order"`
	}{Message: msg, Order: out})
}

func (h *OrderHandler) list(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	out, err := h.uc.ListOrders(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) items(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	out, err := h.uc.GetOrderItems(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// PUT: 配達員の割り当て
func (h *OrderHandler) assignCrew(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	var req AssignCrewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	out, crewName, err := h.uc.AssignDeliveryCrew(c.Request().Context(), p, id, req.DeliveryCrewID)
	if err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("%s was assigned to order #%d", crewName, out.ID)
	return c.JSON(http.StatusCreated, MessageResponse{Message: msg})
}

// PATCH: 配達状況のトグル
func (h *OrderHandler) toggleStatus(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	out, err := h.uc.ToggleStatus(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("status of order #%d changed to %t", out.ID, out.Status)
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *OrderHandler) delete(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("order #%d was deleted", id)
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}
