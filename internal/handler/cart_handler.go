package handler

import (
	"net/http"

	"restaurant/internal/config"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int64 `json:"quantity"`
}

// menu_item_id 無しなら全削除
type RemoveCartRequest struct {
	MenuItemID int64 `json:"menu_item_id"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.LoadPrincipal(userRepo))

	g.GET("/menu-item", h.list)
	g.POST("/menu-item", h.add)
	g.DELETE("/menu-item", h.remove)
}

func (h *CartHandler) list(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	out, err := h.uc.List(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	if _, err := h.uc.Add(c.Request().Context(), p, usecase.AddCartLineInput{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "item added to cart"})
}

// bodyにmenu_item_idがあればその明細だけ、無ければ全部消す
func (h *CartHandler) remove(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	var req RemoveCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	if req.MenuItemID == 0 {
		if err := h.uc.Clear(c.Request().Context(), p); err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, MessageResponse{Message: "all items removed from cart"})
	}

	if _, err := h.uc.Remove(c.Request().Context(), p, req.MenuItemID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "item removed from cart"})
}
