package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, MessageResponse{Message: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, MessageResponse{Message: "internal error"})
}

// LoadPrincipalが入れたPrincipalを取り出す
func getPrincipalFromContext(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(middleware.CtxPrincipalKey).(model.Principal)
	return p, ok
}

// /menu-items のHTTP
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type MenuItemRequest struct {
	Title      string          `json:"title"`
	Price      decimal.Decimal `json:"price"`
	Featured   bool            `json:"featured"`
	CategoryID int64           `json:"category_id"`
}

type CategoryRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// 一覧は未認証でも読める
	e.GET("/menu-items", h.list)
	e.GET("/menu-items/category", h.listCategories)

	g := e.Group("/menu-items")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.LoadPrincipal(userRepo))

	g.POST("", h.create)
	g.POST("/category", h.createCategory)
	g.GET("/:id", h.detail)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.toggleFeatured)
	g.DELETE("/:id", h.delete)
}

func (h *MenuHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid limit"})
		}
		limit = l
	}

	var minPrice *decimal.Decimal
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid min_price"})
		}
		minPrice = &d
	}

	var maxPrice *decimal.Decimal
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid max_price"})
		}
		maxPrice = &d
	}

	out, err := h.uc.ListItems(c.Request().Context(), usecase.ListMenuItemsInput{
		Page:         page,
		Limit:        limit,
		Search:       c.QueryParam("search"),
		CategorySlug: c.QueryParam("category"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Sort:         c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	out, err := h.uc.GetItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) create(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	out, err := h.uc.CreateItem(c.Request().Context(), p, usecase.MenuItemInput{
		Title:      req.Title,
		Price:      req.Price,
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *MenuHandler) update(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), p, id, usecase.MenuItemInput{
		Title:      req.Title,
		Price:      req.Price,
		Featured:   req.Featured,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// PATCHはfeaturedフラグのトグル専用
func (h *MenuHandler) toggleFeatured(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	out, err := h.uc.ToggleFeatured(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}

	msg := fmt.Sprintf("featured status of %s changed to %t", out.Title, out.Featured)
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func (h *MenuHandler) delete(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
	}

	if err := h.uc.DeleteItem(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "menu item deleted"})
}

func (h *MenuHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) createCategory(c echo.Context) error {
	p, ok := getPrincipalFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
	}

	out, err := h.uc.CreateCategory(c.Request().Context(), p, usecase.CategoryInput{
		Slug:  req.Slug,
		Title: req.Title,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
