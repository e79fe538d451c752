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
)

// /groups のHTTP。managersとdelivery-crewで同じハンドラを使い回す。
type GroupHandler struct {
	uc *usecase.GroupUsecase
}

func NewGroupHandler(uc *usecase.GroupUsecase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

type AddMemberRequest struct {
	Username string `json:"username"`
}

func (h *GroupHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/groups")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.LoadPrincipal(userRepo))

	g.GET("/managers/users", h.listFor(model.GroupManagers))
	g.POST("/managers/users", h.addFor(model.GroupManagers))
	g.DELETE("/managers/users/:id", h.removeFor(model.GroupManagers))

	g.GET("/delivery-crew/users", h.listFor(model.GroupDeliveryCrew))
	g.POST("/delivery-crew/users", h.addFor(model.GroupDeliveryCrew))
	g.DELETE("/delivery-crew/users/:id", h.removeFor(model.GroupDeliveryCrew))
}

func (h *GroupHandler) listFor(name model.GroupName) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := getPrincipalFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
		}

		out, err := h.uc.ListMembers(c.Request().Context(), p, name)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *GroupHandler) addFor(name model.GroupName) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := getPrincipalFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
		}

		var req AddMemberRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid body"})
		}

		if err := h.uc.AddMember(c.Request().Context(), p, name, req.Username); err != nil {
			return writeError(c, err)
		}

		msg := fmt.Sprintf("user added to the %s group", name)
		return c.JSON(http.StatusCreated, MessageResponse{Message: msg})
	}
}

func (h *GroupHandler) removeFor(name model.GroupName) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := getPrincipalFromContext(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, MessageResponse{Message: "unauthorized"})
		}

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
		}

		if err := h.uc.RemoveMember(c.Request().Context(), p, name, id); err != nil {
			return writeError(c, err)
		}

		msg := fmt.Sprintf("user removed from the %s group", name)
		return c.JSON(http.StatusOK, MessageResponse{Message: msg})
	}
}
