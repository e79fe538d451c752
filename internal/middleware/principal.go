package middleware

import (
	"net/http"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"

	"github.com/labstack/echo/v4"
)

// LoadPrincipal はAuthJWTの後段。
// グループ所属はトークンではなくDBから毎回引く。ロールを外された直後の
// トークンで権限が残らないようにするため。
func LoadPrincipal(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawUserID := c.Get(CtxUserIDKey)
			userID, ok := rawUserID.(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, messageJSON("unauthorized"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, messageJSON("unauthorized"))
			}

			groups := make([]model.GroupName, 0, len(user.Groups))
			for _, g := range user.Groups {
				groups = append(groups, g.Name)
			}

			c.Set(CtxPrincipalKey, model.Principal{
				UserID:      user.ID,
				Username:    user.Username,
				IsSuperuser: user.IsSuperuser,
				Groups:      groups,
			})

			return next(c)
		}
	}
}
