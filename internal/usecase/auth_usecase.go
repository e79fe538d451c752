package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer はアクセストークンの発行。実装はcmd側で組み立てる。
type TokenIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	users      repo.UserRepository
	issuer     TokenIssuer
	bcryptCost int
}

func NewAuthUsecase(users repo.UserRepository, issuer TokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer, bcryptCost: 12}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type RegisterOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register は新規ユーザー登録。username/emailの重複は409。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || len(username) > 150 {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "invalid username")
	}
	if email == "" || !strings.Contains(email, "@") {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return RegisterOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return RegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := u.users.Create(ctx, &user); err != nil {
		if err == repo.ErrConflict {
			return RegisterOutput{}, NewHTTPError(http.StatusConflict, "user already exists")
		}
		return RegisterOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return RegisterOutput{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// Login は資格情報を検証してJWTを返す。
// ユーザー不在とパスワード不一致は同じ401にする（列挙攻撃対策）。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if in.Username == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid credentials format")
	}

	user, err := u.users.FindByUsername(ctx, in.Username)
	if err == repo.ErrNotFound {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := u.issuer.Issue(user, time.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{Token: token, ExpiresAt: expiresAt}, nil
}
