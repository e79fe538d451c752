package main

import (
	"context"
	"strconv"
	"time"

	"restaurant/internal/config"
	"restaurant/internal/domain/model"
	"restaurant/internal/handler"
	"restaurant/internal/infra/db"
	infraRepo "restaurant/internal/infra/repository"
	"restaurant/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":       strconv.FormatInt(user.ID, 10),
		"username":  user.Username,
		"superuser": user.IsSuperuser,
		"jti":       uuid.NewString(),
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Category{},
		&model.MenuItem{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	groupRepo := infraRepo.NewGroupGormRepository(gormDB)
	menuRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// 正規グループ2つを用意
	if err := groupRepo.EnsureCanonical(context.Background()); err != nil {
		log.Fatalf("seed groups: %v", err)
	}

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer)
	menuUC := usecase.NewMenuUsecase(menuRepo, categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, menuRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, userRepo)
	groupUC := usecase.NewGroupUsecase(groupRepo, userRepo)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	menuH := handler.NewMenuHandler(menuUC)
	cartH := handler.NewCartHandler(cartUC)
	orderH := handler.NewOrderHandler(orderUC)
	groupH := handler.NewGroupHandler(groupUC)

	//Server起動
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	authH.RegisterRoutes(e)
	menuH.RegisterRoutes(e, cfg, userRepo)
	cartH.RegisterRoutes(e, cfg, userRepo)
	orderH.RegisterRoutes(e, cfg, userRepo)
	groupH.RegisterRoutes(e, cfg, userRepo)

	addr := ":" + cfg.Port
	if err := e.Start(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
