// Package webserver owns the echo instance, its middleware chain and the
// request-auth helpers shared by the API packages.
package webserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/craftline/wardrobe/config"
	"github.com/craftline/wardrobe/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbContextKey = "gormDB"

type Server struct {
	cfg  *config.AppConfig
	echo *echo.Echo
}

func New(cfg *config.AppConfig, db *gorm.DB) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db)
			return next(c)
		}
	})
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		Skipper:    publicRoute,
	}))

	e.HTTPErrorHandler = errorHandler

	return &Server{cfg: cfg, echo: e}
}

func (s *Server) Echo() *echo.Echo { return s.echo }

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return s.echo.Start(addr)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

// publicRoute marks the endpoints reachable without a session token. The
// payment callback authenticates with its own signature instead.
func publicRoute(c echo.Context) bool {
	path := c.Path()
	switch {
	case strings.HasPrefix(path, "/api/auth/"):
		return true
	case path == "/api/payment/callback":
		return true
	case c.Request().Method == http.MethodGet &&
		(strings.HasPrefix(path, "/api/products") || strings.HasPrefix(path, "/api/reviews/product")):
		return true
	}
	return false
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, map[string]interface{}{"code": 1, "msg": he.Message})
		return
	}
	zap.S().Errorf("unhandled error: %s", err)
	_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{"code": 1, "msg": "internal error"})
}

// GetDB pulls the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

func claims(c echo.Context) jwt.MapClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return mc
}

// UserID returns the authenticated user's id, or zero on public routes.
func UserID(c echo.Context) int64 {
	mc := claims(c)
	if mc == nil {
		return 0
	}
	uid, ok := mc["uid"].(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// UserLevel returns the authenticated user's role.
func UserLevel(c echo.Context) string {
	mc := claims(c)
	if mc == nil {
		return ""
	}
	level, _ := mc["level"].(string)
	return level
}

// RequireAdmin gates a route group to admin accounts.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserLevel(c) != domain.UserLevelAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
