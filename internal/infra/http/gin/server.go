package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"tahtam/internal/infra/config"
	"tahtam/internal/infra/obs"
)

type RentalHTTP interface {
	Create(c *gin.Context)
	PayLine(c *gin.Context)
	PayGroup(c *gin.Context)
	DeleteLine(c *gin.Context)
	DeleteGroup(c *gin.Context)
	CheckConflicts(c *gin.Context)
	LineStatement(c *gin.Context)
	GroupStatement(c *gin.Context)
	List(c *gin.Context)
	ListByDate(c *gin.Context)
}

type StallHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	ListByMarketplace(c *gin.Context)
	ListMine(c *gin.Context)
}

type MarketHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	List(c *gin.Context)
}

type DashboardHTTP interface {
	Stats(c *gin.Context)
}

type Handlers struct {
	Rental             RentalHTTP
	Stall              StallHTTP
	Market             MarketHTTP
	Dashboard          DashboardHTTP
	IdentityMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-User-ID", "X-User-Role", "X-User-Name"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.IdentityMiddleware != nil {
		router.Use(h.IdentityMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Rental != nil {
		api.POST("/rentals", h.Rental.Create)
		api.GET("/rentals", h.Rental.List)
		api.GET("/rentals/conflicts", h.Rental.CheckConflicts)
		api.POST("/rentals/:id/payments", h.Rental.PayLine)
		api.GET("/rentals/:id/statement", h.Rental.LineStatement)
		api.DELETE("/rentals/:id", h.Rental.DeleteLine)
		api.POST("/rental-groups/:id/payments", h.Rental.PayGroup)
		api.GET("/rental-groups/:id/statement", h.Rental.GroupStatement)
		api.DELETE("/rental-groups/:id", h.Rental.DeleteGroup)
	}
	if h.Market != nil {
		api.GET("/marketplaces", h.Market.List)
		api.POST("/marketplaces", h.Market.Create)
		api.PUT("/marketplaces/:id", h.Market.Update)
		api.DELETE("/marketplaces/:id", h.Market.Delete)
	}
	if h.Stall != nil {
		api.GET("/marketplaces/:id/stalls", h.Stall.ListByMarketplace)
		api.POST("/stalls", h.Stall.Create)
		api.PUT("/stalls/:id", h.Stall.Update)
		api.DELETE("/stalls/:id", h.Stall.Delete)
		api.GET("/me/stalls", h.Stall.ListMine)
	}
	if h.Rental != nil {
		api.GET("/marketplaces/:id/rentals", h.Rental.ListByDate)
	}
	if h.Dashboard != nil {
		api.GET("/dashboard", h.Dashboard.Stats)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
