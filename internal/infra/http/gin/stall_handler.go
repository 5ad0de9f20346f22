package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/dto"
	stallapp "tahtam/internal/app/handlers/stall"
	"tahtam/internal/app/queries"
	domainrental "tahtam/internal/domain/rental"
)

type StallHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type saveStallRequest struct {
	MarketplaceID string           `json:"marketplace_id"`
	StallNumber   string           `json:"stall_number"`
	ProductTypes  []string         `json:"product_types"`
	Prices        map[string]int64 `json:"prices"`
	DefaultPrice  int64            `json:"default_price"`
	Currency      string           `json:"currency"`
}

func (h StallHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h StallHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h StallHandler) save(c *gin.Context, stallID string) {
	user, ok := requireRole(c, domainrental.RoleOwner)
	if !ok {
		return
	}
	var req saveStallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := stallapp.SaveStallCommand{
		CommandID:       generateCommandID(),
		StallID:         stallID,
		MarketplaceID:   req.MarketplaceID,
		OwnerID:         user.ID,
		StallNumber:     req.StallNumber,
		ProductTypes:    req.ProductTypes,
		Prices:          req.Prices,
		DefaultPrice:    req.DefaultPrice,
		Currency:        req.Currency,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[stallapp.SaveStallCommand, *stallapp.SaveStallResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if stallID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h StallHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, domainrental.RoleOwner); !ok {
		return
	}
	cmd := stallapp.DeleteStallCommand{
		CommandID:       generateCommandID(),
		StallID:         c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[stallapp.DeleteStallCommand, *stallapp.DeleteStallResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StallHandler) ListByMarketplace(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	q := stallapp.ListByMarketplaceQuery{
		MarketplaceID: c.Param("id"),
		OwnerID:       c.Query("owner_id"),
	}
	result, err := queries.Ask[stallapp.ListByMarketplaceQuery, *dto.StallCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h StallHandler) ListMine(c *gin.Context) {
	user, ok := requireRole(c, domainrental.RoleOwner)
	if !ok {
		return
	}
	q := stallapp.ListByOwnerQuery{OwnerID: user.ID}
	result, err := queries.Ask[stallapp.ListByOwnerQuery, *dto.StallCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ StallHTTP = StallHandler{}
