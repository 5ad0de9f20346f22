package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/dto"
	marketapp "tahtam/internal/app/handlers/market"
	"tahtam/internal/app/queries"
	domainrental "tahtam/internal/domain/rental"
)

type MarketHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type saveMarketplaceRequest struct {
	Name     string   `json:"name"`
	OpenDays []string `json:"open_days"`
}

func (h MarketHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h MarketHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h MarketHandler) save(c *gin.Context, marketID string) {
	if _, ok := requireRole(c, domainrental.RoleManager); !ok {
		return
	}
	var req saveMarketplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := marketapp.SaveMarketplaceCommand{
		CommandID:       generateCommandID(),
		MarketplaceID:   marketID,
		Name:            req.Name,
		OpenDays:        req.OpenDays,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[marketapp.SaveMarketplaceCommand, *marketapp.SaveMarketplaceResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if marketID == "" {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h MarketHandler) Delete(c *gin.Context) {
	if _, ok := requireRole(c, domainrental.RoleManager); !ok {
		return
	}
	cmd := marketapp.DeleteMarketplaceCommand{
		CommandID:       generateCommandID(),
		MarketplaceID:   c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[marketapp.DeleteMarketplaceCommand, *marketapp.DeleteMarketplaceResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h MarketHandler) List(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	result, err := queries.Ask[marketapp.ListMarketplacesQuery, *dto.MarketplaceCollection](c.Request.Context(), h.Queries, marketapp.ListMarketplacesQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ MarketHTTP = MarketHandler{}
