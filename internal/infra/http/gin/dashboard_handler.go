package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tahtam/internal/app/dto"
	dashboardapp "tahtam/internal/app/handlers/dashboard"
	"tahtam/internal/app/queries"
)

type DashboardHandler struct {
	Queries queries.Bus
}

func (h DashboardHandler) Stats(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := dashboardapp.StatsQuery{UserID: user.ID, Role: string(user.Role)}
	result, err := queries.Ask[dashboardapp.StatsQuery, *dto.DashboardStats](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ DashboardHTTP = DashboardHandler{}
