package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tahtam/internal/app/commands"
	"tahtam/internal/app/dto"
	rentalapp "tahtam/internal/app/handlers/rental"
	"tahtam/internal/app/queries"
	domainrental "tahtam/internal/domain/rental"
)

type RentalHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createBookingRequest struct {
	MarketplaceID   string   `json:"marketplace_id"`
	StallIDs        []string `json:"stall_ids"`
	Dates           []string `json:"dates"`
	TenantID        string   `json:"tenant_id"`
	TenantName      string   `json:"tenant_name"`
	Managed         bool     `json:"managed"`
	CommissionRate  float64  `json:"commission_rate"`
	NegotiatedTotal *int64   `json:"negotiated_total"`
	Currency        string   `json:"currency"`
}

func (h RentalHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, domainrental.RoleManager, domainrental.RoleOwner)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rentalapp.CreateBookingGroupCommand{
		CommandID:       generateCommandID(),
		MarketplaceID:   req.MarketplaceID,
		StallIDs:        req.StallIDs,
		Dates:           req.Dates,
		TenantID:        req.TenantID,
		TenantName:      req.TenantName,
		Managed:         req.Managed,
		CommissionRate:  req.CommissionRate,
		NegotiatedTotal: req.NegotiatedTotal,
		Currency:        req.Currency,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	if req.Managed {
		cmd.ManagerID = user.ID
	}
	result, err := commands.Dispatch[rentalapp.CreateBookingGroupCommand, *rentalapp.CreateBookingGroupResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type applyPaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (h RentalHandler) PayLine(c *gin.Context) {
	h.applyPayment(c, c.Param("id"), "")
}

func (h RentalHandler) PayGroup(c *gin.Context) {
	h.applyPayment(c, "", c.Param("id"))
}

func (h RentalHandler) applyPayment(c *gin.Context, lineID, groupID string) {
	if _, ok := requireRole(c, domainrental.RoleManager, domainrental.RoleOwner); !ok {
		return
	}
	var req applyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := rentalapp.ApplyPaymentCommand{
		CommandID:       generateCommandID(),
		LineID:          lineID,
		GroupID:         groupID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalapp.ApplyPaymentCommand, *rentalapp.ApplyPaymentResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) DeleteLine(c *gin.Context) {
	if _, ok := requireRole(c, domainrental.RoleManager, domainrental.RoleOwner); !ok {
		return
	}
	cmd := rentalapp.DeleteLineCommand{
		CommandID:       generateCommandID(),
		LineID:          c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalapp.DeleteLineCommand, *rentalapp.DeleteLineResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) DeleteGroup(c *gin.Context) {
	if _, ok := requireRole(c, domainrental.RoleManager, domainrental.RoleOwner); !ok {
		return
	}
	cmd := rentalapp.DeleteGroupCommand{
		CommandID:       generateCommandID(),
		GroupID:         c.Param("id"),
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[rentalapp.DeleteGroupCommand, *rentalapp.DeleteGroupResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) CheckConflicts(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	q := rentalapp.CheckConflictsQuery{
		StallIDs: c.QueryArray("stall_id"),
		Dates:    c.QueryArray("date"),
	}
	result, err := queries.Ask[rentalapp.CheckConflictsQuery, *rentalapp.CheckConflictsResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) LineStatement(c *gin.Context) {
	h.statement(c, c.Param("id"), "")
}

func (h RentalHandler) GroupStatement(c *gin.Context) {
	h.statement(c, "", c.Param("id"))
}

func (h RentalHandler) statement(c *gin.Context, lineID, groupID string) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := rentalapp.StatementQuery{
		LineID:  lineID,
		GroupID: groupID,
		Role:    string(user.Role),
	}
	result, err := queries.Ask[rentalapp.StatementQuery, *rentalapp.StatementResult](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) List(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := rentalapp.ListForViewerQuery{UserID: user.ID, Role: string(user.Role)}
	result, err := queries.Ask[rentalapp.ListForViewerQuery, *dto.RentalLineCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h RentalHandler) ListByDate(c *gin.Context) {
	user, ok := requirePrincipal(c)
	if !ok {
		return
	}
	q := rentalapp.ListByDateQuery{
		MarketplaceID: c.Param("id"),
		Date:          c.Query("date"),
		Role:          string(user.Role),
	}
	result, err := queries.Ask[rentalapp.ListByDateQuery, *dto.RentalLineCollection](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ RentalHTTP = RentalHandler{}
