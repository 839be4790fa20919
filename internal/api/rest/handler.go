package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/api/middleware"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/rest_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// ListLatestOrders returns the latest snapshot of each order
	ListLatestOrders(c *gin.Context)
	// MarkOrderPrinted records that the label of an order was printed
	MarkOrderPrinted(c *gin.Context)
	// UpsertAccount registers or updates the marketplace credentials of an account
	UpsertAccount(c *gin.Context)
	// HealthCheck reports that the server is up
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug bool
	store store.Store
	clock adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, st store.Store, clock adapter.Clock) Handler {
	return &handler{
		debug: debug,
		store: st,
		clock: clock,
	}
}

// OrderResponse is the latest snapshot of an order as returned by the API
type OrderResponse struct {
	schema.OrderSnapshot
	PrintedAt *time.Time `json:"printedAt,omitempty"`
}

// ListLatestOrdersResponse is the response of ListLatestOrders
type ListLatestOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
}

// AccountResponse is an account as returned by the API, without its credentials
type AccountResponse struct {
	ID                int64     `json:"id"`
	Platform          string    `json:"platform"`
	ExternalAccountID string    `json:"external_account_id"`
	Name              string    `json:"name"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HealthCheck handles GET /health
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "order-api",
	})
}

// ListLatestOrders handles GET /api/v1/orders/latest
func (h *handler) ListLatestOrders(c *gin.Context) {
	var params ListLatestOrdersQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}

	statuses, limit, err := params.Validate()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	filter := store.LatestSnapshotFilter{
		AccountID: params.AccountID,
		Statuses:  statuses,
		Limit:     limit,
	}

	snapshots, err := h.store.LatestByPredicate(c.Request.Context(), filter, nil)
	if err != nil {
		respondInternalError(c, err, "Failed to list orders",
			zap.Strings("statuses", statuses))
		return
	}

	orders := make([]OrderResponse, 0, len(snapshots))
	for _, s := range snapshots {
		orders = append(orders, OrderResponse{OrderSnapshot: s, PrintedAt: s.PrintedAt})
	}

	c.JSON(http.StatusOK, ListLatestOrdersResponse{
		Orders: orders,
		Count:  len(orders),
	})
}

// MarkOrderPrinted handles POST /api/v1/orders/:order_number/printed
func (h *handler) MarkOrderPrinted(c *gin.Context) {
	orderNumber := strings.TrimSpace(c.Param("order_number"))
	if orderNumber == "" {
		respondValidationError(c, "order_number is required")
		return
	}

	var body MarkOrderPrintedBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	if caller, ok := middleware.CallerFrom(c); ok && !caller.CanAccessAccount(body.AccountID) {
		respondForbidden(c, "Account not allowed for this caller", fmt.Sprintf("account_id %d", body.AccountID))
		return
	}

	printedAt := h.clock.Now()
	if body.PrintedAt != nil {
		printedAt = *body.PrintedAt
	}

	err := h.store.MarkSnapshotPrinted(c.Request.Context(), orderNumber, body.AccountID, printedAt)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			respondNotFound(c, "Order not found", orderNumber)
			return
		}
		respondInternalError(c, err, "Failed to mark order as printed",
			zap.String("order_number", orderNumber),
			zap.Int64("account_id", body.AccountID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number": orderNumber,
		"account_id":   body.AccountID,
		"printed_at":   printedAt,
	})
}

// UpsertAccount handles PUT /api/v1/accounts
func (h *handler) UpsertAccount(c *gin.Context) {
	var body UpsertAccountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	account, err := body.Account()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	saved, err := h.store.UpsertAccount(c.Request.Context(), account)
	if err != nil {
		respondInternalError(c, err, "Failed to save account",
			zap.String("platform", account.Platform),
			zap.String("external_account_id", account.ExternalAccountID))
		return
	}

	logger.InfoCtx(c.Request.Context(), "Account saved",
		zap.Int64("account_id", saved.ID),
		zap.String("platform", saved.Platform),
		zap.Bool("active", saved.Active))

	c.JSON(http.StatusOK, AccountResponse{
		ID:                saved.ID,
		Platform:          saved.Platform,
		ExternalAccountID: saved.ExternalAccountID,
		Name:              saved.Name,
		Active:            saved.Active,
		CreatedAt:         saved.CreatedAt,
		UpdatedAt:         saved.UpdatedAt,
	})
}
