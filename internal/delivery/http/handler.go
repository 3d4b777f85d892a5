package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/freshtrack/backend/internal/domain"
	"github.com/freshtrack/backend/internal/export"
	"github.com/freshtrack/backend/internal/metrics"
	"github.com/freshtrack/backend/internal/usecase"
)

// expiryDateLayout is the wire format for dates in request/response bodies
const expiryDateLayout = "2006-01-02"

// maxUploadBytes bounds label photo uploads (8 MiB)
const maxUploadBytes = 8 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	auth      *usecase.AuthService
	scans     *usecase.ScanService
	inventory *usecase.InventoryService
	nutrition *usecase.NutritionService
	retail    *usecase.RetailService
	metrics   *metrics.Metrics
}

// NewHandler creates a new HTTP handler
func NewHandler(
	authService *usecase.AuthService,
	scanService *usecase.ScanService,
	inventoryService *usecase.InventoryService,
	nutritionService *usecase.NutritionService,
	retailService *usecase.RetailService,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		auth:      authService,
		scans:     scanService,
		inventory: inventoryService,
		nutrition: nutritionService,
		retail:    retailService,
		metrics:   m,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "freshtrack-backend",
		"version": "1.0.0",
	})
}

// --- auth ---

// Register creates a new account
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}
	user, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and returns a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// --- scanning ---

// ScanLabel accepts either a label photo (multipart field "image") or an
// already-recognized text blob (JSON field "rawText") and returns the scan
// outcome: auto-resolved, awaiting a user choice, or needs manual entry.
func (h *Handler) ScanLabel(c *gin.Context) {
	var result *domain.ScanResult

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		result, err = h.scans.ScanImage(c.Request.Context(), data)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		var req struct {
			RawText string `json:"rawText" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide an image upload or a rawText field"})
			return
		}
		result = h.scans.ParseText(req.RawText)
	}

	h.metrics.ScansTotal.Inc()
	switch result.State {
	case domain.ScanAutoResolved:
		h.metrics.ScansAutoResolve.Inc()
	case domain.ScanAwaitingUserChoice:
		h.metrics.ScansUserChoice.Inc()
	case domain.ScanNeedsManualEntry:
		h.metrics.ScansManualEntry.Inc()
	}

	c.JSON(http.StatusOK, result)
}

// --- inventory ---

type itemRequest struct {
	Name       string `json:"name"`
	Barcode    string `json:"barcode"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity"`
	ExpiryDate string `json:"expiryDate"`
}

func (r *itemRequest) toInput() (usecase.CreateItemInput, error) {
	input := usecase.CreateItemInput{
		Name:     r.Name,
		Barcode:  r.Barcode,
		Category: r.Category,
		Quantity: r.Quantity,
	}
	if r.ExpiryDate != "" {
		date, err := time.Parse(expiryDateLayout, r.ExpiryDate)
		if err != nil {
			return input, fmt.Errorf("expiryDate must be YYYY-MM-DD")
		}
		input.ExpiryDate = date
	}
	return input, nil
}

// CreateItem records a food item. This is also the confirmation step of a
// scan: the client sends the auto-resolved or user-chosen date here.
func (h *Handler) CreateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.inventory.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.ItemsCreated.Inc()
	c.JSON(http.StatusCreated, item)
}

// ListItems returns the caller's items, each annotated with expiry status
func (h *Handler) ListItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.inventory.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns a single owned item
func (h *Handler) GetItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	item, err := h.inventory.Get(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem replaces the mutable fields of an owned item
func (h *Handler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.inventory.Update(c.Request.Context(), userID, itemID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes an owned item
func (h *Handler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := h.inventory.Delete(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Alerts returns the caller's expired and use-soon items
func (h *Handler) Alerts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	summary, err := h.inventory.Alerts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportItems streams the caller's inventory as an XLSX download
func (h *Handler) ExportItems(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	items, err := h.inventory.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	workbook, err := export.BuildInventoryWorkbook(items, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("inventory-%s.xlsx", time.Now().Format(expiryDateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// --- nutrition ---

// LookupBarcode returns nutrition data for a barcode
func (h *Handler) LookupBarcode(c *gin.Context) {
	data, err := h.nutrition.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// SearchNutrition returns nutrition data for a free-text product name
func (h *Handler) SearchNutrition(c *gin.Context) {
	var req struct {
		ProductName string `json:"productName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}
	data, err := h.nutrition.SearchByName(c.Request.Context(), req.ProductName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// --- retail ---

// CreateDiscount records a percentage discount on one of the retailer's items
func (h *Handler) CreateDiscount(c *gin.Context) {
	retailerID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		ItemID  string `json:"itemId" binding:"required"`
		Percent int    `json:"percent" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId and percent are required"})
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	discount, err := h.retail.CreateDiscount(c.Request.Context(), retailerID, itemID, req.Percent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, discount)
}

// ToggleDiscount flips a discount between active and inactive
func (h *Handler) ToggleDiscount(c *gin.Context) {
	retailerID, ok := currentUserID(c)
	if !ok {
		return
	}
	discountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount id"})
		return
	}
	discount, err := h.retail.ToggleDiscount(c.Request.Context(), retailerID, discountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, discount)
}

// ListDiscounts returns all of the retailer's discounts
func (h *Handler) ListDiscounts(c *gin.Context) {
	retailerID, ok := currentUserID(c)
	if !ok {
		return
	}
	discounts, err := h.retail.ListDiscounts(c.Request.Context(), retailerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts})
}

// RouteItem returns an advisory destination suggestion for an item
func (h *Handler) RouteItem(c *gin.Context) {
	retailerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	decision, err := h.retail.RouteItem(c.Request.Context(), retailerID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// ConfirmRouting persists a destination after the retailer accepts it
func (h *Handler) ConfirmRouting(c *gin.Context) {
	retailerID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req struct {
		Destination string `json:"destination" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination is required"})
		return
	}
	item, err := h.retail.ConfirmRouting(c.Request.Context(), retailerID, itemID, domain.ItemDestination(req.Destination))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// --- helpers ---

// currentUserID reads the authenticated caller's id set by AuthMiddleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ctxUserID)
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError centralizes domain error translation to HTTP responses so every
// handler returns the same JSON error envelope.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrOFFAPIFailure), errors.Is(err, domain.ErrClassifierUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrOCRFailure):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
