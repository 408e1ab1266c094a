package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aggarwalComputronix/website/internal/domain"
	"github.com/aggarwalComputronix/website/internal/infrastructure/spreadsheet"
	"github.com/aggarwalComputronix/website/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the health check
const Version = "1.0.0"

// Services are the usecases the HTTP layer dispatches to
type Services struct {
	Catalog *usecase.CatalogService
	Import  *usecase.ImportService
	Auth    *usecase.AuthService
	Contact *usecase.ContactService
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog  *usecase.CatalogService
	importer *usecase.ImportService
	auth     *usecase.AuthService
	contact  *usecase.ContactService
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog:  services.Catalog,
		importer: services.Import,
		auth:     services.Auth,
		contact:  services.Contact,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "computronix-website",
		"version": Version,
	})
}

// SearchProducts handles the storefront product listing
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	result, err := h.catalog.Search(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct returns one product by id
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Categories lists the storefront category labels
func (h *Handler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// SubmitContact stores a contact form message
func (h *Handler) SubmitContact(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}

	msg, err := h.contact.Submit(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": msg.ID, "createdAt": msg.CreatedAt})
}

// navigateRequest is the body of POST /navigate
type navigateRequest struct {
	State  domain.ViewState `json:"state"`
	Action domain.Action    `json:"action"`
}

// Navigate applies a view action. Login and admin flags come from the bearer
// token when present, never from the request body.
func (h *Handler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Action.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action.kind is required"})
		return
	}

	state := req.State
	state.LoggedIn, state.IsAdmin = false, false
	if session, err := h.sessionFromHeader(c); err == nil {
		state.LoggedIn, state.IsAdmin = true, session.IsAdmin
	}

	action := req.Action
	if action.Kind == domain.ActionLogin {
		// A login transition only makes sense for a verified session.
		if !state.LoggedIn {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in first"})
			return
		}
		action.Admin = state.IsAdmin
	}

	c.JSON(http.StatusOK, domain.Navigate(state, action))
}

// Register creates an account
func (h *Handler) Register(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), creds)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login exchanges credentials for a session token
func (h *Handler) Login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), creds)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Logout is stateless; it reports where the client lands afterwards
func (h *Handler) Logout(c *gin.Context) {
	state := domain.Navigate(domain.ViewState{LoggedIn: true}, domain.Action{Kind: domain.ActionLogout})
	c.JSON(http.StatusOK, gin.H{"landing": state.Page, "state": state})
}

// Me returns the signed-in account
func (h *Handler) Me(c *gin.Context) {
	session, ok := SessionFrom(c)
	if !ok {
		h.respondError(c, domain.ErrUnauthorized)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), *session)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ImportProducts loads a multipart .xlsx or .csv upload into the catalog
func (h *Handler) ImportProducts(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f, header.Filename, spreadsheet.Options{Encoding: c.PostForm("encoding")})
	if err != nil {
		if !errors.Is(err, domain.ErrUnsupportedFormat) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		h.respondError(c, err)
		return
	}

	report, err := h.importer.Import(c.Request.Context(), rows)
	if err != nil {
		status, msg := errorStatus(err)
		h.logger.Error("import failed", zap.String("file", header.Filename), zap.Error(err))
		c.JSON(status, gin.H{"error": msg, "report": report})
		return
	}

	h.logger.Info("products imported",
		zap.String("file", header.Filename),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))
	c.JSON(http.StatusOK, report)
}

// AdminSearch lists products for the admin table
func (h *Handler) AdminSearch(c *gin.Context) {
	result, err := h.catalog.AdminSearch(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Collections lists the raw collection values in the store
func (h *Handler) Collections(c *gin.Context) {
	collections, err := h.catalog.Collections(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

// UpdateProduct replaces a product
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	product.ID = id

	if err := h.catalog.Update(c.Request.Context(), product); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessages returns contact messages, newest first
func (h *Handler) ListMessages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	messages, err := h.contact.List(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// errorStatus maps domain errors to a status code and a client-safe message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Admin access required"
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	case errors.Is(err, domain.ErrStoreFailure):
		return http.StatusBadGateway, "Catalog store temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
