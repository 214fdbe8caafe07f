package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkhalitov/linkcut/internal/middleware"
	"github.com/dkhalitov/linkcut/internal/models"
	"github.com/dkhalitov/linkcut/internal/repository"
	"github.com/dkhalitov/linkcut/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service service.LinkService
	baseURL string
	logger  *zap.Logger
}

func NewLinkHandler(service service.LinkService, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

type CreateLinkRequest struct {
	URL        string `json:"url" binding:"required"`
	ExpiresIn  *int   `json:"expires_in,omitempty"`
	CustomCode string `json:"custom_code,omitempty"`
}

type CreateLinkResponse struct {
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url"`
	OriginalURL string     `json:"original_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateLink godoc
// @Summary Create a short link
// @Description Create a new shortened URL
// @Tags links
// @Accept json
// @Produce json
// @Param request body CreateLinkRequest true "Link creation request"
// @Success 201 {object} CreateLinkResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/links [post]
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	input := &models.CreateLinkInput{
		OriginalURL: req.URL,
		ExpiresIn:   req.ExpiresIn,
	}

	if req.CustomCode != "" {
		input.CustomCode = &req.CustomCode
	}

	if owner, ok := middleware.GetAPIKeyName(c); ok {
		input.OwnerID = &owner
	}

	link, err := h.service.CreateLink(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_url",
				Message: "Invalid URL format",
			})
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_code",
				Message: "Custom code must be 3-32 alphanumeric characters",
			})
		case errors.Is(err, repository.ErrCodeExists):
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "code_taken",
				Message: "Short code is already taken",
			})
		default:
			h.logger.Error("Failed to create link", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{
				Error:   "unavailable",
				Message: "Failed to create link, try again later",
			})
		}
		return
	}

	response := CreateLinkResponse{
		ShortCode:   link.ShortCode,
		ShortURL:    h.baseURL + "/" + link.ShortCode,
		OriginalURL: link.OriginalURL,
		ExpiresAt:   link.ExpiresAt,
		CreatedAt:   link.CreatedAt,
	}

	c.JSON(http.StatusCreated, response)
}

// Redirect godoc
// @Summary Redirect to original URL
// @Description Redirect to the original URL by short code
// @Tags links
// @Produce json
// @Param code path string true "Short code"
// @Success 307 {object} nil
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /{code} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_code",
			Message: "Short code is required",
		})
		return
	}

	event := &models.ClickEvent{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		ClickedAt: time.Now(),
	}

	originalURL, err := h.service.Resolve(c.Request.Context(), code, event)
	if err != nil {
		// Missing and expired links are deliberately indistinguishable
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found or expired",
			})
			return
		}
		h.logger.Error("Failed to resolve link", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "Try again later",
		})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, originalURL)
}

// GetStats godoc
// @Summary Get click count for a short link
// @Description Get the current click counter of a shortened URL
// @Tags links
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} models.LinkStats
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/links/{code}/stats [get]
func (h *LinkHandler) GetStats(c *gin.Context) {
	code := c.Param("code")

	stats, err := h.service.GetStats(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to get stats", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "Try again later",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheck godoc
// @Summary Health check
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
