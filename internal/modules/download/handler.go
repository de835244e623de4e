package download

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"digishop/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public surface: free-product token issuing and
// token redemption.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/free-downloads/digital-file", h.GenerateFreeDownloadURL)
	rg.GET("/download-url/:token", h.DownloadFile)
}

// RegisterProtectedRoutes mounts the routes that need an authenticated
// customer behind the JWT middleware.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/downloads", h.FetchDownloadableFiles)
	rg.POST("/downloads/digital-file", h.GenerateDownloadURL)
}

func (h *Handler) FetchDownloadableFiles(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	files, total, err := h.service.ListDownloadableFiles(c.Request.Context(), userID, limit, page)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			response.Error(c, http.StatusUnauthorized, "NOT_AUTHORIZED", "Authentication required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load downloadable files")
		return
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	response.Paginated(c, files, total, page, limit)
}

func (h *Handler) GenerateDownloadURL(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "NOT_AUTHORIZED", "Authentication required")
		return
	}

	var req GenerateDownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	url, err := h.service.GenerateDownloadURL(c.Request.Context(), userID, req.DigitalFileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAuthorized):
			response.Error(c, http.StatusForbidden, "NOT_AUTHORIZED", "You have not purchased this file")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate download URL")
		}
		return
	}

	response.Success(c, http.StatusOK, url)
}

func (h *Handler) GenerateFreeDownloadURL(c *gin.Context) {
	var req GenerateFreeDownloadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	url, err := h.service.GenerateFreeDownloadURL(c.Request.Context(), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Product or digital file not found")
		case errors.Is(err, ErrNotAFreeProduct):
			response.Error(c, http.StatusBadRequest, "NOT_A_FREE_PRODUCT", "This product is not free")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate download URL")
		}
		return
	}

	response.Success(c, http.StatusOK, url)
}

// DownloadFile redeems a token and streams the file. Redemption failures are
// deliberately ordinary 200 responses with a message body; storefront
// callers branch on the payload, not the status code.
func (h *Handler) DownloadFile(c *gin.Context) {
	tok := c.Param("token")

	stream, err := h.service.Redeem(c.Request.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			c.JSON(http.StatusOK, gin.H{"message": "TOKEN_NOT_FOUND"})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusOK, gin.H{"message": "NOT_FOUND"})
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to stream file")
		}
		return
	}
	defer stream.Reader.Close()

	extraHeaders := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", stream.FileName),
	}
	contentType := stream.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, stream.ContentLength, contentType, stream.Reader, extraHeaders)
}
