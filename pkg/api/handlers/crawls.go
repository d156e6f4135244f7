package handlers

import (
	"errors"
	"net/http"

	"image-crawler-go/pkg/api/middleware"
	"image-crawler-go/pkg/crawler"
	"image-crawler-go/pkg/models"
	"image-crawler-go/pkg/services"

	"github.com/gin-gonic/gin"
)

// ErrorTypeInvalidRequest marks a body that could not be decoded
const ErrorTypeInvalidRequest = "invalid_request"

// SubmitCrawlRequest is the body of POST /api/v1/crawls
type SubmitCrawlRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
}

// SubmitCrawl runs a crawl and returns its result envelope
func SubmitCrawl(service *services.CrawlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubmitCrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
				"type":    ErrorTypeInvalidRequest,
			})
			return
		}

		// Body key wins over the Authorization header
		apiKey := req.APIKey
		if apiKey == "" {
			apiKey = c.GetString(middleware.CredentialContextKey)
		}

		result, err := service.Submit(c.Request.Context(), req.URL, apiKey)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ToResponse(result))
	}
}

// LatestCrawl returns the most recent successful crawl
func LatestCrawl(service *services.CrawlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		latest := service.Latest()
		if latest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no results yet"})
			return
		}
		c.JSON(http.StatusOK, models.ToResponse(latest))
	}
}

// GetProgress returns the simulated progress of the current crawl
func GetProgress(service *services.CrawlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"progress": service.Progress()})
	}
}

// GetCredential reports whether an API key is stored, masked
func GetCredential(service *services.CrawlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := service.Credential(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// StatusFor maps a submission error to an HTTP status code
func StatusFor(err error) int {
	var crawlErr *crawler.CrawlError
	if !errors.As(err, &crawlErr) {
		return http.StatusInternalServerError
	}
	switch {
	case crawlErr.IsValidation():
		return http.StatusBadRequest
	case crawlErr.Type == crawler.ErrorTypeBusy:
		return http.StatusConflict
	case crawlErr.Type == crawler.ErrorTypeOperationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	errType := string(crawler.ErrorTypeUnexpected)
	message := crawler.GenericFailureMessage
	var crawlErr *crawler.CrawlError
	if errors.As(err, &crawlErr) {
		errType = string(crawlErr.Type)
		message = crawlErr.UserMessage()
	}
	c.JSON(StatusFor(err), gin.H{
		"success": false,
		"error":   message,
		"type":    errType,
	})
}
