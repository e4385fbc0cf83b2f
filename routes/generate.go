package routes

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nid-extraction-service/internal/config"
	"nid-extraction-service/services"
	"nid-extraction-service/utils"
)

// SetupGenerateRoutes registers the document extraction endpoint.
func SetupGenerateRoutes(router *gin.Engine, cfg *config.Config, svc *services.ExtractionService) {
	router.POST("/generate", HandleGenerate(cfg, svc))
}

// HandleGenerate accepts a multipart document image, runs the extraction
// pipeline and returns the allocated id plus the extracted fields.
func HandleGenerate(cfg *config.Config, svc *services.ExtractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		if file.Size > cfg.MaxFileSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds maximum size"})
			return
		}

		contentType := file.Header.Get("Content-Type")
		if !utils.IsValidImageType(contentType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type: " + contentType})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrUploadRead.Error()})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrUploadRead.Error()})
			return
		}

		doc, err := svc.Process(c.Request.Context(), data, contentType)
		if err != nil {
			c.JSON(statusForPipelineError(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "Document processed successfully",
			"document_id": doc.ID,
			"data":        doc.ExtractedData,
		})
	}
}

// statusForPipelineError maps a pipeline stage error to an HTTP status.
// Upstream model failures read as bad gateway, everything else as an internal
// error.
func statusForPipelineError(err error) int {
	switch {
	case errors.Is(err, services.ErrUploadRead):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrExtraction), errors.Is(err, services.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
