package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nid-extraction-service/internal/database"
	"nid-extraction-service/models"
)

// SetupDocumentRoutes registers the read/update/delete utility endpoints over
// the extracted-documents collection. These are not part of the extraction
// pipeline itself.
func SetupDocumentRoutes(router *gin.Engine, repo *database.DocumentRepository) {
	router.GET("/documents", HandleListDocuments(repo))
	router.GET("/documents/:id", HandleGetDocument(repo))
	router.PUT("/documents/:id", HandleUpdateDocument(repo))
	router.DELETE("/documents/:id", HandleDeleteDocument(repo))
}

func HandleListDocuments(repo *database.DocumentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"documents": docs})
	}
}

func HandleGetDocument(repo *database.DocumentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			return
		}

		doc, err := repo.Get(c.Request.Context(), id)
		if err == database.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

func HandleUpdateDocument(repo *database.DocumentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			return
		}

		var req struct {
			ExtractedData map[string]string `json:"extracted_data" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		fields := models.NormalizeFields(req.ExtractedData)
		if err := repo.Update(c.Request.Context(), id, fields); err != nil {
			if err == database.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document updated"})
	}
}

func HandleDeleteDocument(repo *database.DocumentRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseDocumentID(c)
		if !ok {
			return
		}

		if err := repo.Delete(c.Request.Context(), id); err != nil {
			if err == database.ErrNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
	}
}

func parseDocumentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return 0, false
	}
	return id, true
}
