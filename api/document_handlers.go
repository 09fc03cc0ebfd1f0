package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wanshenghua/go-span-search/internal/engine"
	"github.com/wanshenghua/go-span-search/model"
)

// AddDocumentsHandler adds or updates a batch of documents.
// Request Body: array of model.Document, each carrying a "documentID" key.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	accessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var docs []model.Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(docs) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one document is required")
		return
	}
	for i, doc := range docs {
		if _, ok := doc.GetDocumentID(); !ok {
			result := &ValidationResult{Valid: true}
			result.AddError("documentID", "Document at position "+strconv.Itoa(i)+" is missing a non-empty 'documentID'")
			SendStructuredValidationError(c, result)
			return
		}
	}

	if err := accessor.AddDocuments(docs); err != nil {
		SendIndexingError(c, "add documents", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Documents added/updated successfully",
		"count":   len(docs),
	})
}

// GetDocumentHandler returns one document by its external ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	accessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	// Direct store access requires the concrete instance.
	instance, ok := accessor.(*engine.IndexInstance)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Document retrieval is not available for this engine")
		return
	}

	doc, found := instance.DocumentStore.GetByExternalID(documentID)
	if !found {
		SendDocumentNotFoundError(c, documentID, indexName)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocumentHandler deletes one document by its external ID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	accessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := accessor.DeleteDocument(documentID); err != nil {
		SendDocumentNotFoundError(c, documentID, indexName)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted successfully"})
}

// DeleteAllDocumentsHandler removes every document from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	accessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := accessor.DeleteAllDocuments(); err != nil {
		SendIndexingError(c, "delete all documents", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}

