package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanshenghua/go-span-search/config"
	"github.com/wanshenghua/go-span-search/internal/engine"
	internalErrors "github.com/wanshenghua/go-span-search/internal/errors"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, settings.Name)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		default:
			SendInternalError(c, "index creation", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists the names of all indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"indexes": api.engine.ListIndexes()})
}

// GetIndexHandler returns the settings of one index.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	settings, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// DeleteIndexHandler deletes an index and all of its documents.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.DeleteIndex(indexName); err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// UpdateIndexSettingsHandler replaces an index's settings and reindexes its
// documents synchronously.
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	settings.Name = indexName

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexNotFound):
			SendIndexNotFoundError(c, indexName)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		default:
			SendInternalError(c, "settings update", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings for index '" + indexName + "' updated successfully"})
}

// RenameIndexHandler renames an index.
// Request Body: {"new_name": "..."}
func (api *API) RenameIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	var body struct {
		NewName string `json:"new_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.engine.RenameIndex(indexName, body.NewName); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrSameName):
			SendSameNameError(c, body.NewName)
		case errors.Is(err, internalErrors.ErrIndexNotFound):
			SendIndexNotFoundError(c, indexName)
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, body.NewName)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		default:
			SendInternalError(c, "index rename", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' renamed to '" + body.NewName + "'"})
}

// GetIndexStatsHandler returns document and term counts for an index.
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	concreteEngine, ok := api.engine.(*engine.Engine)
	if !ok {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Stats are not available for this engine")
		return
	}

	stats, err := concreteEngine.GetIndexStats(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}
	c.JSON(http.StatusOK, stats)
}
