package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/wanshenghua/go-span-search/internal/errors"
	"github.com/wanshenghua/go-span-search/services"
)

// SearchHandler runs an unordered span-near query against an index.
// Request Body: services.SpanSearchQuery
func (api *API) SearchHandler(c *gin.Context) {
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

	var query services.SpanSearchQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateSearchQuery(&query); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	searchResult, err := accessor.Search(query)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) || errors.Is(err, internalErrors.ErrNegativeSlop) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
			return
		}
		SendSearchError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, searchResult)
}
