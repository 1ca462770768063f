package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleCategories is GET /api/v1/categories: the distinct category tags of
// the catalog, for filter UI population.
func (h *Handler) HandleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.service.Categories(),
	})
}

// HandleLanguages is GET /api/v1/languages: the distinct language codes of
// the catalog.
func (h *Handler) HandleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": h.service.Languages(),
	})
}

// HandleIngredientGroups is GET /api/v1/ingredients/groups: the grouping
// table, so clients can offer group-level include/exclude filters.
func (h *Handler) HandleIngredientGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"groups": h.service.IngredientGroups(),
	})
}
