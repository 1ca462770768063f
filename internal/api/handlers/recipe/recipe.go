package recipe

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"

	"recipe-browser/internal/core/catalog"
	"recipe-browser/internal/infrastructure/config"
	"recipe-browser/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the recipe search and detail endpoints.
type Handler struct {
	service *catalog.Service
	config  *config.Config
}

// NewHandler creates the recipe handler.
func NewHandler(service *catalog.Service, cfg *config.Config) *Handler {
	return &Handler{
		service: service,
		config:  cfg,
	}
}

// HandleSearch is GET /api/v1/recipes. Every filter parameter is advisory:
// malformed or out-of-range values are coerced or clamped, never rejected.
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := requestID(c)

	q := catalog.Query{
		Term:           c.Query("q"),
		RatingMin:      parseFloat(c.Query("rating_min"), catalog.RatingFloor),
		RatingMax:      parseFloat(c.Query("rating_max"), catalog.RatingCeiling),
		PopularityMin:  parseInt(c.Query("popularity_min"), 0),
		PopularityMax:  parseInt(c.Query("popularity_max"), catalog.PopularitySteps[len(catalog.PopularitySteps)-1]),
		Languages:      c.QueryArray("language"),
		Categories:     c.QueryArray("category"),
		IncludeGroups:  c.QueryArray("include"),
		ExcludeGroups:  c.QueryArray("exclude"),
		Sort:           catalog.ParseSortField(c.Query("sort")),
		SortDescending: parseBool(c.Query("desc")),
		Page:           parseInt(c.Query("page"), 1),
		PageSize:       parseInt(c.Query("per_page"), h.config.Catalog.DefaultPageSize),
		Randomize:      parseBool(c.Query("randomize")),
	}

	// The seed travels with the request so a browsing session can replay the
	// same shuffled order on every page. A randomized request without a seed
	// draws one here and echoes it back for reuse.
	if seedStr := c.Query("seed"); seedStr != "" {
		q.Seed = parseInt64(seedStr, 0)
	} else if q.Randomize {
		q.Seed = rand.Int63()
	}

	page, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		common.LogError("search failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeServiceUnavailable,
			Message: "catalog unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, page)
}

// HandleRecipe is GET /api/v1/recipes/:id.
func (h *Handler) HandleRecipe(c *gin.Context) {
	requestID := requestID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: "recipe not found",
		})
		return
	}

	r, err := h.service.Recipe(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{
				Code:    common.ErrCodeNotFound,
				Message: "recipe not found",
			})
			return
		}
		common.LogError("recipe lookup failed",
			zap.Error(err),
			zap.Int64("recipe_id", id),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrCodeServiceUnavailable,
			Message: "catalog unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, r)
}

func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	return s == "1" || s == "true"
}
