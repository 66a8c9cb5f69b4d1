package handlers

import (
	"ladle/internal/db"
	"ladle/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CuisineHandler struct{}

func NewCuisineHandler() *CuisineHandler {
	return &CuisineHandler{}
}

// List returns every cuisine with its recipe count (GET /cuisines).
func (h *CuisineHandler) List(c *gin.Context) {
	var cuisines []models.Cuisine
	db.DB.Order("id ASC").Find(&cuisines)

	type cuisineWithCount struct {
		models.Cuisine
		RecipeCount int64 `json:"recipe_count"`
	}

	out := make([]cuisineWithCount, 0, len(cuisines))
	for _, cuisine := range cuisines {
		var count int64
		db.DB.Model(&models.Recipe{}).Where("cuisine_id = ?", cuisine.ID).Count(&count)
		out = append(out, cuisineWithCount{Cuisine: cuisine, RecipeCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"cuisines": out})
}
