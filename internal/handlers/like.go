package handlers

import (
	"errors"
	"fmt"
	"ladle/internal/db"
	"ladle/internal/middleware"
	"ladle/internal/models"
	"ladle/internal/services"
	"ladle/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// Toggle flips the caller's like on a recipe (POST /recipes/:rid/like).
// Responds with the new state and a live recount; the cached like_count
// column is never echoed back here.
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	rid := c.Param("rid")
	var recipe models.Recipe
	if err := db.DB.Where("rid = ?", rid).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusNotFound, "recipe not found")
			return
		}
		Fail(c, http.StatusInternalServerError, "failed to load recipe")
		return
	}

	liked, count, err := services.ToggleLike(recipe.ID, user.ID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	// Downstream invalidation: detail page and first listing pages show
	// this recipe's numbers.
	utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", recipe.Rid))
	utils.GetCache().Delete("recipe:trending:page:1")
	utils.GetCache().Delete("recipe:latest:page:1")

	services.GetTrendingService().ScheduleUpdate(recipe.ID)

	c.JSON(http.StatusOK, gin.H{
		"is_liked":   liked,
		"like_count": count,
	})
}

// FavoriteHandler drives the save-for-later toggle.
type FavoriteHandler struct{}

func NewFavoriteHandler() *FavoriteHandler {
	return &FavoriteHandler{}
}

// Toggle saves or unsaves a recipe (POST /recipes/:rid/favorite).
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	rid := c.Param("rid")
	var recipe models.Recipe
	if err := db.DB.Where("rid = ?", rid).First(&recipe).Error; err != nil {
		Fail(c, http.StatusNotFound, "recipe not found")
		return
	}

	favorited, count, err := services.ToggleFavorite(recipe.ID, user.ID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", recipe.Rid))
	services.GetTrendingService().ScheduleUpdate(recipe.ID)

	c.JSON(http.StatusOK, gin.H{
		"is_favorited":   favorited,
		"favorite_count": count,
	})
}

// ListMine returns the caller's saved recipes (GET /favorites).
func (h *FavoriteHandler) ListMine(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	var favorites []models.Favorite
	if err := db.DB.Preload("Recipe").Preload("Recipe.User").Preload("Recipe.Cuisine").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "failed to load favorites")
		return
	}

	recipes := make([]models.Recipe, 0, len(favorites))
	for _, fav := range favorites {
		recipes = append(recipes, fav.Recipe)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
