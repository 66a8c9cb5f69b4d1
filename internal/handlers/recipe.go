package handlers

import (
	"errors"
	"fmt"
	"ladle/internal/db"
	"ladle/internal/middleware"
	"ladle/internal/models"
	"ladle/internal/services"
	"ladle/internal/utils"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const recipesPerPage = 30

type RecipeHandler struct{}

func NewRecipeHandler() *RecipeHandler {
	return &RecipeHandler{}
}

// fillLiveCounts batch-fills like/comment counts for a listing page from the
// source tables, so lists do not depend on the cached columns being fresh.
func fillLiveCounts(recipes []models.Recipe) {
	if len(recipes) == 0 {
		return
	}

	recipeIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
	}

	type countRow struct {
		RecipeID uint
		Count    int
	}

	likeMap := make(map[uint]int)
	var likeRows []countRow
	db.DB.Model(&models.Like{}).
		Select("recipe_id, COUNT(*) as count").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&likeRows)
	for _, row := range likeRows {
		likeMap[row.RecipeID] = row.Count
	}

	commentMap := make(map[uint]int)
	var commentRows []countRow
	db.DB.Model(&models.Comment{}).
		Select("recipe_id, COUNT(*) as count").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&commentRows)
	for _, row := range commentRows {
		commentMap[row.RecipeID] = row.Count
	}

	for i := range recipes {
		recipes[i].LikeCount = likeMap[recipes[i].ID]
		recipes[i].CommentCount = commentMap[recipes[i].ID]
	}
}

func pageParam(c *gin.Context) int {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	return page
}

func (h *RecipeHandler) list(c *gin.Context, cacheKey, order string, scope func(*gorm.DB) *gorm.DB) {
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if payload, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	page := pageParam(c)
	offset := (page - 1) * recipesPerPage

	query := db.DB.Model(&models.Recipe{})
	if scope != nil {
		query = scope(query)
	}

	var total int64
	query.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(recipesPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var recipes []models.Recipe
	listQuery := db.DB.Preload("User").Preload("Cuisine")
	if scope != nil {
		listQuery = scope(listQuery)
	}
	listQuery.Order(order).
		Limit(recipesPerPage).
		Offset(offset).
		Find(&recipes)

	fillLiveCounts(recipes)

	payload := gin.H{
		"recipes":      recipes,
		"current_page": page,
		"total_pages":  totalPages,
	}

	// Listing pages tolerate a minute of staleness
	utils.GetCache().Set(cacheKey, payload, 1*time.Minute)

	c.JSON(http.StatusOK, payload)
}

// ListTrending returns recipes ordered by trending score (GET /recipes).
func (h *RecipeHandler) ListTrending(c *gin.Context) {
	cacheKey := fmt.Sprintf("recipe:trending:page:%d", pageParam(c))
	h.list(c, cacheKey, "score DESC, created_at DESC", nil)
}

// ListLatest returns the newest recipes (GET /recipes/latest).
func (h *RecipeHandler) ListLatest(c *gin.Context) {
	cacheKey := fmt.Sprintf("recipe:latest:page:%d", pageParam(c))
	h.list(c, cacheKey, "created_at DESC", nil)
}

// ListByCuisine returns recipes in one cuisine (GET /cuisines/:name/recipes).
func (h *RecipeHandler) ListByCuisine(c *gin.Context) {
	name := c.Param("name")
	var cuisine models.Cuisine
	if err := db.DB.Where("name = ?", name).First(&cuisine).Error; err != nil {
		Fail(c, http.StatusNotFound, "cuisine not found")
		return
	}

	cacheKey := fmt.Sprintf("recipe:cuisine:%d:page:%d", cuisine.ID, pageParam(c))
	h.list(c, cacheKey, "created_at DESC", func(q *gorm.DB) *gorm.DB {
		return q.Where("cuisine_id = ?", cuisine.ID)
	})
}

// Search finds recipes by title substring (GET /search?q=...). Uncached.
func (h *RecipeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"recipes": []models.Recipe{}})
		return
	}

	var recipes []models.Recipe
	db.DB.Preload("User").Preload("Cuisine").
		Where("title ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(50).
		Find(&recipes)

	fillLiveCounts(recipes)

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "query": query})
}

type recipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
	Steps       string `json:"steps"`
	ImageURL    string `json:"image_url"`
	CuisineID   uint   `json:"cuisine_id"`
	CookMinutes int    `json:"cook_minutes"`
	Servings    int    `json:"servings"`
}

// Create publishes a new recipe (POST /recipes).
func (h *RecipeHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		Fail(c, http.StatusBadRequest, "title must not be empty")
		return
	}
	if req.Ingredients == "" || req.Steps == "" {
		Fail(c, http.StatusBadRequest, "ingredients and steps must not be empty")
		return
	}

	cuisineID := req.CuisineID
	if cuisineID == 0 {
		cuisineID = 1
	}

	recipe := models.Recipe{
		Rid:         utils.RandString(8),
		UserID:      user.ID,
		CuisineID:   cuisineID,
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		ImageURL:    req.ImageURL,
		CookMinutes: req.CookMinutes,
		Servings:    req.Servings,
	}

	if err := db.DB.Create(&recipe).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "failed to publish recipe")
		return
	}

	utils.GetCache().Delete("recipe:latest:page:1")

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// Detail returns one recipe with rendered markdown, live counts and the
// assembled comment tree (GET /recipes/:rid).
func (h *RecipeHandler) Detail(c *gin.Context) {
	rid := c.Param("rid")

	userID := uint(0)
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	// The shared payload is user-independent and cacheable; per-user flags
	// are queried per request below.
	cacheKey := fmt.Sprintf("recipe:detail:%s", rid)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if payload, ok := cached.(gin.H); ok {
			if recipe, ok := payload["recipe"].(models.Recipe); ok {
				db.DB.Model(&models.Recipe{}).Where("id = ?", recipe.ID).UpdateColumn("views", gorm.Expr("views + 1"))
				services.GetTrendingService().ScheduleUpdate(recipe.ID)
				payload = withViewerFlags(payload, recipe.ID, userID)
			}
			c.JSON(http.StatusOK, payload)
			return
		}
	}

	var recipe models.Recipe
	if err := db.DB.Preload("User").Preload("Cuisine").Where("rid = ?", rid).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			Fail(c, http.StatusNotFound, "recipe not found")
			return
		}
		Fail(c, http.StatusInternalServerError, "failed to load recipe")
		return
	}

	db.DB.Model(&recipe).UpdateColumn("views", recipe.Views+1)
	recipe.Views++
	services.GetTrendingService().ScheduleUpdate(recipe.ID)

	comments, err := services.ListCommentsByRecipe(recipe.ID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "failed to load comments")
		return
	}

	var likeCount int64
	db.DB.Model(&models.Like{}).Where("recipe_id = ?", recipe.ID).Count(&likeCount)

	var favoriteCount int64
	db.DB.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&favoriteCount)

	payload := gin.H{
		"recipe":           recipe,
		"ingredients_html": utils.RenderMarkdown(recipe.Ingredients),
		"steps_html":       utils.RenderMarkdown(recipe.Steps),
		"comments":         services.BuildCommentTree(comments),
		"like_count":       likeCount,
		"comment_count":    len(comments),
		"favorite_count":   favoriteCount,
	}

	utils.GetCache().Set(cacheKey, payload, 1*time.Minute)

	c.JSON(http.StatusOK, withViewerFlags(payload, recipe.ID, userID))
}

// withViewerFlags copies the shared payload and adds the caller's private
// state, which must never end up in the cache.
func withViewerFlags(payload gin.H, recipeID, userID uint) gin.H {
	out := gin.H{}
	for k, v := range payload {
		out[k] = v
	}
	out["is_liked"] = false
	out["is_favorited"] = false
	if userID > 0 {
		out["is_liked"] = services.IsLiked(recipeID, userID)
		var fav models.Favorite
		if err := db.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&fav).Error; err == nil {
			out["is_favorited"] = true
		}
	}
	return out
}

// Update edits the caller's own recipe (PUT /recipes/:rid).
func (h *RecipeHandler) Update(c *gin.Context) {
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

	if recipe.UserID != user.ID {
		Fail(c, http.StatusForbidden, "not your recipe")
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		Fail(c, http.StatusBadRequest, "title must not be empty")
		return
	}

	recipe.Title = req.Title
	recipe.Description = req.Description
	recipe.Ingredients = req.Ingredients
	recipe.Steps = req.Steps
	recipe.ImageURL = req.ImageURL
	recipe.CookMinutes = req.CookMinutes
	recipe.Servings = req.Servings
	if req.CuisineID != 0 {
		recipe.CuisineID = req.CuisineID
	}

	if err := db.DB.Save(&recipe).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "failed to save recipe")
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", rid))

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// Delete removes the caller's own recipe (DELETE /recipes/:rid).
func (h *RecipeHandler) Delete(c *gin.Context) {
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

	if recipe.UserID != user.ID {
		Fail(c, http.StatusForbidden, "not your recipe")
		return
	}

	// Hard delete; likes/comments/favorites go with it via FK cascade
	if err := db.DB.Unscoped().Delete(&recipe).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "failed to delete recipe")
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", rid))
	utils.GetCache().Delete("recipe:trending:page:1")
	utils.GetCache().Delete("recipe:latest:page:1")

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
