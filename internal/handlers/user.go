package handlers

import (
	"ladle/internal/db"
	"ladle/internal/middleware"
	"ladle/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile returns a user's public page: display identity plus their recipes
// (GET /users/:id).
func (h *UserHandler) Profile(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := db.DB.First(&user, id).Error; err != nil {
		Fail(c, http.StatusNotFound, "user not found")
		return
	}

	var recipes []models.Recipe
	db.DB.Preload("Cuisine").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&recipes)

	fillLiveCounts(recipes)

	var commentCount int64
	db.DB.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentCount)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"full_name":  user.FullName,
			"avatar":     user.Avatar,
			"bio":        user.Bio,
			"created_at": user.CreatedAt,
		},
		"recipes":       recipes,
		"comment_count": commentCount,
	})
}

// ownerView is the caller's own account, including the fields hidden from
// public payloads. Only handlers that authenticated the caller as this very
// user may respond with it.
func ownerView(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"full_name":    user.FullName,
		"email":        user.Email,
		"avatar":       user.Avatar,
		"bio":          user.Bio,
		"is_activated": user.IsActivated,
		"created_at":   user.CreatedAt,
	}
}

// Me returns the logged-in user (GET /me).
func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": ownerView(user)})
}

type settingsRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

// UpdateSettings edits display identity (PUT /me/settings).
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" {
		Fail(c, http.StatusBadRequest, "username must not be empty")
		return
	}
	if len([]rune(req.Bio)) > 200 {
		Fail(c, http.StatusBadRequest, "bio is limited to 200 characters")
		return
	}

	user.Username = req.Username
	user.FullName = req.FullName
	user.Bio = req.Bio
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := db.DB.Save(user).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "failed to save settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ownerView(user)})
}
