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
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct {
	mailService *services.MailService
}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{
		mailService: services.NewMailService(),
	}
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// Create posts a comment or reply on a recipe (POST /recipes/:rid/comments).
func (h *CommentHandler) Create(c *gin.Context) {
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

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, count, err := services.CreateComment(recipe.ID, user.ID, req.Content, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			Fail(c, http.StatusBadRequest, err.Error())
		default:
			Fail(c, http.StatusInternalServerError, "failed to post comment")
		}
		return
	}

	utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", recipe.Rid))
	services.GetTrendingService().ScheduleUpdate(recipe.ID)

	// Notifications go out async; a failed notification never fails the comment
	go h.notify(&recipe, comment, user)

	c.JSON(http.StatusCreated, gin.H{
		"comment":       comment,
		"comment_count": count,
	})
}

// notify tells the parent-comment author about a reply, or the recipe owner
// about a new top-level comment. Nobody is notified about their own actions.
func (h *CommentHandler) notify(recipe *models.Recipe, comment *models.Comment, actor *models.User) {
	if comment.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Preload("User").First(&parent, *comment.ParentID).Error; err != nil {
			return
		}
		if parent.UserID == actor.ID {
			return
		}
		notification := models.Notification{
			UserID:  parent.UserID,
			ActorID: &actor.ID,
			Type:    models.NotificationTypeReplyComment,
			Reason:  fmt.Sprintf("%s replied to your comment on %q", actor.Username, recipe.Title),
		}
		db.DB.Create(&notification)

		recipeLink := fmt.Sprintf("%s/r/%s#comment-%s", os.Getenv("SITE_URL"), recipe.Rid, comment.Cid)
		h.mailService.SendReplyNotification(parent.User.Email, actor.Username, recipe.Title, comment.Content, recipeLink)
		return
	}

	if recipe.UserID != actor.ID {
		notification := models.Notification{
			UserID:  recipe.UserID,
			ActorID: &actor.ID,
			Type:    models.NotificationTypeCommentRecipe,
			Reason:  fmt.Sprintf("%s commented on your recipe %q", actor.Username, recipe.Title),
		}
		db.DB.Create(&notification)
	}
}

// Update edits the caller's own comment (PUT /comments/:cid).
func (h *CommentHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	comment, err := h.findByCid(c.Param("cid"))
	if err != nil {
		// Missing row reads the same as someone else's row
		Fail(c, http.StatusNotFound, "comment not found")
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := services.UpdateComment(comment.ID, user.ID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			Fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNotFoundOrForbidden):
			Fail(c, http.StatusNotFound, "comment not found")
		default:
			Fail(c, http.StatusInternalServerError, "failed to update comment")
		}
		return
	}

	h.invalidateRecipe(comment.RecipeID)
	c.JSON(http.StatusOK, gin.H{"comment": updated})
}

// Delete removes the caller's own comment (DELETE /comments/:cid).
func (h *CommentHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	comment, err := h.findByCid(c.Param("cid"))
	if err != nil {
		Fail(c, http.StatusNotFound, "comment not found")
		return
	}

	count, err := services.DeleteComment(comment.ID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFoundOrForbidden):
			Fail(c, http.StatusNotFound, "comment not found")
		default:
			Fail(c, http.StatusInternalServerError, "failed to delete comment")
		}
		return
	}

	h.invalidateRecipe(comment.RecipeID)
	c.JSON(http.StatusOK, gin.H{
		"deleted":       true,
		"comment_count": count,
	})
}

// List returns the assembled comment tree for a recipe
// (GET /recipes/:rid/comments).
func (h *CommentHandler) List(c *gin.Context) {
	rid := c.Param("rid")
	var recipe models.Recipe
	if err := db.DB.Where("rid = ?", rid).First(&recipe).Error; err != nil {
		Fail(c, http.StatusNotFound, "recipe not found")
		return
	}

	comments, err := services.ListCommentsByRecipe(recipe.ID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":      services.BuildCommentTree(comments),
		"comment_count": len(comments),
	})
}

func (h *CommentHandler) findByCid(cid string) (*models.Comment, error) {
	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (h *CommentHandler) invalidateRecipe(recipeID uint) {
	var recipe models.Recipe
	if err := db.DB.First(&recipe, recipeID).Error; err == nil {
		utils.GetCache().Delete(fmt.Sprintf("recipe:detail:%s", recipe.Rid))
	}
	services.GetTrendingService().ScheduleUpdate(recipeID)
}
