package handlers

import (
	"ladle/internal/db"
	"ladle/internal/middleware"
	"ladle/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct{}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// List returns the caller's latest notifications (GET /notifications).
func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	var notifications []models.Notification
	db.DB.Preload("Actor").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications)

	var unread int64
	db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// Read marks one notification as read (POST /notifications/:id/read).
func (h *NotificationHandler) Read(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}
	id := c.Param("id")

	var notification models.Notification
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&notification).Error; err != nil {
		Fail(c, http.StatusNotFound, "notification not found")
		return
	}

	notification.IsRead = true
	db.DB.Save(&notification)

	c.JSON(http.StatusOK, gin.H{"read": true})
}

// Delete removes one notification (DELETE /notifications/:id).
func (h *NotificationHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}
	id := c.Param("id")

	var notification models.Notification
	if err := db.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&notification).Error; err != nil {
		Fail(c, http.StatusNotFound, "notification not found")
		return
	}

	db.DB.Delete(&notification)

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ReadAll marks everything read (POST /notifications/read-all).
func (h *NotificationHandler) ReadAll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		Fail(c, http.StatusUnauthorized, "login required")
		return
	}

	db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true)

	c.JSON(http.StatusOK, gin.H{"read": true})
}
