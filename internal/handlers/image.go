package handlers

import (
	"fmt"
	"io"
	"ladle/internal/services"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Hotlink notice shown to cross-site embedders
const hotlinkSVG = `<svg width="200" height="200" xmlns="http://www.w3.org/2000/svg">
  <rect width="100%" height="100%" fill="#f8f9fa"/>
  <text x="50%" y="50%" font-family="Arial" font-size="14" fill="#6c757d" text-anchor="middle">
    Image served for Ladle only
  </text>
</svg>`

// ImageHandler serves recipe photo upload and proxying
type ImageHandler struct{}

func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// Upload accepts a recipe photo (POST /api/upload). Requires login.
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		Fail(c, http.StatusBadRequest, "choose an image to upload")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		Fail(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	if header.Size > 10*1024*1024 {
		Fail(c, http.StatusBadRequest, "images are limited to 10MB")
		return
	}

	result, err := services.UploadImage(file, header)
	if err != nil {
		Fail(c, http.StatusInternalServerError, fmt.Sprintf("upload failed: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     result.URL,
		"id":      result.ID,
	})
}

// Proxy serves Imgur-hosted photos through this app (GET /img/:id), with a
// Sec-Fetch based hotlink check.
func (h *ImageHandler) Proxy(c *gin.Context) {
	imageID := c.Param("id")
	if imageID == "" {
		c.String(http.StatusBadRequest, "missing image id")
		return
	}

	if !isAllowedRequest(c) {
		c.Header("Content-Type", "image/svg+xml")
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.String(http.StatusOK, hotlinkSVG)
		return
	}

	ext := filepath.Ext(imageID)
	id := strings.TrimSuffix(imageID, ext)
	if ext == "" {
		ext = ".jpg"
	}

	imgurURL := fmt.Sprintf("https://i.imgur.com/%s%s", id, ext)

	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest("GET", imgurURL, nil)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build request")
		return
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		c.String(http.StatusBadGateway, "failed to fetch image")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.String(resp.StatusCode, "image not found")
		return
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		c.Header("Content-Type", contentType)
	}

	// Cache for 7 days
	c.Header("Cache-Control", "public, max-age=604800")
	c.Header("Vary", "Sec-Fetch-Site, Sec-Fetch-Mode")

	c.Status(http.StatusOK)
	io.Copy(c.Writer, resp.Body)
}

// isAllowedRequest uses Sec-Fetch-* headers to detect hotlinking. Modern
// browsers set these automatically and they cannot be forged from a page.
func isAllowedRequest(c *gin.Context) bool {
	secFetchSite := c.GetHeader("Sec-Fetch-Site")
	secFetchMode := c.GetHeader("Sec-Fetch-Mode")

	// Old browsers or direct access
	if secFetchSite == "" {
		return true
	}
	if secFetchSite == "same-origin" || secFetchSite == "same-site" || secFetchSite == "none" {
		return true
	}
	// User navigated to the image directly (open in new tab)
	if secFetchMode == "navigate" {
		return true
	}

	// cross-site and not a navigation: hotlink
	return false
}
