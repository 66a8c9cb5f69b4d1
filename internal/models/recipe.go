package models

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Rid         string    `gorm:"uniqueIndex;size:8;not null" json:"rid"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	CuisineID   uint      `gorm:"not null;index;default:1" json:"cuisine_id"`
	Cuisine     Cuisine   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"cuisine"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	Ingredients string    `gorm:"type:text" json:"ingredients"` // markdown list, one per line
	Steps       string    `gorm:"type:text" json:"steps"`       // markdown
	ImageURL    string    `json:"image_url"`                    // Optional
	CookMinutes int       `gorm:"default:0" json:"cook_minutes"`
	Servings    int       `gorm:"default:0" json:"servings"`
	Views       int       `gorm:"default:0" json:"views"`
	Score       int       `gorm:"default:0" json:"score"` // trending score, recomputed by worker

	// Denormalized counters. Best-effort display caches maintained by the
	// counter reconciler; the Like/Comment tables are the source of truth
	// and every mutating response recounts them instead of trusting these.
	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
