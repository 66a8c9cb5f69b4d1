package models

import (
	"time"
)

// Like is a binary per-user mark on a recipe. The composite unique index is
// the concurrency guard: two racing toggles can both see "no row" and both
// insert, and the second insert fails at the database instead of producing
// a duplicate.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_recipe_like" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_user_recipe_like" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipe"`
	CreatedAt time.Time `json:"created_at"`
}
