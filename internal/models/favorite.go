package models

import (
	"time"
)

// Favorite saves a recipe for later, distinct from a like
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_recipe_fav" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_user_recipe_fav" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recipe"`
	CreatedAt time.Time `json:"created_at"`
}
