package services

import (
	"errors"
	"fmt"
	"ladle/internal/db"
	"ladle/internal/models"

	"gorm.io/gorm"
)

// ToggleLike flips the caller's like on a recipe and returns the new state
// plus a live recount. There is no separate like/unlike pair: the operation
// reads current state and inverts it, so a blind retry after a timeout flips
// the state again. The only idempotency guarantee is the unique
// (user_id, recipe_id) index, which keeps concurrent double-toggles from
// ever producing two rows.
func ToggleLike(recipeID, userID uint) (liked bool, count LiveCount, err error) {
	var existing models.Like
	findErr := db.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error

	switch {
	case findErr == nil:
		// Already liked, remove it
		if err := db.DB.Delete(&existing).Error; err != nil {
			return false, 0, fmt.Errorf("remove like: %w", err)
		}
		liked = false

	case errors.Is(findErr, gorm.ErrRecordNotFound):
		like := models.Like{
			UserID:   userID,
			RecipeID: recipeID,
		}
		if err := db.DB.Create(&like).Error; err != nil {
			// A concurrent toggle may have inserted first; the unique index
			// rejects the duplicate here rather than any in-process lock.
			return false, 0, fmt.Errorf("create like: %w", err)
		}
		liked = true

	default:
		return false, 0, fmt.Errorf("look up like: %w", findErr)
	}

	// Respond with the freshly counted value, never the cached column.
	count, err = ReconcileLikeCount(recipeID)
	if err != nil {
		return liked, 0, err
	}
	return liked, count, nil
}

// IsLiked reports whether the user currently has a like row for the recipe.
func IsLiked(recipeID, userID uint) bool {
	var like models.Like
	return db.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&like).Error == nil
}

// ToggleFavorite flips the caller's save-for-later mark. Same shape as
// ToggleLike but favorites have no denormalized column; the row count is
// cheap enough to read on demand.
func ToggleFavorite(recipeID, userID uint) (favorited bool, count int64, err error) {
	var existing models.Favorite
	findErr := db.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error

	switch {
	case findErr == nil:
		if err := db.DB.Delete(&existing).Error; err != nil {
			return false, 0, fmt.Errorf("remove favorite: %w", err)
		}
		favorited = false
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		fav := models.Favorite{UserID: userID, RecipeID: recipeID}
		if err := db.DB.Create(&fav).Error; err != nil {
			return false, 0, fmt.Errorf("create favorite: %w", err)
		}
		favorited = true
	default:
		return false, 0, fmt.Errorf("look up favorite: %w", findErr)
	}

	if err := db.DB.Model(&models.Favorite{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
		return favorited, 0, fmt.Errorf("count favorites: %w", err)
	}
	return favorited, count, nil
}
