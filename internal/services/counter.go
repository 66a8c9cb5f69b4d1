package services

import (
	"fmt"
	"ladle/internal/db"
	"ladle/internal/models"
	"log"
)

// LiveCount is a count taken from the source table at request time. It is a
// distinct type so a freshly computed value cannot be mixed up with the
// cached like_count/comment_count columns on recipes, which may lag.
type LiveCount int64

// CounterKind selects which denormalized recipe column a reconciliation
// maintains.
type CounterKind string

const (
	CounterLikes    CounterKind = "like_count"
	CounterComments CounterKind = "comment_count"
)

// ReconcileRecipeCounter recounts the source rows for one recipe and writes
// the result into the matching denormalized column.
//
// The count query and the column write are not wrapped in any lock, so a
// mutation landing between the two can leave the column off by one until the
// next reconciliation. That is accepted: every like/comment mutation triggers
// a fresh reconcile, and callers respond with the returned LiveCount rather
// than the column, so user-facing numbers are always exact.
//
// A failed column write is logged and swallowed. The triggering mutation is
// already durable at this point and must not be reported as failed because a
// display cache could not be refreshed.
func ReconcileRecipeCounter(recipeID uint, kind CounterKind) (LiveCount, error) {
	var count int64
	var err error

	switch kind {
	case CounterLikes:
		err = db.DB.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&count).Error
	case CounterComments:
		err = db.DB.Model(&models.Comment{}).Where("recipe_id = ?", recipeID).Count(&count).Error
	default:
		return 0, fmt.Errorf("unknown counter kind %q", kind)
	}
	if err != nil {
		return 0, fmt.Errorf("count %s for recipe %d: %w", kind, recipeID, err)
	}

	if err := db.DB.Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn(string(kind), count).Error; err != nil {
		// Cache write failed; the source rows are still authoritative and the
		// next mutation on this recipe repairs the column.
		log.Printf("counter: failed to write %s=%d for recipe %d: %v", kind, count, recipeID, err)
	}

	return LiveCount(count), nil
}

// ReconcileLikeCount recomputes recipes.like_count for one recipe.
func ReconcileLikeCount(recipeID uint) (LiveCount, error) {
	return ReconcileRecipeCounter(recipeID, CounterLikes)
}

// ReconcileCommentCount recomputes recipes.comment_count for one recipe.
func ReconcileCommentCount(recipeID uint) (LiveCount, error) {
	return ReconcileRecipeCounter(recipeID, CounterComments)
}
