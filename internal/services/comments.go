package services

import (
	"errors"
	"fmt"
	"ladle/internal/db"
	"ladle/internal/models"
	"ladle/internal/utils"
	"os"
	"strings"

	"gorm.io/gorm"
)

// Comment content bounds, counted in runes after trimming.
const (
	MinCommentLen = 1
	MaxCommentLen = 2000
)

// DeletePolicy decides what happens to replies when their parent comment is
// deleted. The tree assembler drops orphans either way; cascade additionally
// removes the rows.
type DeletePolicy string

const (
	DeletePolicyOrphan  DeletePolicy = "orphan"
	DeletePolicyCascade DeletePolicy = "cascade"
)

// CommentDeletePolicy reads the configured policy, defaulting to orphan,
// which matches the historical behavior of leaving reply rows in place.
func CommentDeletePolicy() DeletePolicy {
	if os.Getenv("COMMENT_DELETE_POLICY") == string(DeletePolicyCascade) {
		return DeletePolicyCascade
	}
	return DeletePolicyOrphan
}

// validateCommentContent trims the content and checks the length bounds.
// Returns the trimmed content.
func validateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	n := len([]rune(trimmed))
	if n < MinCommentLen {
		return "", fmt.Errorf("%w: comment content is empty", ErrValidation)
	}
	if n > MaxCommentLen {
		return "", fmt.Errorf("%w: comment content exceeds %d characters", ErrValidation, MaxCommentLen)
	}
	return trimmed, nil
}

// CreateComment stores a new comment (optionally as a reply) and reconciles
// the recipe's comment counter, returning the live count alongside the
// created row so callers never need the cached column. The returned comment
// has its author preloaded for display.
func CreateComment(recipeID, authorID uint, content string, parentID *uint) (*models.Comment, LiveCount, error) {
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, 0, err
	}

	if parentID != nil {
		// A reply must reference a comment on the same recipe. The source
		// rows would tolerate a cross-recipe parent, but nothing good comes
		// of a thread grafted onto another dish.
		var parent models.Comment
		if err := db.DB.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, fmt.Errorf("%w: parent comment does not exist", ErrValidation)
			}
			return nil, 0, fmt.Errorf("look up parent comment: %w", err)
		}
		if parent.RecipeID != recipeID {
			return nil, 0, fmt.Errorf("%w: parent comment belongs to a different recipe", ErrValidation)
		}
	}

	comment := models.Comment{
		Cid:      utils.RandString(8),
		RecipeID: recipeID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  trimmed,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, 0, fmt.Errorf("create comment: %w", err)
	}

	// Secondary step: a failed counter-column write is logged inside the
	// reconciler and never surfaced, because the comment row is already
	// durable. Only a failed recount itself is an error.
	count, err := ReconcileCommentCount(recipeID)
	if err != nil {
		return nil, 0, err
	}

	if err := db.DB.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, 0, fmt.Errorf("reload comment: %w", err)
	}
	return &comment, count, nil
}

// UpdateComment rewrites a comment's content. Ownership is enforced by
// scoping the UPDATE to both the comment id and the author id: when no row
// matches, the caller cannot tell a foreign comment from a missing one.
func UpdateComment(commentID, authorID uint, content string) (*models.Comment, error) {
	trimmed, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}

	res := db.DB.Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", commentID, authorID).
		Update("content", trimmed)
	if res.Error != nil {
		return nil, fmt.Errorf("update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFoundOrForbidden
	}

	var comment models.Comment
	if err := db.DB.Preload("User").First(&comment, commentID).Error; err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment the author owns and reconciles the
// recipe's comment counter, returning the live count. Replies are orphaned
// or cascaded per the configured policy.
func DeleteComment(commentID, authorID uint) (LiveCount, error) {
	// The recipe id is needed for reconciliation after the row is gone, so
	// load first with the same ownership-scoped filter the delete uses.
	var comment models.Comment
	if err := db.DB.Where("id = ? AND user_id = ?", commentID, authorID).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFoundOrForbidden
		}
		return 0, fmt.Errorf("look up comment: %w", err)
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}

	if CommentDeletePolicy() == DeletePolicyCascade {
		if err := cascadeDeleteReplies(comment.ID); err != nil {
			return 0, err
		}
	}

	return ReconcileCommentCount(comment.RecipeID)
}

// cascadeDeleteReplies removes the whole reply subtree under a deleted
// comment, level by level.
func cascadeDeleteReplies(parentID uint) error {
	frontier := []uint{parentID}
	for len(frontier) > 0 {
		var children []models.Comment
		if err := db.DB.Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
			return fmt.Errorf("collect replies: %w", err)
		}
		if len(children) == 0 {
			return nil
		}
		next := make([]uint, 0, len(children))
		for _, child := range children {
			next = append(next, child.ID)
		}
		if err := db.DB.Where("id IN ?", next).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete replies: %w", err)
		}
		frontier = next
	}
	return nil
}

// ListCommentsByRecipe returns every comment on a recipe, author preloaded,
// oldest first. The ascending order is what the tree assembler's forward
// pass expects.
func ListCommentsByRecipe(recipeID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := db.DB.Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
