package services

import (
	"encoding/json"
	"errors"
	"ladle/internal/db"
	"ladle/internal/models"
	"strings"
	"testing"
)

func TestCreateCommentContentBounds(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "author@example.com")
	recipe := createTestRecipe(t, user, "gazpacho")

	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t ", true},
		{"one char", "x", false},
		{"max length", strings.Repeat("a", 2000), false},
		{"over max", strings.Repeat("a", 2001), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CreateComment(recipe.ID, user.ID, tc.content, nil)
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateCommentTrimsAndCounts(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "author@example.com")
	recipe := createTestRecipe(t, user, "ratatouille")

	comment, count, err := CreateComment(recipe.ID, user.ID, "  hello  ", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if comment.Content != "hello" {
		t.Fatalf("expected trimmed content %q, got %q", "hello", comment.Content)
	}
	if count != 1 {
		t.Fatalf("expected live count 1, got %d", count)
	}
	if comment.User.ID != user.ID {
		t.Fatal("expected author to be preloaded on the returned comment")
	}

	var reloaded models.Recipe
	db.DB.First(&reloaded, recipe.ID)
	if reloaded.CommentCount != 1 {
		t.Fatalf("expected reconciled comment_count=1, got %d", reloaded.CommentCount)
	}
}

func TestCreateCommentRejectsForeignParent(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "author@example.com")
	recipeA := createTestRecipe(t, user, "recipe-a")
	recipeB := createTestRecipe(t, user, "recipe-b")

	parent, _, err := CreateComment(recipeA.ID, user.ID, "root on A", nil)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	// Reply on recipe B pointing at a comment on recipe A
	if _, _, err := CreateComment(recipeB.ID, user.ID, "cross reply", &parent.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for cross-recipe parent, got %v", err)
	}

	missing := parent.ID + 1000
	if _, _, err := CreateComment(recipeA.ID, user.ID, "ghost reply", &missing); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for missing parent, got %v", err)
	}
}

func TestUpdateCommentOwnershipScoped(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author@example.com")
	other := createTestUser(t, "other@example.com")
	recipe := createTestRecipe(t, author, "tagine")

	comment, _, err := CreateComment(recipe.ID, author.ID, "original", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Wrong author: indistinguishable from a missing comment, no mutation
	if _, err := UpdateComment(comment.ID, other.ID, "hijacked"); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}
	var unchanged models.Comment
	db.DB.First(&unchanged, comment.ID)
	if unchanged.Content != "original" {
		t.Fatalf("foreign update must not mutate, content is now %q", unchanged.Content)
	}

	// Missing id looks exactly the same
	if _, err := UpdateComment(comment.ID+999, author.ID, "whatever"); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden for missing id, got %v", err)
	}

	// The owner can edit
	updated, err := UpdateComment(comment.ID, author.ID, "edited")
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Content != "edited" {
		t.Fatalf("expected %q, got %q", "edited", updated.Content)
	}
}

func TestDeleteCommentOwnershipScoped(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "author@example.com")
	other := createTestUser(t, "other@example.com")
	recipe := createTestRecipe(t, author, "laksa")

	comment, _, err := CreateComment(recipe.ID, author.ID, "hello", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := DeleteComment(comment.ID, other.ID); !errors.Is(err, ErrNotFoundOrForbidden) {
		t.Fatalf("expected ErrNotFoundOrForbidden, got %v", err)
	}
	if n := countComments(t, recipe.ID); n != 1 {
		t.Fatalf("foreign delete must not mutate, %d rows remain", n)
	}

	count, err := DeleteComment(comment.ID, author.ID)
	if err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected live count 0 after delete, got %d", count)
	}

	var reloaded models.Recipe
	db.DB.First(&reloaded, recipe.ID)
	if reloaded.CommentCount != 0 {
		t.Fatalf("expected reconciled comment_count=0, got %d", reloaded.CommentCount)
	}
}

func TestDeleteCommentOrphanPolicyKeepsReplies(t *testing.T) {
	setupTestDB(t)
	t.Setenv("COMMENT_DELETE_POLICY", "")
	author := createTestUser(t, "author@example.com")
	recipe := createTestRecipe(t, author, "pierogi")

	parent, _, err := CreateComment(recipe.ID, author.ID, "parent", nil)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	reply, _, err := CreateComment(recipe.ID, author.ID, "reply", &parent.ID)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	if _, err := DeleteComment(parent.ID, author.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	// Orphan policy: the reply row survives but the assembler drops it
	var survivor models.Comment
	if err := db.DB.First(&survivor, reply.ID).Error; err != nil {
		t.Fatalf("expected reply row to survive under orphan policy: %v", err)
	}

	remaining, err := ListCommentsByRecipe(recipe.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if roots := BuildCommentTree(remaining); len(roots) != 0 {
		t.Fatalf("expected orphaned reply to be unreachable, got %d roots", len(roots))
	}
}

func TestDeleteCommentCascadePolicyRemovesSubtree(t *testing.T) {
	setupTestDB(t)
	t.Setenv("COMMENT_DELETE_POLICY", "cascade")
	author := createTestUser(t, "author@example.com")
	recipe := createTestRecipe(t, author, "moussaka")

	parent, _, err := CreateComment(recipe.ID, author.ID, "parent", nil)
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	reply, _, err := CreateComment(recipe.ID, author.ID, "reply", &parent.ID)
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if _, _, err := CreateComment(recipe.ID, author.ID, "nested", &reply.ID); err != nil {
		t.Fatalf("create nested reply: %v", err)
	}

	count, err := DeleteComment(parent.ID, author.ID)
	if err != nil {
		t.Fatalf("delete parent: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected live count 0 after cascade, got %d", count)
	}
	if n := countComments(t, recipe.ID); n != 0 {
		t.Fatalf("expected empty subtree after cascade, %d rows remain", n)
	}
}

func TestCommentTreeJSONHidesAuthorEmail(t *testing.T) {
	setupTestDB(t)
	author := createTestUser(t, "private-address@example.com")
	recipe := createTestRecipe(t, author, "khachapuri")

	parent, _, err := CreateComment(recipe.ID, author.ID, "first", nil)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if _, _, err := CreateComment(recipe.ID, author.ID, "second", &parent.ID); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	comments, err := ListCommentsByRecipe(recipe.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	// The public comment payload: authors ride along via Preload("User"),
	// so the marshaled tree must carry only display identity
	payload, err := json.Marshal(BuildCommentTree(comments))
	if err != nil {
		t.Fatalf("marshal tree: %v", err)
	}
	body := string(payload)
	if strings.Contains(body, "private-address@example.com") {
		t.Fatalf("author email leaked into comment payload: %s", body)
	}
	if strings.Contains(body, `"email"`) {
		t.Fatalf("comment payload carries an email field: %s", body)
	}
	if !strings.Contains(body, `"username"`) {
		t.Fatal("comment payload lost the author's display identity")
	}
}

func TestListCommentsOrderAndThreadScenario(t *testing.T) {
	setupTestDB(t)
	u1 := createTestUser(t, "u1@example.com")
	u2 := createTestUser(t, "u2@example.com")
	recipe := createTestRecipe(t, u1, "carbonara")

	first, _, err := CreateComment(recipe.ID, u1.ID, "hello", nil)
	if err != nil {
		t.Fatalf("first comment: %v", err)
	}
	if _, _, err := CreateComment(recipe.ID, u2.ID, "hi", &first.ID); err != nil {
		t.Fatalf("reply: %v", err)
	}

	comments, err := ListCommentsByRecipe(recipe.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].ID != first.ID {
		t.Fatal("expected oldest-first ordering")
	}
	if comments[0].User.Username == "" {
		t.Fatal("expected author display identity to be joined in")
	}

	roots := BuildCommentTree(comments)
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if len(roots[0].Replies) != 1 || roots[0].Replies[0].Content != "hi" {
		t.Fatalf("expected one reply %q, got %+v", "hi", roots[0].Replies)
	}
}
