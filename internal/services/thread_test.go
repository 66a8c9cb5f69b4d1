package services

import (
	"ladle/internal/models"
	"testing"
	"time"
)

func flatComment(id uint, parentID *uint, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:        id,
		ParentID:  parentID,
		Content:   "c",
		CreatedAt: createdAt,
	}
}

func uintPtr(v uint) *uint { return &v }

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// A(root), B(parent=A), C(parent=B), D(root)
	a := flatComment(1, nil, base)
	b := flatComment(2, uintPtr(1), base.Add(1*time.Minute))
	c := flatComment(3, uintPtr(2), base.Add(2*time.Minute))
	d := flatComment(4, nil, base.Add(3*time.Minute))

	// The two-pass build must not care whether parents precede children
	orders := map[string][]models.Comment{
		"chronological": {a, b, c, d},
		"reversed":      {d, c, b, a},
		"interleaved":   {b, d, a, c},
	}

	for name, input := range orders {
		t.Run(name, func(t *testing.T) {
			roots := BuildCommentTree(input)

			if len(roots) != 2 {
				t.Fatalf("expected 2 roots, got %d", len(roots))
			}

			var rootA *CommentNode
			for _, root := range roots {
				if root.ID == a.ID {
					rootA = root
				}
			}
			if rootA == nil {
				t.Fatal("comment A missing from roots")
			}

			if len(rootA.Replies) != 1 || rootA.Replies[0].ID != b.ID {
				t.Fatalf("expected A.replies = [B], got %+v", rootA.Replies)
			}
			nodeB := rootA.Replies[0]
			if len(nodeB.Replies) != 1 || nodeB.Replies[0].ID != c.ID {
				t.Fatalf("expected B.replies = [C], got %+v", nodeB.Replies)
			}
		})
	}
}

func TestBuildCommentTreeChronologicalSiblings(t *testing.T) {
	base := time.Now()
	root := flatComment(1, nil, base)
	first := flatComment(2, uintPtr(1), base.Add(1*time.Minute))
	second := flatComment(3, uintPtr(1), base.Add(2*time.Minute))

	// Input arrives sorted by created_at ascending, as ListCommentsByRecipe
	// returns it; sibling order must be preserved.
	roots := BuildCommentTree([]models.Comment{root, first, second})

	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	replies := roots[0].Replies
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(replies))
	}
	if replies[0].ID != first.ID || replies[1].ID != second.ID {
		t.Fatalf("replies out of order: [%d, %d]", replies[0].ID, replies[1].ID)
	}
}

func TestBuildCommentTreeDropsOrphans(t *testing.T) {
	// Parent id 99 is absent from the input (e.g. the parent was deleted):
	// the reply is dropped, not promoted to a root.
	orphan := flatComment(1, uintPtr(99), time.Now())

	roots := BuildCommentTree([]models.Comment{orphan})
	if len(roots) != 0 {
		t.Fatalf("expected orphan to be dropped, got %d roots", len(roots))
	}
}

func TestBuildCommentTreeEmptyInput(t *testing.T) {
	if roots := BuildCommentTree(nil); len(roots) != 0 {
		t.Fatalf("expected no roots for empty input, got %d", len(roots))
	}
}

func TestBuildCommentTreeLeavesHaveEmptyReplies(t *testing.T) {
	roots := BuildCommentTree([]models.Comment{flatComment(1, nil, time.Now())})
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	// Empty slice, not nil: leaves serialize as "replies": []
	if roots[0].Replies == nil || len(roots[0].Replies) != 0 {
		t.Fatalf("expected empty replies slice, got %#v", roots[0].Replies)
	}
}
