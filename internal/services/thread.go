package services

import (
	"ladle/internal/models"
)

// CommentNode is a comment with its replies attached, ordered oldest first.
// Derived at read time, never persisted.
type CommentNode struct {
	models.Comment
	Replies []*CommentNode `json:"replies"`
}

// BuildCommentTree turns a flat comment list into a forest of root comments
// with nested replies. Pure function, no I/O.
//
// Two passes over the input: the first creates a node for every comment so
// lookups never depend on parents appearing before children; the second
// attaches each node to its parent's replies or to the root list. Input
// order is preserved within each level, so feeding rows sorted by created_at
// ascending yields chronological threads at every depth, whatever the
// nesting. Comments whose parent is absent from the input (a deleted parent)
// are dropped rather than promoted to roots.
func BuildCommentTree(comments []models.Comment) []*CommentNode {
	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{
			Comment: comments[i],
			Replies: []*CommentNode{},
		}
	}

	roots := make([]*CommentNode, 0)
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*comments[i].ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		}
		// else: orphan, skipped
	}
	return roots
}
