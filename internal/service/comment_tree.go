// Package service contains the application's domain logic, expressed over
// repository interfaces so storage can be swapped out in tests.
package service

import (
	"campusboard/internal/models"
)

// BuildCommentTree folds a flat, creation-ordered comment list into a
// forest of nested nodes. It runs in two passes over the slice, so cost is
// linear in the number of comments and no recursion depth limit applies
// however deeply a thread nests.
//
// Input order is preserved among siblings at every level: the repository
// returns comments ordered by creation, and append keeps that order for
// both roots and reply lists.
//
// A comment whose parent is missing from the input (the parent was deleted
// between reads, or the row predates validation) is promoted to a root
// rather than dropped, so no content silently disappears from a thread.
func BuildCommentTree(comments []*models.Comment) []*models.CommentNode {
	nodes := make(map[uint]*models.CommentNode, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &models.CommentNode{Comment: *c, Replies: []*models.CommentNode{}}
	}

	roots := make([]*models.CommentNode, 0, len(comments))
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentCommentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentCommentID]
		if !ok {
			// Orphaned reply: surface it as a root.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	return roots
}
