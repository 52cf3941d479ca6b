package services

import (
	"testing"

	"github.com/MarcMan710/PosTask/internal/models"
)

func comment(id int64, parentID *int64, createdAt string) *models.Comment {
	return &models.Comment{
		ID:              id,
		TaskID:          1,
		ParentCommentID: parentID,
		Content:         "comment",
		CreatedAt:       date(createdAt),
	}
}

func int64Ptr(i int64) *int64 { return &i }

func TestBuildCommentTree(t *testing.T) {
	t.Run("nests replies under their parents", func(t *testing.T) {
		flat := []*models.Comment{
			comment(1, nil, "2024-01-01T10:00:00Z"),
			comment(2, nil, "2024-01-01T11:00:00Z"),
			comment(3, int64Ptr(1), "2024-01-01T12:00:00Z"),
			comment(4, int64Ptr(3), "2024-01-01T13:00:00Z"),
		}

		roots := buildCommentTree(flat)
		if len(roots) != 2 {
			t.Fatalf("got %d roots, want 2", len(roots))
		}
		if roots[0].ID != 1 || roots[1].ID != 2 {
			t.Errorf("roots = [%d %d], want [1 2]", roots[0].ID, roots[1].ID)
		}
		if len(roots[0].Replies) != 1 || roots[0].Replies[0].ID != 3 {
			t.Fatal("comment 3 should be the only reply of comment 1")
		}
		if len(roots[0].Replies[0].Replies) != 1 || roots[0].Replies[0].Replies[0].ID != 4 {
			t.Error("comment 4 should be nested under comment 3")
		}
	})

	t.Run("replies sorted by creation time", func(t *testing.T) {
		flat := []*models.Comment{
			comment(1, nil, "2024-01-01T10:00:00Z"),
			comment(2, int64Ptr(1), "2024-01-01T15:00:00Z"),
			comment(3, int64Ptr(1), "2024-01-01T12:00:00Z"),
		}

		roots := buildCommentTree(flat)
		if len(roots) != 1 || len(roots[0].Replies) != 2 {
			t.Fatalf("unexpected shape: %d roots", len(roots))
		}
		if roots[0].Replies[0].ID != 3 || roots[0].Replies[1].ID != 2 {
			t.Errorf("replies = [%d %d], want [3 2]",
				roots[0].Replies[0].ID, roots[0].Replies[1].ID)
		}
	})

	t.Run("orphaned reply promoted to root", func(t *testing.T) {
		flat := []*models.Comment{
			comment(1, nil, "2024-01-01T10:00:00Z"),
			comment(5, int64Ptr(99), "2024-01-01T11:00:00Z"),
		}

		roots := buildCommentTree(flat)
		if len(roots) != 2 {
			t.Fatalf("got %d roots, want 2", len(roots))
		}
		if roots[1].ID != 5 {
			t.Errorf("orphan root = %d, want 5", roots[1].ID)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if roots := buildCommentTree(nil); len(roots) != 0 {
			t.Errorf("got %d roots, want 0", len(roots))
		}
	})
}
