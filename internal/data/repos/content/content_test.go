package content

import (
	"context"
	"testing"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

func TestContentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentRepo(db, testutil.Logger(t))
	chunks := NewContentChunkRepo(db, testutil.Logger(t))

	owner := testutil.SeedUser(t, ctx, tx, "contentrepo@example.com")
	other := testutil.SeedUser(t, ctx, tx, "contentrepo-other@example.com")

	c1 := &types.Content{UserID: owner.ID, Title: "first", SourceType: types.SourceText, RawText: "a. b.", ChunkCount: 2}
	c2 := &types.Content{UserID: owner.ID, Title: "second", SourceType: types.SourceURL, SourceURL: "https://example.com"}
	c3 := &types.Content{UserID: other.ID, Title: "theirs", SourceType: types.SourceText}
	if _, err := repo.Create(dbc, []*types.Content{c1, c2, c3}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := chunks.Create(dbc, []*types.ContentChunk{
		{ContentID: c1.ID, ChunkIndex: 1, ChunkText: "b."},
		{ContentID: c1.ID, ChunkIndex: 0, ChunkText: "a."},
	}); err != nil {
		t.Fatalf("chunks.Create: %v", err)
	}

	got, err := repo.GetByID(dbc, c1.ID)
	if err != nil || got == nil || got.Title != "first" {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if missing, err := repo.GetByID(dbc, 9999); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	mine, err := repo.ListByUserID(dbc, owner.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("ListByUserID: err=%v len=%d", err, len(mine))
	}
	if mine[0].ID != c2.ID {
		t.Fatalf("expected newest first, got %d", mine[0].ID)
	}

	rows, err := chunks.GetByContentIDs(dbc, []uint{c1.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByContentIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ChunkIndex != 0 || rows[0].ChunkText != "a." {
		t.Fatalf("chunks not ordered by index: %+v", rows[0])
	}

	if n, err := repo.Count(dbc); err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	if err := repo.FullDeleteByIDs(dbc, []uint{c1.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := chunks.GetByContentIDs(dbc, []uint{c1.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("chunks should be deleted with content: err=%v len=%d", err, len(rows))
	}
	if got, err := repo.GetByID(dbc, c1.ID); err != nil || got != nil {
		t.Fatalf("content should be gone: err=%v got=%v", err, got)
	}
}
