package services

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/localmedia"
)

const sevenSentences = "One. Two! Three? Four. Five. Six. Seven."

func TestCreateFromTextChunks(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "owner@example.com")

	c, err := env.contents.CreateFromText(ctx, "", sevenSentences)
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}
	if c.Title != "Untitled" || c.SourceType != types.SourceText || c.ChunkCount != 2 {
		t.Fatalf("unexpected content %+v", c)
	}

	got, err := env.contents.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got.Chunks))
	}
	if got.Chunks[0].ChunkIndex != 0 || got.Chunks[0].ChunkText != "One. Two! Three? Four. Five." {
		t.Fatalf("unexpected first chunk %+v", got.Chunks[0])
	}
	if got.Chunks[1].ChunkText != "Six. Seven." {
		t.Fatalf("unexpected second chunk %+v", got.Chunks[1])
	}

	_, err = env.contents.CreateFromText(ctx, "t", "   ")
	wantMessage(t, err, "text is required")
}

func TestCreateFromURL(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "owner@example.com")

	_, err := env.contents.CreateFromURL(ctx, "", "")
	wantMessage(t, err, "url is required")

	_, err = env.contents.CreateFromURL(ctx, "ftp://example.com/x", "")
	wantStatus(t, err, http.StatusBadRequest)

	long := "https://example.com/a-very-long-path-that-keeps-going-and-going-well-past-the-eighty-character-title-limit"
	c, err := env.contents.CreateFromURL(ctx, long, "")
	if err != nil {
		t.Fatalf("CreateFromURL: %v", err)
	}
	if c.SourceType != types.SourceURL || c.SourceURL != long || len([]rune(c.Title)) != 80 {
		t.Fatalf("unexpected content %+v", c)
	}
	if c.ChunkCount != 1 {
		t.Fatalf("expected one chunk, got %d", c.ChunkCount)
	}

	env.fetcher.err = errors.New("status 500")
	_, err = env.contents.CreateFromURL(ctx, "https://example.com", "")
	wantMessage(t, err, "failed to fetch URL: status 500")
}

func TestCreateFromPDFValidation(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "owner@example.com")

	_, err := env.contents.CreateFromPDF(ctx, "notes.txt", "", []byte("hello"))
	wantMessage(t, err, "only PDF files are supported")

	_, err = env.contents.CreateFromPDF(ctx, "", "", nil)
	wantMessage(t, err, "PDF file is required")

	_, err = env.contents.CreateFromPDF(ctx, "broken.PDF", "", []byte("not really a pdf"))
	wantStatus(t, err, http.StatusBadRequest)
}

func TestUploadedFileFollowsContent(t *testing.T) {
	env := newTestEnv(t)
	u, ctx := env.register(t, "files@example.com")
	log := testutil.Logger(t)
	uploads := localmedia.New(log, t.TempDir())
	contentRepo := repos.NewContentRepo(env.db, log)
	contents := NewContentService(env.db, log, contentRepo, repos.NewContentChunkRepo(env.db, log), env.fetcher, uploads)

	_, err := contents.CreateFromPDF(ctx, "broken.pdf", "", []byte("not really a pdf"))
	wantStatus(t, err, http.StatusBadRequest)
	entries, err := os.ReadDir(uploads.Root())
	if err != nil || len(entries) != 0 {
		t.Fatalf("rejected upload left files behind: %v %d", err, len(entries))
	}

	path, err := uploads.Save(ctx, "notes.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	c := &types.Content{UserID: u.ID, Title: "notes", SourceType: types.SourcePDF, RawText: sevenSentences, FilePath: path}
	if _, err := contentRepo.Create(dbcFor(ctx), []*types.Content{c}); err != nil {
		t.Fatalf("create content: %v", err)
	}
	if err := contents.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("upload %s still present after delete: %v", path, err)
	}
}

func TestContentVisibility(t *testing.T) {
	env := newTestEnv(t)
	_, ownerCtx := env.register(t, "owner@example.com")
	_, otherCtx := env.register(t, "other@example.com")
	admin, _ := env.register(t, "root@example.com")

	c, err := env.contents.CreateFromText(ownerCtx, "mine", sevenSentences)
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	_, err = env.contents.Get(otherCtx, c.ID)
	wantStatus(t, err, http.StatusForbidden)

	if _, err := env.contents.Get(asUser(admin), c.ID); err != nil {
		t.Fatalf("admin Get: %v", err)
	}

	_, err = env.contents.Get(ownerCtx, c.ID+100)
	wantStatus(t, err, http.StatusNotFound)

	list, err := env.contents.List(otherCtx)
	if err != nil || len(list) != 0 {
		t.Fatalf("other List: %v %d", err, len(list))
	}

	err = env.contents.Delete(asUser(admin), c.ID)
	wantStatus(t, err, http.StatusForbidden)

	if err := env.contents.Delete(ownerCtx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = env.contents.Get(ownerCtx, c.ID)
	wantStatus(t, err, http.StatusNotFound)

	_, err = env.contents.List(context.Background())
	wantStatus(t, err, http.StatusUnauthorized)
}
