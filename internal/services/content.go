package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/ingestion/chunker"
	"github.com/yungbote/adaptivequiz-backend/internal/ingestion/extractor"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/localmedia"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	defaultContentTitle = "Untitled"
	urlTitleMaxRunes    = 80
)

// URLFetcher downloads a page and returns its visible text.
type URLFetcher interface {
	FetchURL(ctx context.Context, rawURL string) (string, error)
}

type ContentService interface {
	CreateFromText(ctx context.Context, title, text string) (*types.Content, error)
	CreateFromURL(ctx context.Context, rawURL, title string) (*types.Content, error)
	CreateFromPDF(ctx context.Context, filename, title string, data []byte) (*types.Content, error)
	List(ctx context.Context) ([]*types.Content, error)
	// Get returns the content with its chunks ordered by chunk_index.
	Get(ctx context.Context, contentID uint) (*types.Content, error)
	Delete(ctx context.Context, contentID uint) error
}

type contentService struct {
	db        *gorm.DB
	log       *logger.Logger
	contents  repos.ContentRepo
	chunks    repos.ContentChunkRepo
	fetcher   URLFetcher
	uploads   localmedia.Store
	chunkSize int
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	contents repos.ContentRepo,
	chunks repos.ContentChunkRepo,
	fetcher URLFetcher,
	uploads localmedia.Store,
) ContentService {
	return &contentService{
		db:        db,
		log:       log.With("service", "ContentService"),
		contents:  contents,
		chunks:    chunks,
		fetcher:   fetcher,
		uploads:   uploads,
		chunkSize: chunker.DefaultSentencesPerChunk,
	}
}

func (cs *contentService) CreateFromText(ctx context.Context, title, text string) (*types.Content, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.BadRequest("text is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultContentTitle
	}
	return cs.store(ctx, &types.Content{
		UserID:     rd.UserID,
		Title:      title,
		SourceType: types.SourceText,
		RawText:    text,
	})
}

func (cs *contentService) CreateFromURL(ctx context.Context, rawURL, title string) (*types.Content, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, apierr.BadRequest("url is required")
	}
	if _, err := extractor.ValidateURL(rawURL); err != nil {
		return nil, apierr.BadRequest("invalid url: " + err.Error())
	}
	if cs.fetcher == nil {
		return nil, fmt.Errorf("url fetcher not configured")
	}
	text, err := cs.fetcher.FetchURL(ctx, rawURL)
	if err != nil {
		cs.log.Warn("url fetch failed", "url", rawURL, "error", err)
		return nil, apierr.BadRequest(fmt.Sprintf("failed to fetch URL: %v", err))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = truncateRunes(rawURL, urlTitleMaxRunes)
	}
	return cs.store(ctx, &types.Content{
		UserID:     rd.UserID,
		Title:      title,
		SourceType: types.SourceURL,
		SourceURL:  rawURL,
		RawText:    text,
	})
}

func (cs *contentService) CreateFromPDF(ctx context.Context, filename, title string, data []byte) (*types.Content, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" || len(data) == 0 {
		return nil, apierr.BadRequest("PDF file is required")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, apierr.BadRequest("only PDF files are supported")
	}
	var path string
	if cs.uploads != nil {
		path, err = cs.uploads.Save(ctx, filename, data)
		if err != nil {
			return nil, err
		}
	}
	text, err := extractor.ExtractPDF(data)
	if err != nil {
		cs.removeUpload(ctx, path)
		return nil, apierr.BadRequest(fmt.Sprintf("failed to parse PDF: %v", err))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = filename
	}
	c, err := cs.store(ctx, &types.Content{
		UserID:     rd.UserID,
		Title:      title,
		SourceType: types.SourcePDF,
		RawText:    strings.TrimSpace(text),
		FilePath:   path,
	})
	if err != nil {
		cs.removeUpload(ctx, path)
		return nil, err
	}
	return c, nil
}

// removeUpload deletes a stored upload; failures are logged, not returned.
func (cs *contentService) removeUpload(ctx context.Context, path string) {
	if path == "" || cs.uploads == nil {
		return
	}
	if err := cs.uploads.Remove(ctx, path); err != nil {
		cs.log.Warn("remove upload failed", "path", path, "error", err)
	}
}

// store chunks the raw text and writes the content and its chunks in one transaction.
func (cs *contentService) store(ctx context.Context, c *types.Content) (*types.Content, error) {
	parts := chunker.Chunk(c.RawText, cs.chunkSize)
	c.ChunkCount = len(parts)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := cs.contents.Create(dbc, []*types.Content{c}); err != nil {
			return fmt.Errorf("create content: %w", err)
		}
		if len(parts) == 0 {
			return nil
		}
		rows := make([]*types.ContentChunk, 0, len(parts))
		for i, p := range parts {
			rows = append(rows, &types.ContentChunk{ContentID: c.ID, ChunkIndex: i, ChunkText: p})
		}
		if _, err := cs.chunks.Create(dbc, rows); err != nil {
			return fmt.Errorf("create chunks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs.log.Info("content saved", "content_id", c.ID, "source", c.SourceType, "chunks", c.ChunkCount)
	return c, nil
}

func (cs *contentService) List(ctx context.Context) ([]*types.Content, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := cs.contents.ListByUserID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	return out, nil
}

func (cs *contentService) Get(ctx context.Context, contentID uint) (*types.Content, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	c, err := cs.loadContent(dbc, contentID)
	if err != nil {
		return nil, err
	}
	if c.UserID != rd.UserID && !rd.IsAdmin {
		return nil, apierr.Forbidden("forbidden")
	}
	chunks, err := cs.chunks.GetByContentIDs(dbc, []uint{c.ID})
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	c.Chunks = make([]types.ContentChunk, 0, len(chunks))
	for _, ch := range chunks {
		c.Chunks = append(c.Chunks, *ch)
	}
	return c, nil
}

func (cs *contentService) Delete(ctx context.Context, contentID uint) error {
	rd, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	var filePath string
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		c, err := cs.loadContent(dbc, contentID)
		if err != nil {
			return err
		}
		if c.UserID != rd.UserID {
			return apierr.Forbidden("forbidden")
		}
		if err := cs.contents.FullDeleteByIDs(dbc, []uint{c.ID}); err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		filePath = c.FilePath
		return nil
	})
	if err != nil {
		return err
	}
	// The file goes only after the rows are gone.
	cs.removeUpload(ctx, filePath)
	return nil
}

func (cs *contentService) loadContent(dbc dbctx.Context, contentID uint) (*types.Content, error) {
	c, err := cs.contents.GetByID(dbc, contentID)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound("content not found")
	}
	return c, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
