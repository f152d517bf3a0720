package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

const DefaultMaxUploadBytes int64 = 16 << 20

// multipart framing allowance on top of the file itself
const multipartOverhead int64 = 1 << 20

type ContentHandler struct {
	contentService services.ContentService
	maxUploadBytes int64
}

func NewContentHandler(contentService services.ContentService, maxUploadBytes int64) *ContentHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ContentHandler{contentService: contentService, maxUploadBytes: maxUploadBytes}
}

func (ch *ContentHandler) UploadText(c *gin.Context) {
	var req apitypes.UploadTextRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	content, err := ch.contentService.CreateFromText(c.Request.Context(), req.Title, req.Text)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, apitypes.ContentResponse{Msg: "content saved", Content: toContent(content)})
}

func (ch *ContentHandler) UploadURL(c *gin.Context) {
	var req apitypes.UploadURLRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	content, err := ch.contentService.CreateFromURL(c.Request.Context(), req.URL, req.Title)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, apitypes.ContentResponse{Msg: "content saved", Content: toContent(content)})
}

func (ch *ContentHandler) UploadPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ch.maxUploadBytes+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			response.RespondErr(c, ch.tooLarge())
			return
		}
		response.RespondErr(c, apierr.BadRequest("PDF file is required"))
		return
	}
	if fh.Size > ch.maxUploadBytes {
		response.RespondErr(c, ch.tooLarge())
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondErr(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, ch.maxUploadBytes+1))
	if err != nil {
		response.RespondErr(c, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > ch.maxUploadBytes {
		response.RespondErr(c, ch.tooLarge())
		return
	}
	content, err := ch.contentService.CreateFromPDF(c.Request.Context(), fh.Filename, c.PostForm("title"), data)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, apitypes.ContentResponse{Msg: "content saved", Content: toContent(content)})
}

func (ch *ContentHandler) tooLarge() error {
	return apierr.Newf(http.StatusRequestEntityTooLarge, "too_large", "file exceeds %d bytes", ch.maxUploadBytes)
}

func (ch *ContentHandler) List(c *gin.Context) {
	contents, err := ch.contentService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.ContentListResponse{Contents: toContents(contents)})
}

func (ch *ContentHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("content not found"))
		return
	}
	content, err := ch.contentService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.ContentResponse{Content: toContent(content)})
}

func (ch *ContentHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("content not found"))
		return
	}
	if err := ch.contentService.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "content deleted")
}
