package handlers

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
)

// bindJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so field validation can report what is missing.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apierr.BadRequest("invalid JSON body")
	}
	return nil
}

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.NotFound("not found")
	}
	return uint(id), nil
}

// boolQuery returns nil when the parameter is absent.
func boolQuery(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v := strings.EqualFold(strings.TrimSpace(raw), "true") || strings.TrimSpace(raw) == "1"
	return &v
}
