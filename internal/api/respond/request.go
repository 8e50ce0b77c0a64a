package respond

import (
	"io"
	"net/http"
	"strconv"

	"artmarket-app/internal/infra/blob"
	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
)

// Actor reads the caller set by the auth middleware.
func Actor(c *gin.Context) (services.Actor, bool) {
	id, ok := c.Get("user_id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "unauthenticated"})
		return services.Actor{}, false
	}
	uid, _ := id.(uint)
	return services.Actor{ID: uid, Role: c.GetString("role")}, true
}

// ID parses a positive integer path parameter.
func ID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// Upload reads an optional multipart file. It returns (nil, true) when the
// request carries no such file and writes a 400 when the file is unreadable
// or too big.
func Upload(c *gin.Context, field string) (*services.Upload, bool) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, true
	}
	fh, err := c.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		BadRequest(c, "invalid "+field)
		return nil, false
	}
	if fh.Size > blob.MaxImageBytes {
		BadRequest(c, field+" is too large")
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		BadRequest(c, "invalid "+field)
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, blob.MaxImageBytes+1))
	if err != nil || len(data) > blob.MaxImageBytes {
		BadRequest(c, "invalid "+field)
		return nil, false
	}
	return &services.Upload{Data: data, Filename: fh.Filename}, true
}
