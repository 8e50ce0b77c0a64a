package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Secrets are compared byte for byte later; stripping markup would change them.
var skipSanitize = map[string]bool{
	"password":     true,
	"old_password": true,
	"new_password": true,
}

// SanitizeAndCleanInputMiddleware strips markup from every string field of
// JSON and form bodies. Multipart file parts are left untouched.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		switch c.ContentType() {
		case gin.MIMEJSON:
			if !sanitizeJSON(c, policy) {
				return
			}
		case gin.MIMEPOSTForm:
			if !sanitizeForm(c, policy) {
				return
			}
		case gin.MIMEMultipartPOSTForm:
			if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed form", "code": "bad_request"})
				return
			}
			cleanValues(c.Request.MultipartForm.Value, policy)
			cleanValues(c.Request.PostForm, policy)
			cleanValues(c.Request.Form, policy)
		}
		c.Next()
	}
}

func sanitizeJSON(c *gin.Context, policy *bluemonday.Policy) bool {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "code": "bad_request"})
		return false
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		c.Request.Body = io.NopCloser(bytes.NewReader(buf))
		return true
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var body interface{}
	if err := dec.Decode(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON", "code": "bad_request"})
		return false
	}

	newBody, _ := json.Marshal(cleanJSON("", body, policy))
	c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
	c.Request.ContentLength = int64(len(newBody))
	return true
}

func cleanJSON(key string, v interface{}, policy *bluemonday.Policy) interface{} {
	switch t := v.(type) {
	case string:
		if skipSanitize[key] {
			return t
		}
		return policy.Sanitize(t)
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = cleanJSON(k, inner, policy)
		}
	case []interface{}:
		for i, inner := range t {
			t[i] = cleanJSON(key, inner, policy)
		}
	}
	return v
}

func sanitizeForm(c *gin.Context, policy *bluemonday.Policy) bool {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "code": "bad_request"})
		return false
	}
	values, err := url.ParseQuery(string(buf))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed form", "code": "bad_request"})
		return false
	}
	cleanValues(values, policy)
	encoded := values.Encode()
	c.Request.Body = io.NopCloser(strings.NewReader(encoded))
	c.Request.ContentLength = int64(len(encoded))
	return true
}

func cleanValues(values map[string][]string, policy *bluemonday.Policy) {
	for k, vs := range values {
		if skipSanitize[k] {
			continue
		}
		for i, v := range vs {
			vs[i] = policy.Sanitize(v)
		}
	}
}
