package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"artmarket-app/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type staticTokens map[string]services.Claims

func (s staticTokens) ParseToken(raw string) (services.Claims, error) {
	if c, ok := s[raw]; ok {
		return c, nil
	}
	return services.Claims{}, errors.New("bad token")
}

func TestAuthMiddleware(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := gin.New()
	r.GET("/me", AuthMiddleware(staticTokens{"good": {UserID: 7, Role: "artist"}}, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id"), "role": c.GetString("role")})
	})

	cases := map[string]int{
		"":            http.StatusUnauthorized,
		"good":        http.StatusUnauthorized,
		"Bearer nope": http.StatusUnauthorized,
		"Bearer good": http.StatusOK,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, header)
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) { c.Set("role", c.Query("role")) }, RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=buyer", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=admin", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func echoBody(c *gin.Context) {
	b, _ := io.ReadAll(c.Request.Body)
	c.Data(http.StatusOK, "text/plain", b)
}

func TestSanitizeJSON(t *testing.T) {
	r := gin.New()
	r.POST("/x", SanitizeAndCleanInputMiddleware(), echoBody)

	body := `{"title":"<script>alert(1)</script>Sunset","password":"a<b>c1234","bid":150.5,"tags":["<b>bold</b>"]}`
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Sunset", got["title"])
	assert.Equal(t, "a<b>c1234", got["password"])
	assert.Equal(t, 150.5, got["bid"])
	assert.Equal(t, []interface{}{"bold"}, got["tags"])

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizeForm(t *testing.T) {
	r := gin.New()
	r.POST("/x", SanitizeAndCleanInputMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"title": c.PostForm("title"), "bid_amount": c.PostForm("bid_amount")})
	})

	form := url.Values{"title": {"<i>Dawn</i>"}, "bid_amount": {"150.00"}}
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dawn", got["title"])
	assert.Equal(t, "150.00", got["bid_amount"])
}
