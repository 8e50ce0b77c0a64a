package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"artmarket-app/internal/domain/access"
	"artmarket-app/internal/domain/auctions"
	"artmarket-app/internal/domain/billing"
	"artmarket-app/internal/services"
	"artmarket-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestClassify(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{storage.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("load: %w", storage.ErrNotFound), http.StatusNotFound, "not_found"},
		{access.Require("buyer", access.CapListArtwork), http.StatusForbidden, "permission_denied"},
		{fmt.Errorf("%w (current bid 100.00)", auctions.ErrBidTooLow), http.StatusConflict, "bid_too_low"},
		{storage.ErrArtworkSold, http.StatusConflict, "artwork_sold"},
		{fmt.Errorf("%w: requires_action", billing.ErrPaymentDeclined), http.StatusPaymentRequired, "payment_declined"},
		{&services.ValidationError{Field: "title", Message: "is required"}, http.StatusUnprocessableEntity, "invalid_input"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, code := Classify(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorHidesInternalMessages(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) { Error(c, fmt.Errorf("pq: connection refused")) })
	r.GET("/gone", func(c *gin.Context) { Error(c, storage.ErrNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gone", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "not found", body["error"])
	assert.Equal(t, "not_found", body["code"])
}

func TestIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := ID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/12", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, bad := range []string{"/x/0", "/x/abc", "/x/-3"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, bad, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}
