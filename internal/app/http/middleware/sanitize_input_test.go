package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanitizeRouter(t *testing.T) (*gin.Engine, *map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got map[string]interface{}
	r := gin.New()
	r.Use(SanitizeJSONBody())
	handle := func(c *gin.Context) {
		if c.Request.ContentLength == 0 {
			c.Status(http.StatusOK)
			return
		}
		if err := c.ShouldBindJSON(&got); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	}
	r.POST("/echo", handle)
	r.GET("/echo", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, &got
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSanitizeStripsNestedMarkup(t *testing.T) {
	r, got := sanitizeRouter(t)

	body := map[string]interface{}{
		"name": `<script>alert(1)</script>Jo`,
		"profile": map[string]interface{}{
			"bio": `<b>coach</b> at the club`,
		},
		"tags":   []interface{}{`<img src=x onerror=alert(1)>beam`, "floor"},
		"amount": 650,
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := postJSON(r, string(raw))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "Jo", (*got)["name"])
	profile := (*got)["profile"].(map[string]interface{})
	assert.Equal(t, "coach at the club", profile["bio"])
	tags := (*got)["tags"].([]interface{})
	assert.Equal(t, "beam", tags[0])
	assert.Equal(t, "floor", tags[1])
	assert.EqualValues(t, 650, (*got)["amount"])
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	r, _ := sanitizeRouter(t)
	w := postJSON(r, `{"name": "Jo"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizeRejectsOversizedBody(t *testing.T) {
	r, _ := sanitizeRouter(t)
	big := `{"notes": "` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	w := postJSON(r, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSanitizePassesEmptyBodyAndReads(t *testing.T) {
	r, _ := sanitizeRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/echo", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
