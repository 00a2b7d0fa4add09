package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseDate(t *testing.T) {
	from, err := parseDate("2024-05-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), from)

	to, err := parseDate("2024-05-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 999999999, time.UTC), to)

	ts, err := parseDate("2024-05-01T10:00:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), ts)

	_, err = parseDate("", false)
	assert.Error(t, err)
	_, err = parseDate("01/05/2024", false)
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{name: "not found", err: &service.Error{Kind: service.ErrNotFound, Detail: "Post not found"}, status: http.StatusNotFound, body: `{"error":"Post not found"}`},
		{name: "conflict", err: &service.Error{Kind: service.ErrConflict, Detail: "blocked"}, status: http.StatusConflict, body: `{"error":"blocked"}`},
		{name: "forbidden", err: &service.Error{Kind: service.ErrForbidden, Detail: "nope"}, status: http.StatusForbidden, body: `{"error":"nope"}`},
		{name: "invalid", err: &service.Error{Kind: service.ErrInvalid, Detail: "bad"}, status: http.StatusBadRequest, body: `{"error":"bad"}`},
		{name: "wrapped kind", err: errors.Wrap(&service.Error{Kind: service.ErrNotFound, Detail: "gone"}, "ctx"), status: http.StatusNotFound, body: `{"error":"gone"}`},
		{name: "unexpected", err: errors.New("connection reset"), status: http.StatusInternalServerError, body: `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, log, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			if tt.status == http.StatusInternalServerError {
				assert.Len(t, hook.Entries, 1)
			} else {
				assert.Empty(t, hook.Entries)
			}
		})
	}
}

func TestExtractUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := extractUserID(c)
	assert.False(t, ok)

	c.Set("user_id", float64(3))
	id, ok := extractUserID(c)
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	c.Set("user_id", "3")
	_, ok = extractUserID(c)
	assert.False(t, ok)
}
