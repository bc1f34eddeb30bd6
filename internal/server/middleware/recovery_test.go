package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/supaship/pkg/api"
)

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("panic becomes 500", func(t *testing.T) {
		var buf bytes.Buffer
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(newBufferLogger(&buf))(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, api.CodeInternal, resp.Code)
		assert.NotContains(t, resp.Message, "boom")

		assert.Contains(t, buf.String(), "Panic recovered")
		assert.Contains(t, buf.String(), "boom")
		assert.Contains(t, buf.String(), "stack=")
	})

	t.Run("no panic passes through", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		w := httptest.NewRecorder()
		RecoveryMiddleware(setupTestLogger())(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("abort handler is re-panicked", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			RecoveryMiddleware(setupTestLogger())(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
