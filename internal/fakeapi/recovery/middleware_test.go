package recovery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
	"github.com/BryceLarsen/Requestwave-sub001/internal/platform/logger"
)

func newRouter(logs *bytes.Buffer) *mux.Router {
	r := mux.NewRouter()
	r.Use(New(logger.NewWithWriter("requestqa-fake", logs)))
	r.HandleFunc("/api/songs/{id}", func(w http.ResponseWriter, r *http.Request) {
		panic("nil song")
	})
	r.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		respond.WriteMessage(w, "ok")
	})
	return r
}

func TestPanicBecomes500(t *testing.T) {
	var logs bytes.Buffer
	rr := httptest.NewRecorder()
	newRouter(&logs).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/songs/42", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 500, body.Code)
	assert.Equal(t, "DELETE /api/songs/{id} panicked", body.Message)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "panic: nil song", entry["error"])
	assert.Equal(t, "/api/songs/{id}", entry["route"])
	assert.Equal(t, "requestqa-fake", entry["service"])
	assert.NotEmpty(t, entry["stack"])
}

func TestNoPanicPassesThrough(t *testing.T) {
	var logs bytes.Buffer
	rr := httptest.NewRecorder()
	newRouter(&logs).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, logs.Len())
}

func TestAbortHandlerIsRethrown(t *testing.T) {
	h := New(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
