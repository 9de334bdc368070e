package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdmin(t *testing.T) (*Admin, *Loop, *http.ServeMux) {
	l, _, m := newTestLoop(t, newFakeConn("a"))
	a := NewAdmin(l, m)
	mux := http.NewServeMux()
	a.Register(mux)
	return a, l, mux
}

func TestAdminSteeringGetAndPost(t *testing.T) {
	_, l, mux := newTestAdmin(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/steering", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "turn", got["policy"])
	assert.Equal(t, 3.0, got["speed"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/steering", strings.NewReader(`{"policy":"snap","speed":4.5}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	l.Tick()
	assert.Equal(t, PolicySnap, l.Steering().Policy)
	assert.Equal(t, 4.5, l.Steering().Speed)
	assert.Equal(t, 5.0, l.Steering().TurnRate)
}

func TestAdminSteeringRejectsInvalid(t *testing.T) {
	_, _, mux := newTestAdmin(t)

	for _, body := range []string{`{"policy":"spin"}`, `{"speed":-1}`, `not json`} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/steering", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/steering", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAdminMetricsAndHealth(t *testing.T) {
	_, l, mux := newTestAdmin(t)
	l.Tick()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Steering map[string]any `json:"steering"`
		Metrics  map[string]any `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// 与 /admin/steering 使用同一套字段名
	assert.Equal(t, "turn", got.Steering["policy"])
	assert.Equal(t, 3.0, got.Steering["arrivalThreshold"])
	assert.Equal(t, 5.0, got.Steering["turnRate"])
	assert.NotContains(t, got.Steering, "ArrivalThreshold")
	assert.Equal(t, 1.0, got.Metrics["tick_count"])
	assert.Equal(t, 1.0, got.Metrics["entities"])
	assert.Equal(t, 1.0, got.Metrics["conns_accepted"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
