package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dbccheck/pkg/cache"
	"github.com/matzehuels/dbccheck/pkg/pipeline"
	"github.com/matzehuels/dbccheck/pkg/report"
	"github.com/matzehuels/dbccheck/pkg/store"
)

func designJSON(x, y float64) string {
	return fmt.Sprintf(`{
  "module_id": "half_bridge",
  "ceramics_width": 10, "ceramics_length": 10,
  "cu2cu_margin": 0, "cu2ceramics_margin": 0,
  "igbt_width": 2, "igbt_length": 2, "fwd_width": 1, "fwd_length": 1,
  "igbt_positions": {"type_1": [[%g, %g]]},
  "igbt_rotations": {"type_1": [0]},
  "fwd_positions": [], "fwd_rotations": [],
  "dbc_connections": [["zone0", "igbt0"]]
}`, x, y)
}

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	return New(pipeline.NewRunner(fc, nil, nil), st, nil), st
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status": "ok"`)
}

func TestPrecheck(t *testing.T) {
	s, st := newTestServer(t)
	h := s.Routes()

	rec := do(t, h, http.MethodPost, "/v1/precheck", designJSON(0.9, 0.9))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	runID := rec.Header().Get("X-Run-ID")
	assert.NotEmpty(t, runID)

	rep, err := report.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	assert.False(t, rep.OK)
	require.Len(t, rep.Errors, 1)
	assert.Equal(t, report.ChipOutOfZone, rep.Errors[0].Type)

	again := do(t, h, http.MethodPost, "/v1/precheck", designJSON(0.9, 0.9))
	assert.Equal(t, "hit", again.Header().Get("X-Cache"))
	assert.Equal(t, rec.Body.String(), again.Body.String())

	recorded, err := st.Get(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "half_bridge", recorded.TemplateID)
	assert.Equal(t, store.SourceAPI, recorded.Source)
}

func TestPrecheckYAML(t *testing.T) {
	s, _ := newTestServer(t)
	body := `
ceramics_width: 10
ceramics_length: 10
cu2cu_margin: 0
cu2ceramics_margin: 0
igbt_width: 2
igbt_length: 2
fwd_width: 1
fwd_length: 1
igbt_positions: {type_1: [[0.2, 0.2]]}
igbt_rotations: {type_1: [0]}
dbc_connections: [[zone0, igbt0]]
`
	rec := do(t, s.Routes(), http.MethodPost, "/v1/precheck", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"ok": true`)
}

func TestPrecheckErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"empty body", "/v1/precheck", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad extreme", "/v1/precheck?extreme=abc", designJSON(0.2, 0.2), http.StatusBadRequest, "INVALID_EXTREME"},
		{"negative extreme", "/v1/precheck?extreme=-5", designJSON(0.2, 0.2), http.StatusBadRequest, "INVALID_EXTREME"},
		{"missing field", "/v1/precheck", `{"ceramics_width": 10}`, http.StatusUnprocessableEntity, "MISSING_SECTION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, string(decodeError(t, rec).Code))
		})
	}
}

func TestPrecheckBodyLimit(t *testing.T) {
	s, _ := newTestServer(t)
	s.MaxBodyBytes = 16
	rec := do(t, s.Routes(), http.MethodPost, "/v1/precheck", designJSON(0.2, 0.2))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGate(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	ok := do(t, h, http.MethodPost, "/v1/gate", designJSON(0.2, 0.2))
	assert.Equal(t, http.StatusOK, ok.Code)

	blocked := do(t, h, http.MethodPost, "/v1/gate", designJSON(0.9, 0.9))
	assert.Equal(t, http.StatusConflict, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "chip_out_of_zone")
}

func TestHistory(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Routes()

	do(t, h, http.MethodPost, "/v1/precheck", designJSON(0.2, 0.2))
	failed := do(t, h, http.MethodPost, "/v1/precheck", designJSON(0.9, 0.9))
	failedID := failed.Header().Get("X-Run-ID")

	rec := do(t, h, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rec = do(t, h, http.MethodGet, "/v1/history?failed=1", "")
	var onlyFailed []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &onlyFailed))
	require.Len(t, onlyFailed, 1)
	assert.Equal(t, failedID, onlyFailed[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/history/"+failedID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/history/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/history?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryWithoutStore(t *testing.T) {
	s := New(nil, nil, nil)
	rec := do(t, s.Routes(), http.MethodGet, "/v1/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORAGE_ERROR", string(decodeError(t, rec).Code))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor("INCONSISTENT_PLACEMENT"))
}

