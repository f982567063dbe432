package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gaussmap"
)

func post(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tool", strings.NewReader(body))
	newMux(time.Second).ServeHTTP(rec, req)
	return rec
}

func TestToolEvaluate(t *testing.T) {
	t.Parallel()
	rec := post(t, `{"tool":"evaluate","params":{"name":"sphere","u":1,"v":1}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp gaussmap.ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	assert.True(t, strings.HasPrefix(resp.String, "regular"), resp.String)
}

func TestToolErrorsAreReportedInBody(t *testing.T) {
	t.Parallel()
	rec := post(t, `{"tool":"parse_surface","params":{"surface":{"x":"u**","y":"v","z":"0","u_min":"0","u_max":"1","v_min":"0","v_max":"1"}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp gaussmap.ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "x:")
}

func TestToolRejectsBadRequests(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"tool":"catalog","extra":1}`},
		{"trailing data", `{"tool":"catalog"} {}`},
		{"not json", `tool=catalog`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, http.StatusBadRequest, post(t, tt.body).Code)
		})
	}
}

func TestToolMethodNotAllowed(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	newMux(time.Second).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tool", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSchemaAndHealth(t *testing.T) {
	t.Parallel()
	mux := newMux(time.Second)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var schema struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	assert.NotEmpty(t, schema.Tools)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
