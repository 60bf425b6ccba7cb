package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earthpath/pkg/engine"
	"earthpath/pkg/metrics"
	"earthpath/pkg/profile"
)

func newTestServer() *Server {
	registry := profile.NewRegistry()
	m := &metrics.Metrics{}
	return New(Config{
		Engine:   engine.New(registry).WithMetrics(m),
		Registry: registry,
		Metrics:  m,
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", path, bytes.NewReader(raw)))
	return rec
}

func TestGenerateEndpoint(t *testing.T) {
	h := newTestServer().Handler()

	rec := postJSON(t, h, "/api/generate", engine.Request{
		Typology:  "single_pod",
		DiameterM: 5.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Printer        string `json:"printer"`
		Material       string `json:"material"`
		LayerCount     int    `json:"layer_count"`
		WithinEnvelope bool   `json:"within_envelope"`
		GCode          string `json:"gcode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "WASP Crane", resp.Printer)
	assert.Equal(t, "Standard Earth Mix", resp.Material)
	assert.Equal(t, 160, resp.LayerCount)
	assert.True(t, resp.WithinEnvelope)
	assert.Contains(t, resp.GCode, "G21 ; Set units to millimeters")
}

func TestGenerateEndpointBadTypology(t *testing.T) {
	rec := postJSON(t, newTestServer().Handler(), "/api/generate", engine.Request{
		Typology: "dome",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIG_TYPOLOGY", resp.Code)
}

func TestGenerateEndpointMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec,
		httptest.NewRequest("POST", "/api/generate", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateEndpointMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCheckEndpoint(t *testing.T) {
	rec := postJSON(t, newTestServer().Handler(), "/api/check", engine.Request{
		Typology: "single_pod", // default 6.5m exceeds the crane reach
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		WithinEnvelope bool   `json:"within_envelope"`
		Rendered       string `json:"rendered"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.WithinEnvelope)
	assert.Contains(t, resp.Rendered, "PRINTER COMPATIBILITY REPORT")
}

func TestProfilesEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/profiles", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Profiles map[string]profile.Profile `json:"profiles"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Profiles, 3)
	assert.Equal(t, 3.0, resp.Profiles["wasp_crane"].ReachRadiusM)
}

func TestMaterialsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/materials", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "standard")
	assert.Contains(t, rec.Body.String(), "high_strength")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()
	h := srv.Handler()

	postJSON(t, h, "/api/generate", engine.Request{Typology: "single_pod", DiameterM: 5.0})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "earthpath_generations_total 1\n")
}

func TestStreamEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(engine.Request{
		Typology:  "single_pod",
		DiameterM: 5.0,
		HeightM:   0.1, // 5 layers at 20mm
	}))

	var types []string
	var steps int
	for {
		var frame struct {
			Type  string `json:"type"`
			Layer int    `json:"layer"`
			Data  string `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		types = append(types, frame.Type)
		if frame.Type == "step" {
			steps++
			assert.Contains(t, frame.Data, "G2 ")
		}
		if frame.Type == "complete" {
			assert.Equal(t, 5, frame.Layer)
			break
		}
	}

	assert.Equal(t, "header", types[0])
	assert.Equal(t, 5, steps)
	assert.Contains(t, types, "footer")
	assert.Contains(t, types, "report")
}

func TestStreamEndpointBadRequest(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(engine.Request{Typology: "dome"}))

	var frame struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
	assert.Contains(t, frame.Error, "dome")
}
