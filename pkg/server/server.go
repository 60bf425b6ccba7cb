// Package server exposes the generation engine over HTTP. Clients
// POST a generation request and receive the full instruction blob, or
// open a WebSocket and receive the instructions layer by layer as
// they are produced.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"earthpath/pkg/compat"
	"earthpath/pkg/engine"
	"earthpath/pkg/estimate"
	"earthpath/pkg/errors"
	"earthpath/pkg/gcode"
	"earthpath/pkg/log"
	"earthpath/pkg/material"
	"earthpath/pkg/metrics"
	"earthpath/pkg/profile"
)

// Server serves the generation API.
type Server struct {
	engine   *engine.Engine
	registry *profile.Registry
	metrics  *metrics.Metrics
	logger   *log.Logger

	httpServer *http.Server
	addr       string
	wsUpgrader websocket.Upgrader
}

// Config holds server configuration.
type Config struct {
	// HTTP address to listen on (e.g., ":8080")
	Addr string

	Engine   *engine.Engine
	Registry *profile.Registry
	Metrics  *metrics.Metrics
}

// New creates a server over an engine and its profile registry.
func New(cfg Config) *Server {
	s := &Server{
		engine:   cfg.Engine,
		registry: cfg.Registry,
		metrics:  cfg.Metrics,
		addr:     cfg.Addr,
		logger:   log.GetLogger("server"),
	}
	if s.metrics == nil {
		s.metrics = metrics.Default()
	}
	s.wsUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return s
}

// Handler returns the routing mux. Exposed separately so tests can
// drive it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/check", s.handleCheck)
	mux.HandleFunc("/api/profiles", s.handleProfiles)
	mux.HandleFunc("/api/materials", s.handleMaterials)
	mux.HandleFunc("/ws/stream", s.handleStream)
	mux.Handle("/metrics", s.metrics.Handler())

	return mux
}

// Start runs the server until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	s.logger.Info("listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// Stop closes the listener and any in-flight connections.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// generateResponse is the JSON shape for /api/generate.
type generateResponse struct {
	Printer        string           `json:"printer"`
	Material       string           `json:"material"`
	LayerCount     int              `json:"layer_count"`
	WithinEnvelope bool             `json:"within_envelope"`
	Report         compat.Report    `json:"report"`
	Estimate       estimate.Summary `json:"estimate"`
	GCode          string           `json:"gcode"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.engine.Generate(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Printer:        res.Profile.Name,
		Material:       res.Mix.Name,
		LayerCount:     res.LayerCount,
		WithinEnvelope: res.Report.WithinEnvelope(),
		Report:         res.Report,
		Estimate:       res.Estimate,
		GCode:          res.GCode,
	})
}

// handleCheck runs the envelope check without generating motion.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	desc, prof, _, err := s.engine.Resolve(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	report := compat.Check(desc, prof)
	writeJSON(w, http.StatusOK, map[string]any{
		"within_envelope": report.WithinEnvelope(),
		"report":          report,
		"rendered":        compat.Render(report, desc, prof),
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := make(map[string]profile.Profile)
	for _, id := range s.registry.IDs() {
		profiles[id] = s.registry.Lookup(id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"materials": material.Names()})
}

// Stream frame types for /ws/stream.
const (
	frameHeader   = "header"
	frameStep     = "step"
	frameFooter   = "footer"
	frameReport   = "report"
	frameError    = "error"
	frameComplete = "complete"
)

type streamFrame struct {
	Type  string `json:"type"`
	Layer int    `json:"layer,omitempty"`
	Data  string `json:"data,omitempty"`
	Error string `json:"error,omitempty"`

	Report *compat.Report `json:"report,omitempty"`
}

// handleStream upgrades to WebSocket, reads one generation request,
// and streams the instructions one layer per frame. Large prints on
// slow links never buffer the whole blob server-side.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var req engine.Request
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamFrame{Type: frameError, Error: "invalid request: " + err.Error()})
		return
	}

	res, err := s.engine.Generate(r.Context(), req)
	if err != nil {
		conn.WriteJSON(streamFrame{Type: frameError, Error: err.Error()})
		return
	}

	emitter := gcode.NewEmitter(res.Profile, res.Mix)

	frames := []streamFrame{{Type: frameHeader, Data: emitter.Preamble()}}
	for _, step := range res.Toolpath.Steps {
		frames = append(frames, streamFrame{
			Type:  frameStep,
			Layer: int(step.Layer.Index),
			Data:  emitter.EmitStep(step),
		})
	}
	frames = append(frames,
		streamFrame{Type: frameFooter, Data: emitter.Postamble()},
		streamFrame{Type: frameReport, Report: &res.Report},
		streamFrame{Type: frameComplete, Layer: res.LayerCount},
	)

	for _, frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Debug("stream client went away: %v", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	if code := errors.CodeOf(err); code != "" {
		resp.Code = string(code)
	}
	writeJSON(w, status, resp)
}

// statusFor maps engine errors onto HTTP statuses. Configuration and
// geometry mistakes are the client's fault.
func statusFor(err error) int {
	if errors.IsConfig(err) || errors.IsGeometry(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
