package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/zsiec/tint/internal/control"
	"github.com/zsiec/tint/internal/errors"
	"github.com/zsiec/tint/internal/filter"
	"github.com/zsiec/tint/pkg/version"
)

const maxBodyBytes = 1 << 10

// ModeInfo describes one selectable filter mode.
type ModeInfo struct {
	Token  string `json:"token"`
	Mode   string `json:"mode"`
	Label  string `json:"label"`
	Value  int    `json:"value"`
	Active bool   `json:"active"`
}

// ModesResponse is the body of GET /api/v1/modes.
type ModesResponse struct {
	Modes []ModeInfo `json:"modes"`
}

// SetModeRequest is the body of PUT /api/v1/mode.
type SetModeRequest struct {
	Token string `json:"token"`
}

func newModeInfo(b control.Binding, current filter.Mode) ModeInfo {
	return ModeInfo{
		Token:  b.Token,
		Mode:   b.Mode.Name(),
		Label:  b.Mode.Label(),
		Value:  int(b.Mode),
		Active: b.Mode == current,
	}
}

func (s *Server) currentModeInfo(m filter.Mode) ModeInfo {
	token, _ := control.TokenFor(m)
	return newModeInfo(control.Binding{Token: token, Mode: m}, m)
}

// handleVersion handles the /version endpoint
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	s.writeJSON(w, r, http.StatusOK, version.GetInfo())
}

// requireController answers 503 when the server was built without a
// controller.
func (s *Server) requireController(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.controller == nil {
			s.writeError(w, r, errors.NewServiceDownError("control"))
			return
		}
		next(w, r)
	}
}

func (s *Server) handleListModes(w http.ResponseWriter, r *http.Request) {
	current := s.controller.Current()
	bindings := control.Bindings()

	resp := ModesResponse{Modes: make([]ModeInfo, 0, len(bindings))}
	for _, b := range bindings {
		resp.Modes = append(resp.Modes, newModeInfo(b, current))
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleGetMode(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.currentModeInfo(s.controller.Current()))
}

// handleSetMode applies a token exactly as if it had arrived on the TCP link.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !stderrors.Is(err, io.EOF) {
		appErr := errors.NewValidationError("request body must be a JSON object").WithCode(errors.CodeMalformedBody)
		appErr.Err = err
		s.writeError(w, r, appErr)
		return
	}

	m, err := s.controller.Apply(r.Context(), control.TransportHTTP, req.Token)
	if err != nil {
		s.writeError(w, r, errors.NewUnrecognizedTokenError(req.Token, err).
			WithDetails(map[string]interface{}{"mode": m.Name()}))
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.currentModeInfo(m))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.errorHandler.HandleError(w, r, err)
}
