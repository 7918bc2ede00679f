package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/upstreamer/pkg/buildinfo"
	"github.com/matzehuels/upstreamer/pkg/cache"
	"github.com/matzehuels/upstreamer/pkg/errors"
	upio "github.com/matzehuels/upstreamer/pkg/io"
	"github.com/matzehuels/upstreamer/pkg/pipeline"
	"github.com/matzehuels/upstreamer/pkg/reconcile"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// =============================================================================
// Request and response types
// =============================================================================

// FieldInfo describes one field.
type FieldInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ReconcileRequest is the body of POST /v1/reconcile.
type ReconcileRequest struct {
	Guesses          []upstream.Guess    `json:"guesses"`
	MinimumCertainty *upstream.Certainty `json:"minimum_certainty,omitempty"`
}

// ReconcileResponse is the body returned by POST /v1/reconcile.
type ReconcileResponse struct {
	ID       string              `json:"id"`
	Record   *upstream.Record    `json:"record"`
	Problems []reconcile.Problem `json:"problems,omitempty"`
}

// UpdateRequest is the body of POST /v1/update.
type UpdateRequest struct {
	Record  *upstream.Record `json:"record"`
	Guesses []upstream.Guess `json:"guesses"`
}

// UpdateResponse is the body returned by POST /v1/update.
type UpdateResponse struct {
	ID      string             `json:"id"`
	Record  *upstream.Record   `json:"record"`
	Changes []reconcile.Change `json:"changes"`
}

// ExtractRequest is the body of POST /v1/extract. The response is a
// [pipeline.Result].
type ExtractRequest struct {
	upio.Envelope
	Seed             upstream.Context    `json:"seed,omitzero"`
	Disabled         []string            `json:"disabled,omitempty"`
	MinimumCertainty *upstream.Certainty `json:"minimum_certainty,omitempty"`
	Refresh          bool                `json:"refresh,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	fields := upstream.Fields()
	out := make([]FieldInfo, len(fields))
	for i, f := range fields {
		out[i] = FieldInfo{Name: f.String(), Kind: f.Kind().String()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rec := reconcile.Reconcile(req.Guesses)
	if minimum := s.minimum(req.MinimumCertainty); minimum > upstream.Unknown {
		rec = reconcile.FilterMinimum(rec, minimum)
	}
	s.writeJSON(w, http.StatusOK, ReconcileResponse{
		ID:       uuid.NewString(),
		Record:   rec,
		Problems: reconcile.Check(rec),
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Record == nil {
		req.Record = upstream.NewRecord()
	}
	rec, changes := reconcile.Update(req.Record, req.Guesses)
	if changes == nil {
		changes = []reconcile.Change{}
	}
	s.writeJSON(w, http.StatusOK, UpdateResponse{ID: uuid.NewString(), Record: rec, Changes: changes})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	set, err := req.Set()
	if err != nil {
		s.writeError(w, err)
		return
	}

	runner := pipeline.NewRunner(s.opts.Cache, s.keyer(r), s.logger)
	runner.TTL = s.opts.TTL
	result, err := runner.Run(r.Context(), pipeline.Options{
		Artifacts:        set,
		Seed:             req.Seed,
		Disabled:         append(append([]string(nil), s.opts.Disabled...), req.Disabled...),
		MinimumCertainty: s.minimum(req.MinimumCertainty),
		Refresh:          req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) keyer(r *http.Request) cache.Keyer {
	if s.opts.ClientHeader == "" {
		return nil
	}
	client := strings.TrimSpace(r.Header.Get(s.opts.ClientHeader))
	if client == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, "client:"+client+":")
}

func (s *Server) minimum(requested *upstream.Certainty) upstream.Certainty {
	if requested != nil {
		return *requested
	}
	return s.opts.MinimumCertainty
}

// decode reads a JSON body into v. Coded errors raised while decoding
// (an invalid guess, say) pass through; anything else is invalid input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: errors.UserMessage(err)}})
}

func statusFor(code errors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
