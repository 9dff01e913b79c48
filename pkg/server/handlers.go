package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	errs "github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/store"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// =============================================================================
// Request Decoding
// =============================================================================

// decode reads a JSON body into v, bounded by the configured size.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errs.New(errs.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return errs.New(errs.ErrCodeInvalidInput, "request body is empty")
		}
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

// decodeDiagram reads a bare diagram body.
func (s *Server) decodeDiagram(w http.ResponseWriter, r *http.Request) (*diagram.StructuredDiagram, error) {
	var d diagram.StructuredDiagram
	if err := s.decode(w, r, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.len(),
	})
}

// =============================================================================
// Validation and Layout
// =============================================================================

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	d, err := s.decodeDiagram(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if correct, _ := strconv.ParseBool(r.URL.Query().Get("correct")); correct {
		writeOK(w, http.StatusOK, validate.ValidateAndCorrect(d))
		return
	}
	res, err := s.runner.Validate(r.Context(), d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, res)
}

// CorrectResponse is returned by POST /api/v1/correct.
type CorrectResponse struct {
	Diagram    *diagram.StructuredDiagram `json:"diagram"`
	Validation validate.Result            `json:"validation"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	d, err := s.decodeDiagram(w, r)
	if err != nil {
		writeErr(w, err)
		return
	}
	fixed := s.runner.Correct(r.Context(), d)
	writeOK(w, http.StatusOK, CorrectResponse{Diagram: fixed, Validation: validate.ValidateDiagram(fixed)})
}

// LayoutRequest is the body of POST /api/v1/layout.
type LayoutRequest struct {
	Diagram *diagram.StructuredDiagram `json:"diagram"`
	Options *pipeline.Options          `json:"options,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.layout
	req := LayoutRequest{Options: &opts}
	if err := s.decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Diagram == nil {
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "diagram is required", nil)
		return
	}
	if req.Options != nil {
		opts = *req.Options
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), req.Diagram, opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	if res.Layout == nil {
		writeErr(w, errs.New(errs.ErrCodeInvalidDiagram, "diagram is invalid").WithDetails(res.Validation))
		return
	}
	writeOK(w, http.StatusOK, res)
}

// =============================================================================
// Stored Diagrams
// =============================================================================

// CreateDiagramRequest is the body of POST /api/v1/diagrams and
// PUT /api/v1/diagrams/{id}.
type CreateDiagramRequest struct {
	Title   string                     `json:"title,omitempty"`
	Diagram *diagram.StructuredDiagram `json:"diagram"`
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	var req CreateDiagramRequest
	if err := s.decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Diagram == nil {
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "diagram is required", nil)
		return
	}
	res, err := s.runner.Validate(r.Context(), req.Diagram)
	if err != nil {
		writeErr(w, err)
		return
	}
	rec := &store.Record{Title: req.Title, Diagram: req.Diagram, Validation: store.Summarize(res)}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("save diagram", "error", err)
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusCreated, rec)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	opts := store.ListOptions{Type: diagram.Type(r.URL.Query().Get("type"))}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "limit must be a non-negative integer", nil)
			return
		}
		opts.Limit = n
	}
	if opts.Type != "" && !opts.Type.Known() {
		writeErr(w, errs.New(errs.ErrCodeInvalidInput, "unknown diagram type %q", opts.Type).WithDetails(diagram.Types()))
		return
	}
	recs, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, recs)
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, rec)
}

// handleReplaceDiagram stores a new version of a diagram. Live sessions
// playing it switch to the new steps.
func (s *Server) handleReplaceDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CreateDiagramRequest
	if err := s.decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Diagram == nil {
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "diagram is required", nil)
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	res, err := s.runner.Validate(r.Context(), req.Diagram)
	if err != nil {
		writeErr(w, err)
		return
	}
	rec.Diagram = req.Diagram
	rec.Validation = store.Summarize(res)
	if req.Title != "" {
		rec.Title = req.Title
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Error("save diagram", "id", id, "error", err)
		writeErr(w, err)
		return
	}
	n := s.sessions.updateSteps(id, req.Diagram.StepConfigs())
	s.logger.Debug("diagram replaced", "id", id, "sessions", n)
	writeOK(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"deleted": id})
}

// =============================================================================
// Playback Sessions
// =============================================================================

// CreateSessionRequest is the body of POST /api/v1/sessions. Exactly one
// of Diagram and DiagramID must be set.
type CreateSessionRequest struct {
	Diagram   *diagram.StructuredDiagram `json:"diagram,omitempty"`
	DiagramID string                     `json:"diagram_id,omitempty"`
	Loop      bool                       `json:"loop,omitempty"`
	Auto      bool                       `json:"auto,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decode(w, r, &req); err != nil {
		writeErr(w, err)
		return
	}
	d := req.Diagram
	switch {
	case d != nil && req.DiagramID != "":
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "set either diagram or diagram_id, not both", nil)
		return
	case req.DiagramID != "":
		rec, err := s.store.Get(r.Context(), req.DiagramID)
		if err != nil {
			writeErr(w, err)
			return
		}
		d = rec.Diagram
	case d == nil:
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "diagram or diagram_id is required", nil)
		return
	}

	cfgs := d.StepConfigs()
	if len(cfgs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, errs.ErrCodeInvalidDiagram, "diagram has no steps", nil)
		return
	}
	sess := s.sessions.create(req.DiagramID, cfgs, req.Loop)
	if req.Auto {
		sess.manager.StartAutoAdvance()
	}
	s.logger.Debug("session created", "id", sess.id, "steps", len(cfgs))
	writeOK(w, http.StatusCreated, s.sessions.view(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, s.sessions.view(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.delete(id); err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	m := sess.manager
	switch action := chi.URLParam(r, "action"); action {
	case "next":
		m.Next()
	case "previous":
		m.Previous()
	case "reset":
		m.Reset()
	case "auto":
		m.ToggleAutoAdvance()
	case "goto":
		step, err := strconv.Atoi(r.URL.Query().Get("step"))
		if err != nil {
			writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "goto needs an integer step parameter", nil)
			return
		}
		if step < 0 || step >= m.State().TotalSteps {
			writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "step out of range", nil)
			return
		}
		m.GoToStep(step)
	default:
		writeError(w, http.StatusBadRequest, errs.ErrCodeInvalidInput, "unknown action "+strconv.Quote(action), nil)
		return
	}
	writeOK(w, http.StatusOK, s.sessions.view(sess))
}
