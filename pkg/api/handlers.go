package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/graphpos/pkg/buildinfo"
	"github.com/matzehuels/graphpos/pkg/errors"
	"github.com/matzehuels/graphpos/pkg/graph"
	"github.com/matzehuels/graphpos/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph   graph.Graph            `json:"graph"`
	Options pipeline.LayoutOptions `json:"options"`
}

// BatchLayoutRequest is the body of POST /v1/layout/batch.
type BatchLayoutRequest struct {
	Graphs  []graph.Graph          `json:"graphs"`
	Options pipeline.LayoutOptions `json:"options"`
}

// BatchLayoutResponse is the response of POST /v1/layout/batch.
type BatchLayoutResponse struct {
	Results []*pipeline.LayoutResult `json:"results"`
}

// SimulateRequest is the body of POST /v1/simulate.
type SimulateRequest struct {
	Graph   graph.Graph              `json:"graph"`
	Options pipeline.SimulateOptions `json:"options"`
}

// StreamRequest is the body of POST /v1/simulate/stream.
type StreamRequest struct {
	Graph   graph.Graph            `json:"graph"`
	Options pipeline.StreamOptions `json:"options"`
}

// StreamLine is one line of the NDJSON stream. Every line carries exactly
// one of the fields; the last line carries Result or Error.
type StreamLine struct {
	Frame  *pipeline.Frame          `json:"frame,omitempty"`
	Result *pipeline.SimulateResult `json:"result,omitempty"`
	Error  *ErrorBody               `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// ErrorResponse wraps ErrorBody.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.Runner.Layout(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLayoutBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchLayoutRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Graphs) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "graphs must not be empty"))
		return
	}
	results, err := s.Runner.LayoutBatch(r.Context(), req.Graphs, req.Options)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchLayoutResponse{Results: results})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.Runner.Simulate(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.logFailure(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleStream writes one JSON object per line and flushes after each.
// Validation failures are reported with a status code; failures after the
// first frame are reported in-band because the status is already sent.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	var req StreamRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Options.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := graph.Validate(req.Graph); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	send := func(line StreamLine) error {
		if err := enc.Encode(line); err != nil {
			return err
		}
		return rc.Flush()
	}

	res, err := s.Runner.Stream(r.Context(), req.Graph, req.Options, func(f pipeline.Frame) error {
		return send(StreamLine{Frame: &f})
	})
	if err != nil {
		s.logFailure(r, err)
		body := errorBody(err)
		_ = send(StreamLine{Error: &body})
		return
	}
	_ = send(StreamLine{Result: res})
}

// decode reads a size-limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidInput, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request: %v", err)
	}
	return nil
}

func (s *Server) logFailure(r *http.Request, err error) {
	if errors.HTTPStatus(err) >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "err", err)
		return
	}
	s.Logger.Debug("request rejected", "path", r.URL.Path, "code", errors.GetCode(err), "err", err)
}

func notFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

func errorBody(err error) ErrorBody {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return ErrorBody{Code: code, Message: errors.UserMessage(err)}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), ErrorResponse{Error: errorBody(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
