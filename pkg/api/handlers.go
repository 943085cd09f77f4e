package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/laddergrid/pkg/buildinfo"
	"github.com/matzehuels/laddergrid/pkg/errors"
	"github.com/matzehuels/laddergrid/pkg/ids"
	"github.com/matzehuels/laddergrid/pkg/pipeline"
	"github.com/matzehuels/laddergrid/pkg/program"
)

// ReverseNetwork is one reconstructed network in a reverse response.
// Root is null when the network held no convertible element.
type ReverseNetwork struct {
	Step    int           `json:"step"`
	Comment string        `json:"comment,omitempty"`
	Root    *program.Node `json:"root"`
	Dropped []string      `json:"dropped,omitempty"`
}

// ReverseResponse is the body of a reverse response for a grid document.
type ReverseResponse struct {
	Name     string           `json:"name,omitempty"`
	Networks []ReverseNetwork `json:"networks"`
	GridHash string           `json:"grid_hash"`
	Stats    pipeline.Stats   `json:"stats"`
	CacheHit bool             `json:"cache_hit"`
}

// RoundTripResponse is the body of a round-trip response.
type RoundTripResponse struct {
	Lossless   bool           `json:"lossless"`
	Equivalent []bool         `json:"equivalent"`
	Forward    pipeline.Stats `json:"forward"`
	Reverse    pipeline.Stats `json:"reverse"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	prog, err := program.ReadProgram(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Forward(r.Context(), prog, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleReverse answers a bare snapshot with the tree alone (null for an
// empty network) and a grid document with a ReverseResponse.
func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, bare, err := program.ReadGridInput(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Reverse(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if bare {
		var root *program.Node
		if len(res.Networks) > 0 {
			root = program.FromNode(res.Networks[0].Root)
		}
		writeJSON(w, http.StatusOK, root)
		return
	}

	out := ReverseResponse{
		Name:     res.Name,
		Networks: make([]ReverseNetwork, 0, len(res.Networks)),
		GridHash: res.GridHash,
		Stats:    res.Stats,
		CacheHit: res.CacheHit,
	}
	for _, nw := range res.Networks {
		out.Networks = append(out.Networks, ReverseNetwork{
			Step:    nw.Step,
			Comment: nw.Comment,
			Root:    program.FromNode(nw.Root),
			Dropped: nw.Dropped,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRoundTrip(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	prog, err := program.ReadProgram(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.RoundTrip(r.Context(), prog, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoundTripResponse{
		Lossless:   res.Lossless(),
		Equivalent: res.Equivalent,
		Forward:    res.Forward.Stats,
		Reverse:    res.Reverse.Stats,
	})
}

// options merges query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Logger = nil
	q := r.URL.Query()

	if v := q.Get("ids"); v != "" {
		if !ids.ValidStrategy(v) {
			return opts, errors.New(errors.ErrCodeInvalidInput, "ids: unknown strategy %q", v)
		}
		opts.IDs = v
	}
	if v := q.Get("normalize"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "normalize: %q is not a boolean", v)
		}
		opts.SkipNormalize = !on
	}
	if v := q.Get("refresh"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh: %q is not a boolean", v)
		}
		opts.Refresh = on
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	} else {
		s.logger.Warn("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

// classify maps an error to an HTTP status and an error code.
func classify(err error) (int, errors.Code) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return code.Status(), code
}
