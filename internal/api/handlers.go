package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mutmap/pkg/cache"
	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/graph"
	"github.com/matzehuels/mutmap/pkg/pipeline"
	"github.com/matzehuels/mutmap/pkg/store"
)

// CreateRequest is the body of POST /v1/graphs.
type CreateRequest struct {
	pipeline.Inputs
	Options *RequestOptions `json:"options,omitempty"`
}

// RequestOptions are the pipeline options a client may set.
type RequestOptions struct {
	ColumnSpacing float64 `json:"columnSpacing,omitempty"`
	RowSpacing    float64 `json:"rowSpacing,omitempty"`
	OverlayStrict bool    `json:"overlayStrict,omitempty"`
}

// CreateResponse is the body returned by POST /v1/graphs.
type CreateResponse struct {
	ID        string         `json:"id,omitempty"`
	GraphHash string         `json:"graphHash"`
	Graph     graph.Document `json:"graph"`
	Mutation  string         `json:"mutation,omitempty"`
	Notices   []string       `json:"notices"`
	Unmatched []string       `json:"unmatched"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidFormat, "decode request: %v", err))
		return
	}

	opts := pipeline.Options{Formats: []string{pipeline.FormatJSON}}
	if o := req.Options; o != nil {
		opts.ColumnSpacing = o.ColumnSpacing
		opts.RowSpacing = o.RowSpacing
		opts.OverlayStrict = o.OverlayStrict
	}

	result, err := s.runner.Execute(r.Context(), req.Inputs, opts)
	if err != nil {
		writeError(w, inputStatus(err), err)
		return
	}

	rec := recordFor(result)
	resp := CreateResponse{
		GraphHash: rec.GraphHash,
		Graph:     rec.Graph,
		Mutation:  rec.Mutation,
		Notices:   nonNil(rec.Notices),
		Unmatched: nonNil(rec.Unmatched),
	}

	if s.store != nil {
		if err := s.store.Save(r.Context(), rec); err != nil {
			s.logger.Error("save graph", "id", rec.ID, "error", err)
			writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "save graph"))
			return
		}
		resp.ID = rec.ID
		s.cacheRecord(r, rec)
	}

	s.logger.Info("built graph",
		"id", resp.ID,
		"nodes", len(rec.Graph.Nodes),
		"links", len(rec.Graph.Links),
		"notices", len(resp.Notices))
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, errors.New(errors.ErrCodeUnsupported, "no graph store configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid graph id %q", id))
		return
	}

	key := s.runner.Keyer.DocumentKey(id)
	if data, hit, err := s.runner.Cache.Get(r.Context(), key); err == nil && hit {
		writeRaw(w, http.StatusOK, data)
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("load graph", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "load graph"))
		return
	}
	data := s.cacheRecord(r, rec)
	if data == nil {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeRaw(w, http.StatusOK, data)
}

// cacheRecord stores the encoded record under its document key and returns
// the encoding, or nil if it could not be encoded.
func (s *Server) cacheRecord(r *http.Request, rec store.Record) []byte {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	key := s.runner.Keyer.DocumentKey(rec.ID)
	if err := s.runner.Cache.Set(r.Context(), key, data, cache.TTLDocument); err != nil {
		s.logger.Debug("document not cached", "id", rec.ID, "error", err)
	}
	return data
}

// recordFor converts a pipeline result into a storable record.
func recordFor(result *pipeline.Result) store.Record {
	rec := store.NewRecord(graph.FromGraph(result.Graph), result.GraphHash)
	rec.Mutation = result.Overlay.Mutation
	rec.Notices = result.Notices()
	rec.Unmatched = result.Overlay.Unmatched
	return rec
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
