package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wayfinder/wayfinder/pkg/astar"
	"github.com/wayfinder/wayfinder/pkg/buildinfo"
	"github.com/wayfinder/wayfinder/pkg/cache"
	"github.com/wayfinder/wayfinder/pkg/codec"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/graph"
	"github.com/wayfinder/wayfinder/pkg/store"
)

// ============================================================================
// Responses
// ============================================================================

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type nodeJSON struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type edgeJSON struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Weight float64 `json:"weight"`
}

type graphResponse struct {
	Version  uint64     `json:"version"`
	MaxNodes int        `json:"max_nodes"`
	Nodes    []nodeJSON `json:"nodes"`
	Edges    []edgeJSON `json:"edges"`
}

type pathResponse struct {
	Path   []int     `json:"path"`
	Names  []string  `json:"names"`
	Cost   float64   `json:"cost"`
	Cached bool      `json:"cached"`
	Stats  statsJSON `json:"stats"`
}

type statsJSON struct {
	Expanded   int     `json:"expanded"`
	OpenPeak   int     `json:"open_peak"`
	DurationMS float64 `json:"duration_ms"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to an HTTP status and a coded JSON body.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		switch {
		case errors.Is(err, graph.ErrCapacity):
			code = apperrors.ErrCodeCapacityExceeded
		case errors.Is(err, graph.ErrNodeNotFound), errors.Is(err, astar.ErrInvalidNode):
			code = apperrors.ErrCodeNodeNotFound
		case errors.Is(err, graph.ErrEdgeExists):
			code = apperrors.ErrCodeEdgeExists
		case errors.Is(err, graph.ErrNegativeWeight):
			code = apperrors.ErrCodeInvalidWeight
		case errors.Is(err, astar.ErrUnknownHeuristic):
			code = apperrors.ErrCodeInvalidHeuristic
		case errors.Is(err, store.ErrNotFound):
			code = apperrors.ErrCodeMapNotFound
		case errors.Is(err, codec.ErrFormat), errors.Is(err, codec.ErrTooLarge):
			code = apperrors.ErrCodeFormat
		default:
			code = apperrors.ErrCodeInternal
		}
	}
	writeJSON(w, statusFor(code), errorResponse{Error: errorBody{
		Code:    code,
		Message: apperrors.UserMessage(err),
	}})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeNodeNotFound, apperrors.ErrCodeEdgeNotFound,
		apperrors.ErrCodeMapNotFound, apperrors.ErrCodeNoPath:
		return http.StatusNotFound
	case apperrors.ErrCodeCapacityExceeded, apperrors.ErrCodeEdgeExists:
		return http.StatusConflict
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidNode,
		apperrors.ErrCodeInvalidHeuristic, apperrors.ErrCodeInvalidWeight:
		return http.StatusBadRequest
	case apperrors.ErrCodeFormat:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed request body"))
		return false
	}
	return true
}

// ============================================================================
// Health & Graph
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := graphResponse{
		Version:  s.graph.Version(),
		MaxNodes: s.graph.MaxNodes(),
		Nodes:    []nodeJSON{},
		Edges:    []edgeJSON{},
	}
	for _, n := range s.graph.Nodes() {
		resp.Nodes = append(resp.Nodes, nodeJSON{ID: n.ID, Name: n.Name, X: n.Pos.X(), Y: n.Pos.Y()})
		for _, e := range s.graph.OutEdges(n.ID) {
			if s.graph.Active(e.To) {
				resp.Edges = append(resp.Edges, edgeJSON{From: e.From, To: e.To, Weight: e.Weight})
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================================
// Map editing
// ============================================================================

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string  `json:"name"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "node name must not be empty"))
		return
	}

	s.mu.Lock()
	id, err := s.graph.AddNode(req.Name, req.X, req.Y)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "node id must be numeric"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graph.Active(id) {
		writeError(w, apperrors.New(apperrors.ErrCodeNodeNotFound, "no active node %d", id))
		return
	}
	s.graph.RemoveNode(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From          int     `json:"from"`
		To            int     `json:"to"`
		Weight        float64 `json:"weight"`
		Bidirectional bool    `json:"bidirectional"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	var err error
	if req.Bidirectional {
		err = s.graph.AddBidirectional(req.From, req.To, req.Weight)
	} else {
		err = s.graph.AddEdge(req.From, req.To, req.Weight)
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	from, err1 := strconv.Atoi(chi.URLParam(r, "from"))
	to, err2 := strconv.Atoi(chi.URLParam(r, "to"))
	if err1 != nil || err2 != nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "edge endpoints must be numeric"))
		return
	}

	s.mu.Lock()
	removed := s.graph.RemoveEdge(from, to)
	s.mu.Unlock()
	if !removed {
		writeError(w, apperrors.New(apperrors.ErrCodeEdgeNotFound, "no active edge %d->%d", from, to))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Pathfinding
// ============================================================================

func (s *Server) handleFindPath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start     string  `json:"start"`
		Goal      string  `json:"goal"`
		Heuristic string  `json:"heuristic"`
		Weight    float64 `json:"weight"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Heuristic == "" {
		req.Heuristic = s.cfg.Search.Heuristic
	}
	if req.Weight == 0 {
		req.Weight = s.cfg.Search.Weight
	}

	heuristic, err := astar.ParseHeuristic(req.Heuristic)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Weight < 0 {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidWeight, "heuristic weight must not be negative"))
		return
	}

	ctx := r.Context()

	s.mu.RLock()
	defer s.mu.RUnlock()

	start, err := s.graph.Resolve(req.Start)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeNodeNotFound, err, "unknown start %q", req.Start))
		return
	}
	goal, err := s.graph.Resolve(req.Goal)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeNodeNotFound, err, "unknown goal %q", req.Goal))
		return
	}

	key := cache.Key("path", s.graph.Version(), start, goal, heuristic.String(), req.Weight)
	if data, ok, _ := s.cache.Get(ctx, key); ok {
		var resp pathResponse
		if json.Unmarshal(data, &resp) == nil {
			resp.Cached = true
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}

	result, stats, err := astar.FindPath(ctx, s.graph, start, goal,
		astar.Config{Heuristic: heuristic, Weight: req.Weight})
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Found {
		writeError(w, apperrors.New(apperrors.ErrCodeNoPath, "no route from %q to %q", req.Start, req.Goal))
		return
	}

	resp := pathResponse{
		Path: result.Path,
		Cost: result.TotalCost,
		Stats: statsJSON{
			Expanded:   stats.Expanded,
			OpenPeak:   stats.OpenPeak,
			DurationMS: float64(stats.Duration) / float64(time.Millisecond),
		},
	}
	for _, id := range result.Path {
		n, _ := s.graph.Node(id)
		resp.Names = append(resp.Names, n.Name)
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cfg.Cache.TTL.Duration())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 64
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start, err := s.graph.Resolve(q.Get("start"))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeNodeNotFound, err, "unknown start %q", q.Get("start")))
		return
	}
	goal, err := s.graph.Resolve(q.Get("goal"))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeNodeNotFound, err, "unknown goal %q", q.Get("goal")))
		return
	}

	order, err := astar.ExplorationOrder(s.graph, start, goal, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

// ============================================================================
// Persistence
// ============================================================================

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if s.store == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInternal, "no map store configured"))
		return
	}

	s.mu.RLock()
	err := s.store.Save(r.Context(), req.Key, s.graph)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeIO, err, "saving map %q", req.Key))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": req.Key})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if s.store == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInternal, "no map store configured"))
		return
	}

	// Decode outside the lock; the live graph is only swapped after the
	// whole map validated.
	g, err := s.store.Load(r.Context(), req.Key, graph.WithMaxNodes(s.cfg.Graph.MaxNodes))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.graph = g
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"key":   req.Key,
		"nodes": g.NodeCount(),
	})
}
