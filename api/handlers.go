package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dice-sim/dice-sim/sim"
)

type errorResponse struct {
	Error string `json:"error"`
}

type textRequest struct {
	Text string `json:"text"`
}

type sanitizeResponse struct {
	Text  string `json:"text"`
	State string `json:"state"` // grammar position after the last accepted character
}

type parseResponse struct {
	Canonical string `json:"canonical"`
	Max       int    `json:"max"`
	Dice      int    `json:"dice"`
	Offset    int    `json:"offset"`
}

type simulateRequest struct {
	Dice       string             `json:"dice,omitempty"`
	Decisions  []sim.DecisionSpec `json:"decisions,omitempty"`
	Iterations int                `json:"iterations,omitempty"`
	Parallel   bool               `json:"parallel,omitempty"`
	Workers    int                `json:"workers,omitempty"`
	Seed       int64              `json:"seed,omitempty"`
	Reduction  string             `json:"reduction,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleComparisons(w http.ResponseWriter, _ *http.Request) {
	ops := sim.Comparisons()
	tokens := make([]string, len(ops))
	for i, op := range ops {
		tokens[i] = op.String()
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleSanitize(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	var z sim.Sanitizer
	for _, ch := range req.Text {
		z.Feed(ch)
	}
	writeJSON(w, http.StatusOK, sanitizeResponse{Text: z.String(), State: z.State().String()})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	set := sim.ParseDiceSet(req.Text)
	writeJSON(w, http.StatusOK, parseResponse{
		Canonical: sim.Describe(set),
		Max:       set.Max(),
		Dice:      set.Len(),
		Offset:    set.Offset(),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Iterations == 0 {
		req.Iterations = s.config.DefaultIterations
	}
	if req.Iterations > s.config.MaxIterations {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("iterations must be at most %d, got %d", s.config.MaxIterations, req.Iterations))
		return
	}

	sc := &sim.Scenario{
		Seed:       req.Seed,
		Iterations: req.Iterations,
		Parallel:   req.Parallel,
		Workers:    req.Workers,
		Reduction:  req.Reduction,
		Dice:       req.Dice,
		Decisions:  req.Decisions,
	}
	res, err := sim.Run(sc)
	if errors.Is(err, sim.ErrParallelUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Debugf("simulated %s: %d iterations in %.1fms", res.Expression, res.Iterations, res.ElapsedMs)
	writeJSON(w, http.StatusOK, res)
}
