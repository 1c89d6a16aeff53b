package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexiusacademia/rcbeam/internal/compliance"
	"github.com/alexiusacademia/rcbeam/internal/cutting"
	"github.com/alexiusacademia/rcbeam/internal/detailing"
	"github.com/alexiusacademia/rcbeam/internal/optimize"
	"github.com/alexiusacademia/rcbeam/internal/rcerr"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// fail writes an error response. Input errors map to 422, arrangements
// that cannot be found to 409, anything else to 500.
func (s *Server) fail(c *gin.Context, err error) {
	if ie, ok := rcerr.AsInput(err); ok {
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: ie.Msg, Code: ie.Code, Field: ie.Field})
		return
	}
	if errors.Is(err, detailing.ErrNoArrangement) {
		c.JSON(http.StatusConflict, errorBody{Error: err.Error()})
		return
	}
	s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, errorBody{Error: err.Error()})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
}

func (s *Server) observe(v compliance.Verdict) {
	if v.State != compliance.Governed {
		return
	}
	s.metrics.VerdictsTotal.WithLabelValues(string(v.Status)).Inc()
	s.metrics.Utilization.Observe(v.Utilization)
}

func (s *Server) evaluate(c *gin.Context) {
	var req compliance.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	v, err := s.Engine.Evaluate(req)
	if err != nil {
		// Rejected verdicts carry the input error
		c.JSON(http.StatusUnprocessableEntity, v)
		return
	}
	s.observe(v)
	c.JSON(http.StatusOK, v)
}

type batchRequest struct {
	Beams   []compliance.Request `json:"beams"`
	Workers int                  `json:"workers,omitempty"`
}

type batchResponse struct {
	Results []compliance.BatchResult `json:"results"`
	Counts  map[string]int           `json:"counts"`
}

func (s *Server) batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Beams) == 0 || len(req.Beams) > MaxBatchSize {
		c.JSON(http.StatusBadRequest, errorBody{Error: "batch must hold between 1 and 1000 beams"})
		return
	}

	workers := s.Workers
	if req.Workers > 0 && (workers <= 0 || req.Workers < workers) {
		workers = req.Workers
	}
	results, err := s.Engine.EvaluateBatch(c.Request.Context(), req.Beams, workers)
	if err != nil {
		s.fail(c, err)
		return
	}

	counts := map[string]int{}
	for _, r := range results {
		if r.Verdict == nil {
			counts[string(compliance.Rejected)]++
			continue
		}
		s.observe(*r.Verdict)
		counts[string(r.Verdict.Status)]++
	}
	c.JSON(http.StatusOK, batchResponse{Results: results, Counts: counts})
}

type optimizeRequest struct {
	optimize.Request
	Top int `json:"top,omitempty"` // candidates returned, 0 for all
}

func (s *Server) optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	cands, err := s.Optimizer.Optimize(c.Request.Context(), req.Request)
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.Top > 0 && req.Top < len(cands) {
		cands = cands[:req.Top]
	}
	c.JSON(http.StatusOK, gin.H{"candidates": cands})
}

func (s *Server) sensitivity(c *gin.Context) {
	var req compliance.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	res, err := s.Analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type cutlistRequest struct {
	optimize.Request
	Stock *cutting.Options `json:"stock,omitempty"`
}

// cutlist selects the best arrangement for the request and plans its
// bar bending schedule.
func (s *Server) cutlist(c *gin.Context) {
	var req cutlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	opts := s.Cutting
	if req.Stock != nil {
		opts = *req.Stock
	}
	if err := opts.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: rcerr.CodeInvalidField, Field: "stock"})
		return
	}

	best, err := s.Optimizer.Best(c.Request.Context(), req.Request)
	if err != nil {
		s.fail(c, err)
		return
	}
	det := detailing.New(req.Geometry, req.Grades, s.Optimizer.Tables, s.Optimizer.Detailing)
	list, err := cutting.ForBeam(det, best.Arrangement, nil, req.Span, opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"arrangement": best.Arrangement, "schedule": list})
}
