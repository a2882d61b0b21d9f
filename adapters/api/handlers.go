package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tidwall/gjson"

	"gochisq/adapters/stats/evaluators"
	"gochisq/app"
	"gochisq/domain/core"
	"gochisq/internal/errors"
	"gochisq/ports"
)

// powerDivergenceRequest is the body of POST /api/power-divergence
type powerDivergenceRequest struct {
	Table   [][]int            `json:"table"`
	Options evaluators.Options `json:"options"`
}

type errorResponse struct {
	Error *app.ErrorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tests": s.service.ListTests()})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	name, err := core.ParseTestName(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	var req evaluators.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.Test = name

	evaluation, err := s.service.Evaluate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

// handleBatch accepts either a bare array of requests or {"requests": [...]}.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	payload := gjson.ParseBytes(body)
	if !payload.IsArray() {
		payload = payload.Get("requests")
	}
	if !payload.IsArray() {
		s.writeError(w, errors.InvalidInput(`batch body must be an array or an object with a "requests" array`))
		return
	}

	var reqs []evaluators.Request
	if err := json.Unmarshal([]byte(payload.Raw), &reqs); err != nil {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("decode batch: %v", err)))
		return
	}
	// An unnamed request is left as is and fails on its own as NOT_FOUND.
	for i := range reqs {
		if name, err := core.ParseTestName(reqs[i].Test.String()); err == nil {
			reqs[i].Test = name
		}
	}

	entries, err := s.service.EvaluateBatch(r.Context(), reqs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": entries})
}

func (s *Server) handlePowerDivergence(w http.ResponseWriter, r *http.Request) {
	var req powerDivergenceRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	rows, err := s.service.PowerDivergence(r.Context(), req.Table, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"statistics": rows})
}

func (s *Server) handleCriticalValue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	alpha := 0.05
	if raw := q.Get("alpha"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, errors.InvalidInput(fmt.Sprintf("alpha %q is not a number", raw)))
			return
		}
		alpha = v
	}
	df, err := strconv.Atoi(q.Get("df"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(fmt.Sprintf("df %q is not an integer", q.Get("df"))))
		return
	}

	crit, err := s.service.CriticalValue(alpha, df)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alpha":          alpha,
		"df":             df,
		"critical_value": crit,
	})
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := core.ResultID(chi.URLParam(r, "id"))

	evaluation, err := s.service.GetEvaluation(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ports.EvaluationFilters{
		Fingerprint: core.InputHash(q.Get("fingerprint")),
	}
	if raw := q.Get("test"); raw != "" {
		name, err := core.ParseTestName(raw)
		if err != nil {
			s.writeError(w, errors.InvalidInput(err.Error()))
			return
		}
		filters.Test = name
	}
	for param, dst := range map[string]*int{"limit": &filters.Limit, "offset": &filters.Offset} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, errors.InvalidInput(fmt.Sprintf("%s %q is not an integer", param, raw)))
			return
		}
		*dst = v
	}

	evaluations, err := s.service.ListEvaluations(r.Context(), filters)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"evaluations": evaluations})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	mapped := errors.FromDomain(err)
	status := errors.HTTPStatus(mapped)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: &app.ErrorBody{
		Code:    errors.GetCode(mapped),
		Message: mapped.Error(),
	}})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("read body: %v", err))
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.InvalidInput("body is not valid JSON")
	}
	return body, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.InvalidInput(fmt.Sprintf("decode body: %v", err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
