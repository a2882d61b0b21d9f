package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gochisq/adapters/memory"
	"gochisq/adapters/stats/evaluators"
	"gochisq/app"
	"gochisq/internal"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	svc := app.NewEvaluationService(evaluators.NewEngine(evaluators.DefaultEngineConfig()), memory.NewInMemoryLedgerAdapter(), logger, app.DefaultServiceConfig())
	srv := httptest.NewServer(NewServer(svc, logger, Config{Port: "0"}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestListTests(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/api/tests", "")
	require.Equal(t, http.StatusOK, status)
	tests := body["tests"].([]interface{})
	require.Len(t, tests, 4)
	assert.Equal(t, "fisher_exact", tests[0].(map[string]interface{})["name"])
}

func TestEvaluate_Independence(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/api/tests/independence",
		`{"table": [[13,15],[30,13],[44,65]]}`)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "independence", body["test"])
	assert.Equal(t, true, body["significant"])
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["fingerprint"])

	result := body["result"].(map[string]interface{})
	assert.InDelta(t, 10.7216, result["statistic"], 1e-3)
	assert.Equal(t, float64(2), result["df"])
	assert.InDelta(t, 0.2441, result["effect_size"], 1e-3)
}

func TestEvaluate_FisherOmitsStatistic(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/api/tests/Fisher_Exact",
		`{"table": [[3,3],[10,0]], "options": {"alternative": "less"}}`)
	require.Equal(t, http.StatusOK, status)

	result := body["result"].(map[string]interface{})
	assert.InDelta(t, 0.0357, result["p_value"], 1e-3)
	_, hasStatistic := result["statistic"]
	assert.False(t, hasStatistic)
	_, hasDF := result["df"]
	assert.False(t, hasDF)
}

func TestEvaluate_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"negative count", "/api/tests/independence", `{"table": [[1,-2],[3,4]]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad json", "/api/tests/independence", `{"table": [[1,2]`, http.StatusBadRequest, "INVALID_INPUT"},
		{"zero margin", "/api/tests/independence", `{"table": [[0,0],[3,4]]}`, http.StatusUnprocessableEntity, "DEGENERATE_COMPUTATION"},
		{"no discordant pairs", "/api/tests/mcnemar", `{"table": [[7,0],[0,9]]}`, http.StatusUnprocessableEntity, "DEGENERATE_COMPUTATION"},
		{"unknown test", "/api/tests/anova", `{"table": [[1,2],[3,4]]}`, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doJSON(t, http.MethodPost, srv.URL+tc.path, tc.body)
			assert.Equal(t, tc.status, status)
			errBody := body["error"].(map[string]interface{})
			assert.Equal(t, tc.code, errBody["code"])
			assert.NotEmpty(t, errBody["message"])
		})
	}
}

func TestBatch(t *testing.T) {
	srv := newTestServer(t)

	payload := `[
		{"test": "goodness_of_fit", "observed": [64,51,50,35]},
		{"test": "mcnemar", "table": [[4,0],[0,6]]},
		{"table": [[1,2],[3,4]]}
	]`
	for _, body := range []string{payload, `{"requests": ` + payload + `}`} {
		status, out := doJSON(t, http.MethodPost, srv.URL+"/api/batch", body)
		require.Equal(t, http.StatusOK, status)

		results := out["results"].([]interface{})
		require.Len(t, results, 3)

		first := results[0].(map[string]interface{})
		evaluation := first["evaluation"].(map[string]interface{})
		assert.InDelta(t, 8.44, evaluation["result"].(map[string]interface{})["statistic"], 1e-6)

		second := results[1].(map[string]interface{})
		assert.Equal(t, "DEGENERATE_COMPUTATION", second["error"].(map[string]interface{})["code"])

		third := results[2].(map[string]interface{})
		assert.Equal(t, "NOT_FOUND", third["error"].(map[string]interface{})["code"])
	}

	status, out := doJSON(t, http.MethodPost, srv.URL+"/api/batch", `{"test": "mcnemar"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", out["error"].(map[string]interface{})["code"])
}

func TestPowerDivergence(t *testing.T) {
	srv := newTestServer(t)

	status, out := doJSON(t, http.MethodPost, srv.URL+"/api/power-divergence",
		`{"table": [[13,15],[30,13],[44,65]]}`)
	require.Equal(t, http.StatusOK, status)

	stats := out["statistics"].([]interface{})
	require.Len(t, stats, 6)
	gTest := stats[2].(map[string]interface{})
	assert.Equal(t, "log-likelihood", gTest["lambda"].(map[string]interface{})["name"])
	assert.InDelta(t, 10.9222, gTest["result"].(map[string]interface{})["statistic"], 1e-3)
}

func TestCriticalValue(t *testing.T) {
	srv := newTestServer(t)

	status, out := doJSON(t, http.MethodGet, srv.URL+"/api/critical-value?alpha=0.05&df=3", "")
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 7.8147, out["critical_value"], 1e-3)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/critical-value?df=x", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/critical-value?alpha=2&df=1", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEvaluations(t *testing.T) {
	srv := newTestServer(t)

	status, created := doJSON(t, http.MethodPost, srv.URL+"/api/tests/mcnemar", `{"table": [[5,5],[25,65]]}`)
	require.Equal(t, http.StatusOK, status)
	id := created["id"].(string)

	status, got := doJSON(t, http.MethodGet, srv.URL+"/api/evaluations/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created["fingerprint"], got["fingerprint"])

	status, list := doJSON(t, http.MethodGet, srv.URL+"/api/evaluations?test=mcnemar&limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list["evaluations"].([]interface{}), 1)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/evaluations/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/evaluations?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = doJSON(t, http.MethodGet, srv.URL+"/api/evaluations?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEvaluate_Pairs(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, http.MethodPost, srv.URL+"/api/tests/mcnemar", `{
		"pairs": {
			"rows": ["pass","pass","fail","fail","fail","pass"],
			"cols": ["pass","fail","pass","pass","fail","pass"]
		},
		"options": {"correction": false}
	}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{"fail", "pass"}, body["row_labels"])

	// [[fail,fail]=1, [fail,pass]=2; [pass,fail]=1, [pass,pass]=2]: b=2, c=1
	result := body["result"].(map[string]interface{})
	assert.InDelta(t, 1.0/3.0, result["statistic"], 1e-9)
}
