package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	config := DefaultConfig()
	config.DefaultIterations = 2_000
	config.MaxIterations = 50_000
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewServer(config, logger).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestComparisons_ListsTokensInOrder(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/comparisons", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens []string
	decodeBody(t, rec, &tokens)
	assert.Equal(t, []string{"<=", ">=", "<", ">", "=="}, tokens)
}

func TestSanitize(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/sanitize", `{"text":"3dd6+x2,a1d4"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sanitizeResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "3d6+2,1d4", resp.Text)
	assert.Equal(t, "sides", resp.State)
}

func TestSanitize_ReportsIncompleteState(t *testing.T) {
	// GIVEN input that stops right after a 'd'
	rec := do(t, newTestServer(t), http.MethodPost, "/api/sanitize", `{"text":"2d"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN the state tells a client the term still needs sides
	var resp sanitizeResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "2d", resp.Text)
	assert.Equal(t, "d", resp.State)
}

func TestParse(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/parse", `{"text":"2d6 and 1d4+1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp parseResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "1d4,2d6+1", resp.Canonical)
	assert.Equal(t, 17, resp.Max)
	assert.Equal(t, 3, resp.Dice)
	assert.Equal(t, 1, resp.Offset)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/parse", `{"txt":"2d6"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulate_DiceUsesDefaultIterations(t *testing.T) {
	// GIVEN a request with no iteration count
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulate", `{"dice":"1d6","seed":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN the configured default is used and the PMF covers [0, max)
	var resp struct {
		Expression string    `json:"expression"`
		Max        int       `json:"max"`
		Iterations int       `json:"iterations"`
		PMF        []float64 `json:"pmf"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "1d6", resp.Expression)
	assert.Equal(t, 2_000, resp.Iterations)
	assert.Len(t, resp.PMF, 6)
	assert.Zero(t, resp.PMF[0])

	total := 0.0
	for _, p := range resp.PMF {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSimulate_DecisionsInParallel(t *testing.T) {
	body := `{"decisions":[{"if":"1d20","op":">=","value":12,"then":"1d8"}],"iterations":4000,"parallel":true,"workers":4,"seed":3}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Expression string    `json:"expression"`
		Workers    int       `json:"workers"`
		PMF        []float64 `json:"pmf"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "if 1d20 >= 12 then 1d8", resp.Expression)
	assert.Equal(t, 4, resp.Workers)
	require.Len(t, resp.PMF, 8)
	// 1d20 draws 1..19, so 8 of 19 trigger outcomes pay out
	assert.InDelta(t, 11.0/19.0, resp.PMF[0], 0.05)
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"too many iterations", `{"dice":"1d6","iterations":50001}`},
		{"no expression", `{"iterations":10}`},
		{"bad operator", `{"decisions":[{"if":"1d20","op":"=>","value":1,"then":"1d4"}]}`},
		{"bad reduction", `{"dice":"1d6","parallel":true,"reduction":"mean"}`},
		{"malformed json", `{"dice":`},
		{"histogram too large", `{"dice":"10000d1000000","iterations":10}`},
		{"histogram too large across workers", `{"dice":"1d1000000","iterations":100,"parallel":true,"workers":64}`},
	}
	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			decodeBody(t, rec, &resp)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimulate_OversizedOffsetIsIgnored(t *testing.T) {
	// GIVEN notation whose offset would overflow the histogram bound
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulate", `{"dice":"1d6+9223372036854775806,1d4","iterations":100}`)

	// THEN the oversized term is dropped and the rest simulates normally
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Expression string `json:"expression"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "1d4", resp.Expression)
}

func TestSimulate_FewerIterationsThanWorkers(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/simulate", `{"dice":"1d6","iterations":2,"parallel":true,"workers":8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Workers int       `json:"workers"`
		PMF     []float64 `json:"pmf"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Workers)
	total := 0.0
	for _, p := range resp.PMF {
		total += p
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
