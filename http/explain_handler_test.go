package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-advisor/service"
)

func explainBody() []byte {
	return []byte(`{
		"result": {
			"verdict": "lease",
			"confidence": "low",
			"summary": "Leasing is safer based on cash-flow stress for your profile. Leasing is also the cheaper option over your ownership window.",
			"buyTotalCost": 69619.2,
			"leaseTotalCost": 58440,
			"buyMonthlyAllIn": 908.6,
			"leaseMonthlyAllIn": 853.33,
			"buyStressScore": 26.25,
			"leaseStressScore": 26.25,
			"riskFlags": []
		},
		"verbosity": "standard",
		"useAI": false
	}`)
}

func newExplainTestHandler(t *testing.T) *ExplainHandler {
	t.Helper()
	return NewExplainHandler(service.NewExplainerService(""), nil)
}

func TestExplainHandler_Deterministic(t *testing.T) {
	handler := newExplainTestHandler(t)

	w := postJSON(handler.Explain, "/decision/explain", explainBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp service.ExplainResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, service.SourceDeterministic, resp.Source)
	assert.NotEmpty(t, resp.Headline)
	assert.NotEmpty(t, resp.Explanation)
}

func TestExplainHandler_RejectsBadResultShape(t *testing.T) {
	handler := newExplainTestHandler(t)

	var req map[string]any
	require.NoError(t, json.Unmarshal(explainBody(), &req))
	result := req["result"].(map[string]any)
	result["verdict"] = "maybe"
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := postJSON(handler.Explain, "/decision/explain", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "result.verdict", resp.Field)
}

func TestExplainHandler_MethodNotAllowed(t *testing.T) {
	handler := newExplainTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/decision/explain", nil)
	w := httptest.NewRecorder()
	handler.Explain(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
