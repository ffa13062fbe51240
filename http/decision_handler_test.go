package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-advisor/domain"
	"car-advisor/repository"
	"car-advisor/service"
)

func newEvaluateHandler(t *testing.T) *DecisionHandler {
	t.Helper()
	repo := repository.NewDecisionRepositoryMemory()
	svc := service.NewDecisionService(repo)
	return NewDecisionHandler(svc, nil)
}

func evaluateBody() []byte {
	return []byte(`{
		"user": {
			"monthlyNetIncome": 6500,
			"monthlyFixedExpenses": 3800,
			"currentSavings": 12000,
			"creditScoreBand": "680_739",
			"riskTolerance": "medium"
		},
		"buy": {
			"vehiclePrice": 42000,
			"downPayment": 4200,
			"aprPercent": 7.5,
			"termMonths": 72,
			"estMonthlyInsurance": 180,
			"estMonthlyMaintenance": 75,
			"ownershipMonths": 72
		},
		"lease": {
			"msrp": 42000,
			"monthlyPayment": 550,
			"dueAtSigning": 3000,
			"termMonths": 36,
			"mileageAllowancePerYear": 12000,
			"estMilesPerYear": 12000,
			"estExcessMileFee": 0.25,
			"estMonthlyInsurance": 180,
			"estMonthlyMaintenance": 40,
			"leaseEndPlan": "return"
		}
	}`)
}

func postJSON(handler http.HandlerFunc, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestEvaluateHandler_OK(t *testing.T) {
	handler := newEvaluateHandler(t)

	w := postJSON(handler.Evaluate, "/decision/evaluate", evaluateBody())
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.DecisionResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, domain.VerdictLease, result.Verdict)
	assert.True(t, result.Confidence.Valid())
	assert.NotEmpty(t, result.Summary)
}

func TestEvaluateHandler_MethodNotAllowed(t *testing.T) {
	handler := newEvaluateHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/decision/evaluate", nil)
	w := httptest.NewRecorder()
	handler.Evaluate(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestEvaluateHandler_RequiresJSONContentType(t *testing.T) {
	handler := newEvaluateHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/decision/evaluate", bytes.NewBuffer(evaluateBody()))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.Evaluate(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestEvaluateHandler_BadBody(t *testing.T) {
	handler := newEvaluateHandler(t)

	w := postJSON(handler.Evaluate, "/decision/evaluate", []byte(`{invalid-json}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluateHandler_ValidationErrorNamesField(t *testing.T) {
	handler := newEvaluateHandler(t)

	var req EvaluateRequest
	require.NoError(t, json.Unmarshal(evaluateBody(), &req))
	req.Buy.DownPayment = req.Buy.VehiclePrice + 1
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := postJSON(handler.Evaluate, "/decision/evaluate", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "buy.downPayment", resp.Field)
}
