package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"car-advisor/domain"
)

// Verbosity levels for generated explanations. Unknown values fall back to
// standard.
const (
	VerbosityBrief    = "brief"
	VerbosityStandard = "standard"
	VerbosityDetailed = "detailed"
)

const (
	SourceDeterministic = "deterministic"
	SourceAI            = "ai"
)

// aiResponseSchema is the exact shape contract an AI narrative must satisfy:
// the four keys and nothing else, with bounded bullet and caution lists.
const aiResponseSchema = `{
	"type": "object",
	"required": ["headline", "explanation", "bullets", "cautions"],
	"additionalProperties": false,
	"properties": {
		"headline": {"type": "string"},
		"explanation": {"type": "string"},
		"bullets": {"type": "array", "items": {"type": "string"}, "minItems": 3, "maxItems": 5},
		"cautions": {"type": "array", "items": {"type": "string"}, "minItems": 1, "maxItems": 3}
	}
}`

var compiledAISchema = jsonschema.MustCompileString("ai_response.json", aiResponseSchema)

// ExplainRequest asks for a narrative over an already-computed result. Buy
// and Lease widen the numeric allowlist with scenario context when present.
type ExplainRequest struct {
	Result    domain.DecisionResult `json:"result"`
	Buy       *domain.BuyScenario   `json:"buy,omitempty"`
	Lease     *domain.LeaseScenario `json:"lease,omitempty"`
	Verbosity string                `json:"verbosity"`
	UseAI     bool                  `json:"useAI"`
}

// ExplainResponse is what the user reads.
type ExplainResponse struct {
	Headline    string `json:"headline"`
	Explanation string `json:"explanation"`
	Source      string `json:"source"`
}

type aiNarrative struct {
	Headline    string   `json:"headline"`
	Explanation string   `json:"explanation"`
	Bullets     []string `json:"bullets"`
	Cautions    []string `json:"cautions"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// ExplainerService narrates a DecisionResult. The deterministic templates
// are the default; AI narration is layered on top and every AI response is
// validated for shape and for numeric provenance before it reaches the user.
type ExplainerService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
	logger     *slog.Logger
}

// ExplainerOption configures the ExplainerService.
type ExplainerOption func(*ExplainerService)

// WithExplainerLogger sets a structured logger.
func WithExplainerLogger(l *slog.Logger) ExplainerOption {
	return func(s *ExplainerService) { s.logger = l }
}

// WithModel overrides the chat model.
func WithModel(model string) ExplainerOption {
	return func(s *ExplainerService) { s.model = model }
}

// NewExplainerService creates an ExplainerService. AI narration is enabled
// only when an API key is provided.
func NewExplainerService(apiKey string, opts ...ExplainerOption) *ExplainerService {
	s := &ExplainerService{
		apiKey:  apiKey,
		apiURL:  "https://api.openai.com/v1/chat/completions",
		model:   "gpt-4o-mini",
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateResultShape checks a caller-supplied DecisionResult field by
// field: numeric finiteness and enum membership. Risk flag entries arrive as
// strings by construction of the decode.
func ValidateResultShape(result domain.DecisionResult) error {
	if !result.Verdict.Valid() {
		return domain.NewValidationError("result.verdict", "unknown value %q", result.Verdict)
	}
	if !result.Confidence.Valid() {
		return domain.NewValidationError("result.confidence", "unknown value %q", result.Confidence)
	}
	numeric := map[string]float64{
		"result.buyTotalCost":      result.BuyTotalCost,
		"result.leaseTotalCost":    result.LeaseTotalCost,
		"result.buyMonthlyAllIn":   result.BuyMonthlyAllIn,
		"result.leaseMonthlyAllIn": result.LeaseMonthlyAllIn,
		"result.buyStressScore":    result.BuyStressScore,
		"result.leaseStressScore":  result.LeaseStressScore,
	}
	for field, v := range numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.NewValidationError(field, "must be finite")
		}
	}
	return nil
}

// Explain produces a narrative for the result. It falls back to the
// deterministic template whenever AI narration is disabled, fails, returns a
// malformed shape, or mentions a number the result cannot account for.
func (s *ExplainerService) Explain(req ExplainRequest) ExplainResponse {
	verbosity := req.Verbosity
	switch verbosity {
	case VerbosityBrief, VerbosityStandard, VerbosityDetailed:
	default:
		verbosity = VerbosityStandard
	}

	allowlist := BuildAllowlist(req.Result, allowlistContextFrom(req))

	if req.UseAI && s.enabled {
		if resp, ok := s.explainWithAI(req.Result, allowlist); ok {
			return resp
		}
	}

	headline, explanation := s.deterministicExplanation(req.Result, verbosity)
	return ExplainResponse{
		Headline:    headline,
		Explanation: explanation,
		Source:      SourceDeterministic,
	}
}

func allowlistContextFrom(req ExplainRequest) AllowlistContext {
	var ctx AllowlistContext
	if req.Buy != nil {
		ctx.OwnershipMonths = req.Buy.OwnershipMonths
	}
	if req.Lease != nil {
		ctx.LeaseTermMonths = req.Lease.TermMonths
		ctx.MileageAllowancePerYear = req.Lease.MileageAllowancePerYear
		ctx.EstMilesPerYear = req.Lease.EstMilesPerYear
	}
	return ctx
}

func (s *ExplainerService) explainWithAI(result domain.DecisionResult, allowlist Allowlist) (ExplainResponse, bool) {
	raw, err := s.callLLM(s.buildPrompt(result))
	if err != nil {
		s.logger.Warn("ai explanation failed, falling back", "error", err)
		return ExplainResponse{}, false
	}

	narrative, err := parseNarrative(raw)
	if err != nil {
		s.logger.Warn("ai explanation rejected: malformed shape", "error", err)
		return ExplainResponse{}, false
	}

	check := allowlist.Check(narrativeText(narrative))
	if !check.Allowed {
		s.logger.Warn("ai explanation rejected: numbers outside allowlist",
			"offending", check.Offending)
		return ExplainResponse{}, false
	}

	explanation := narrative.Explanation
	if len(narrative.Bullets) > 0 {
		explanation += "\n- " + strings.Join(narrative.Bullets, "\n- ")
	}
	if len(narrative.Cautions) > 0 {
		explanation += "\nKeep in mind: " + strings.Join(narrative.Cautions, " ")
	}

	return ExplainResponse{
		Headline:    narrative.Headline,
		Explanation: explanation,
		Source:      SourceAI,
	}, true
}

// parseNarrative decodes the model output and enforces the shape contract.
func parseNarrative(raw string) (aiNarrative, error) {
	raw = stripCodeFences(raw)

	var shape any
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return aiNarrative{}, fmt.Errorf("not valid JSON: %w", err)
	}
	if err := compiledAISchema.Validate(shape); err != nil {
		return aiNarrative{}, err
	}

	var narrative aiNarrative
	if err := json.Unmarshal([]byte(raw), &narrative); err != nil {
		return aiNarrative{}, err
	}
	return narrative, nil
}

func narrativeText(n aiNarrative) string {
	parts := []string{n.Headline, n.Explanation}
	parts = append(parts, n.Bullets...)
	parts = append(parts, n.Cautions...)
	return strings.Join(parts, "\n")
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}
	return strings.TrimSpace(raw)
}

func (s *ExplainerService) buildPrompt(result domain.DecisionResult) string {
	verdictWord := "buying"
	if result.Verdict == domain.VerdictLease {
		verdictWord = "leasing"
	}

	return fmt.Sprintf(`A car buyer compared financing against leasing. The decision engine recommends %s with %s confidence.

NUMBERS (the only figures you may mention, verbatim):
- Buy total cost over the horizon: %.2f
- Lease total cost over the horizon: %.2f
- Buy monthly all-in cost: %.2f
- Lease monthly all-in cost: %.2f
- Buy stress score (0-100): %.2f
- Lease stress score (0-100): %.2f

Risk flags raised:
%s

Respond with a single JSON object and nothing else, using exactly these keys:
"headline" (string), "explanation" (string), "bullets" (array of 3 to 5 strings), "cautions" (array of 1 to 3 strings).
Do not invent or derive any number that is not listed above.`,
		verdictWord, result.Confidence,
		result.BuyTotalCost, result.LeaseTotalCost,
		result.BuyMonthlyAllIn, result.LeaseMonthlyAllIn,
		result.BuyStressScore, result.LeaseStressScore,
		formatFlags(result.RiskFlags))
}

func formatFlags(flags []string) string {
	if len(flags) == 0 {
		return "- none"
	}
	var b strings.Builder
	for _, f := range flags {
		b.WriteString("- ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ExplainerService) deterministicExplanation(result domain.DecisionResult, verbosity string) (string, string) {
	side := "Buying"
	if result.Verdict == domain.VerdictLease {
		side = "Leasing"
	}
	headline := fmt.Sprintf("%s is the better fit for your budget", side)

	explanation := result.Summary
	if verbosity == VerbosityBrief {
		return headline, explanation
	}

	explanation += fmt.Sprintf(
		" Over your ownership window, buying totals about $%.2f at $%.2f per month all-in, versus $%.2f at $%.2f per month for leasing.",
		result.BuyTotalCost, result.BuyMonthlyAllIn,
		result.LeaseTotalCost, result.LeaseMonthlyAllIn)

	if verbosity == VerbosityDetailed {
		explanation += fmt.Sprintf(
			" Cash-flow stress scores out of 100, lower is calmer: buying %.0f, leasing %.0f.",
			result.BuyStressScore, result.LeaseStressScore)
		if len(result.RiskFlags) > 0 {
			explanation += " Watch-outs: " + strings.Join(result.RiskFlags, "; ") + "."
		}
	}

	return headline, explanation
}

// callLLM posts a chat completion request and returns the raw message text.
func (s *ExplainerService) callLLM(prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{
				Role:    "system",
				Content: "You are a financial advisor explaining a car buy-vs-lease recommendation. You only ever cite figures given to you; you never compute or invent new ones. You always answer with a single JSON object.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 400,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
