package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"car-advisor/domain"
	"car-advisor/repository"
)

// DecisionService evaluates a user profile against a buy and a lease
// scenario and produces a single explainable recommendation. Evaluation is a
// pure function of its inputs; the repository and cache only record and
// memoize results.
type DecisionService struct {
	repo     repository.DecisionRepository
	cache    repository.CacheRepository
	policy   Policy
	logger   *slog.Logger
	cacheTTL time.Duration
}

// Option configures the DecisionService.
type Option func(*DecisionService)

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *DecisionService) { s.logger = l }
}

// WithPolicy overrides the default decision policy.
func WithPolicy(p Policy) Option {
	return func(s *DecisionService) { s.policy = p }
}

// WithCache enables result memoization through the given cache.
func WithCache(c repository.CacheRepository, ttl time.Duration) Option {
	return func(s *DecisionService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewDecisionService creates a DecisionService with the default policy.
func NewDecisionService(repo repository.DecisionRepository, opts ...Option) *DecisionService {
	s := &DecisionService{
		repo:   repo,
		policy: DefaultPolicy(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs the full decision pipeline: validate, cost both scenarios
// over the ownership horizon, score baseline and shocked stress, apply the
// verdict and confidence policy, and assemble the result.
func (s *DecisionService) Evaluate(
	user domain.UserProfile,
	buy domain.BuyScenario,
	lease domain.LeaseScenario,
) (domain.DecisionResult, error) {

	if err := validateUser(user); err != nil {
		return domain.DecisionResult{}, err
	}
	if err := validateBuy(buy); err != nil {
		return domain.DecisionResult{}, err
	}
	if err := validateLease(lease); err != nil {
		return domain.DecisionResult{}, err
	}

	cacheKey := s.cacheKey(user, buy, lease)
	if cached, ok := s.lookupCache(cacheKey); ok {
		return cached, nil
	}

	// Both scenarios are compared over the window the user intends to keep a
	// vehicle, not over their own term lengths, so the totals are directly
	// comparable.
	horizon := float64(buy.OwnershipMonths)

	buyPrincipal := math.Max(0, buy.VehiclePrice-buy.DownPayment)
	buyMonthlyPayment, err := MonthlyPaymentFromLoan(buyPrincipal, buy.APRPercent, buy.TermMonths)
	if err != nil {
		return domain.DecisionResult{}, err
	}

	buyRunning := buy.EstMonthlyInsurance + buy.EstMonthlyMaintenance
	buyMonthlyAllIn := buyMonthlyPayment + buyRunning
	// Keeps charging the loan payment past payoff when the horizon outruns
	// the loan term. Preserved product behavior; see DESIGN.md.
	buyTotalCost := buy.DownPayment + buyMonthlyPayment*horizon + buyRunning*horizon

	excessMilesPerMonth := math.Max(0, lease.EstMilesPerYear/12-lease.MileageAllowancePerYear/12)
	excessMileageCostTotal := excessMilesPerMonth * horizon * lease.EstExcessMileFee
	excessMileageCostMonthly := excessMileageCostTotal / horizon

	// Due-at-signing amortizes over the lease's own term so short horizons
	// don't underweight the upfront cash.
	dueAtSigningMonthly := lease.DueAtSigning / float64(lease.TermMonths)

	leaseRunning := lease.EstMonthlyInsurance + lease.EstMonthlyMaintenance
	leaseMonthlyAllIn := lease.MonthlyPayment + dueAtSigningMonthly + leaseRunning + excessMileageCostMonthly

	var leaseBuyoutCost float64
	if lease.LeaseEndPlan == domain.LeaseEndBuyout && buy.OwnershipMonths >= lease.TermMonths {
		leaseBuyoutCost = lease.EstBuyoutPrice
	}
	leaseTotalCost := lease.DueAtSigning + lease.MonthlyPayment*horizon +
		leaseRunning*horizon + excessMileageCostTotal + leaseBuyoutCost

	buyInput := StressInput{
		MonthlyNetIncome:     user.MonthlyNetIncome,
		MonthlyFixedExpenses: user.MonthlyFixedExpenses,
		MonthlyCarAllIn:      buyMonthlyAllIn,
		RiskTolerance:        user.RiskTolerance,
	}
	leaseInput := buyInput
	leaseInput.MonthlyCarAllIn = leaseMonthlyAllIn

	buyStress, err := ScoreMonthlyStress(buyInput, s.policy)
	if err != nil {
		return domain.DecisionResult{}, err
	}
	leaseStress, err := ScoreMonthlyStress(leaseInput, s.policy)
	if err != nil {
		return domain.DecisionResult{}, err
	}
	buyShocked, err := SimulateIncomeShock(buyInput, s.policy.IncomeShockPercent, s.policy)
	if err != nil {
		return domain.DecisionResult{}, err
	}
	leaseShocked, err := SimulateIncomeShock(leaseInput, s.policy.IncomeShockPercent, s.policy)
	if err != nil {
		return domain.DecisionResult{}, err
	}

	stressGap := buyStress.StressScore - leaseStress.StressScore
	absStressGap := math.Abs(stressGap)
	shockGap := buyShocked.StressScore - leaseShocked.StressScore
	absShockGap := math.Abs(shockGap)

	verdict := s.pickVerdict(stressGap, absStressGap, buyTotalCost, leaseTotalCost)
	confidence := s.gradeConfidence(absStressGap, absShockGap, buyShocked, leaseShocked)
	summary := s.buildSummary(verdict, absStressGap, buyTotalCost, leaseTotalCost)

	flags := s.assembleRiskFlags(buyStress, leaseStress, user, buy, lease, shockGap, absShockGap)

	result := domain.DecisionResult{
		Verdict:           verdict,
		Confidence:        confidence,
		Summary:           summary,
		BuyTotalCost:      clampMoney(roundTo2Decimals(buyTotalCost)),
		LeaseTotalCost:    clampMoney(roundTo2Decimals(leaseTotalCost)),
		BuyMonthlyAllIn:   clampMoney(roundTo2Decimals(buyMonthlyAllIn)),
		LeaseMonthlyAllIn: clampMoney(roundTo2Decimals(leaseMonthlyAllIn)),
		BuyStressScore:    clamp(buyStress.StressScore, 0, 100),
		LeaseStressScore:  clamp(leaseStress.StressScore, 0, 100),
		RiskFlags:         flags,
	}

	s.storeCache(cacheKey, result)

	if s.repo != nil {
		rec := repository.EvaluationRecord{
			User:        user,
			Buy:         buy,
			Lease:       lease,
			Result:      result,
			EvaluatedAt: time.Now().UTC(),
		}
		if err := s.repo.Save(rec); err != nil {
			s.logger.Warn("failed to save evaluation", "error", err)
		}
	}

	return result, nil
}

// pickVerdict prefers the lower-stress option when the gap is decisive,
// otherwise the cheaper one. Buy wins an exact cost tie.
func (s *DecisionService) pickVerdict(stressGap, absStressGap, buyTotal, leaseTotal float64) domain.Verdict {
	if absStressGap >= s.policy.VerdictStressGap {
		if stressGap < 0 {
			return domain.VerdictBuy
		}
		return domain.VerdictLease
	}
	if buyTotal <= leaseTotal {
		return domain.VerdictBuy
	}
	return domain.VerdictLease
}

func (s *DecisionService) gradeConfidence(
	absStressGap, absShockGap float64,
	buyShocked, leaseShocked domain.StressBreakdown,
) domain.Confidence {
	buyNegCash := hasNegativeCashFlag(buyShocked.Flags)
	leaseNegCash := hasNegativeCashFlag(leaseShocked.Flags)

	switch {
	case absStressGap >= s.policy.HighConfidenceGap,
		absShockGap >= s.policy.HighConfidenceGap,
		buyNegCash != leaseNegCash:
		return domain.ConfidenceHigh
	case absStressGap >= s.policy.VerdictStressGap,
		absShockGap >= s.policy.VerdictStressGap:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func (s *DecisionService) buildSummary(verdict domain.Verdict, absStressGap, buyTotal, leaseTotal float64) string {
	side := "Buying"
	if verdict == domain.VerdictLease {
		side = "Leasing"
	}
	first := fmt.Sprintf("%s is safer based on cash-flow stress for your profile.", side)

	var second string
	if absStressGap >= s.policy.VerdictStressGap {
		second = fmt.Sprintf("Its stress score is %.0f points lower than the alternative.", absStressGap)
	} else {
		cheaper := "Buying"
		if buyTotal > leaseTotal {
			cheaper = "Leasing"
		}
		second = fmt.Sprintf("%s is also the cheaper option over your ownership window.", cheaper)
	}
	return first + " " + second
}

// assembleRiskFlags concatenates prefixed stress flags, savings-impact flags,
// and the shock-divergence flag, then dedupes by exact string and caps the
// list.
func (s *DecisionService) assembleRiskFlags(
	buyStress, leaseStress domain.StressBreakdown,
	user domain.UserProfile,
	buy domain.BuyScenario,
	lease domain.LeaseScenario,
	shockGap, absShockGap float64,
) []string {
	flags := make([]string, 0, len(buyStress.Flags)+len(leaseStress.Flags)+4)
	for _, f := range buyStress.Flags {
		flags = append(flags, "Buy: "+f)
	}
	for _, f := range leaseStress.Flags {
		flags = append(flags, "Lease: "+f)
	}

	flags = append(flags, s.savingsFlags(user, buy, lease)...)

	if absShockGap >= s.policy.VerdictStressGap {
		side := "buying"
		if shockGap > 0 {
			side = "leasing"
		}
		flags = append(flags, fmt.Sprintf(
			"Under a %.0f%% income drop, %s holds up better by %.0f points",
			s.policy.IncomeShockPercent, side, absShockGap))
	}

	flags = dedupeStrings(flags)
	if len(flags) > s.policy.MaxRiskFlags {
		flags = flags[:s.policy.MaxRiskFlags]
	}
	return flags
}

// savingsFlags checks what each upfront payment does to the user's savings,
// measured in months of fixed-expense buffer left behind.
func (s *DecisionService) savingsFlags(
	user domain.UserProfile,
	buy domain.BuyScenario,
	lease domain.LeaseScenario,
) []string {
	var flags []string

	check := func(remaining float64, label string) {
		if remaining < 0 {
			flags = append(flags, fmt.Sprintf("%s would leave your savings negative", label))
			return
		}
		bufferMonths := math.Inf(1)
		if user.MonthlyFixedExpenses > 0 {
			bufferMonths = remaining / user.MonthlyFixedExpenses
		}
		if bufferMonths < s.policy.SavingsBufferMonthsMin {
			flags = append(flags, fmt.Sprintf(
				"%s leaves less than %.0f months of expenses in savings",
				label, s.policy.SavingsBufferMonthsMin))
		}
	}

	check(user.CurrentSavings-buy.DownPayment, "Down payment")
	check(user.CurrentSavings-lease.DueAtSigning, "Due at signing")
	return flags
}

func hasNegativeCashFlag(flags []string) bool {
	for _, f := range flags {
		if strings.Contains(strings.ToLower(f), "negative monthly cash flow") {
			return true
		}
	}
	return false
}

func (s *DecisionService) cacheKey(
	user domain.UserProfile,
	buy domain.BuyScenario,
	lease domain.LeaseScenario,
) string {
	raw, err := json.Marshal(struct {
		User  domain.UserProfile
		Buy   domain.BuyScenario
		Lease domain.LeaseScenario
	}{user, buy, lease})
	if err != nil {
		return ""
	}
	return fmt.Sprintf("decision:%016x", xxhash.Sum64(raw))
}

func (s *DecisionService) lookupCache(key string) (domain.DecisionResult, bool) {
	if s.cache == nil || key == "" {
		return domain.DecisionResult{}, false
	}
	raw, ok := s.cache.Get(key)
	if !ok {
		return domain.DecisionResult{}, false
	}
	var result domain.DecisionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.logger.Warn("dropping malformed cache entry", "key", key, "error", err)
		return domain.DecisionResult{}, false
	}
	return result, true
}

func (s *DecisionService) storeCache(key string, result domain.DecisionResult) {
	if s.cache == nil || key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache decision", "key", key, "error", err)
	}
}
