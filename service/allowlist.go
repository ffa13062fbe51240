package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"car-advisor/domain"
)

// numberPattern extracts numeric substrings from a narrative: a signed
// integer with optional comma grouping and an optional decimal part.
var numberPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// AllowlistContext carries scenario fields whose numbers are legitimate for a
// narrative to mention alongside the DecisionResult's own figures.
type AllowlistContext struct {
	OwnershipMonths         int
	LeaseTermMonths         int
	MileageAllowancePerYear float64
	EstMilesPerYear         float64
}

// AllowlistCheck is the outcome of validating one narrative. A failed check
// is a structured result, not an error: callers reject the narrative and use
// a safe fallback instead.
type AllowlistCheck struct {
	Allowed   bool
	Offending []string
}

// Allowlist is the set of numeric string tokens a narrative may contain.
type Allowlist struct {
	tokens map[string]bool
}

// BuildAllowlist derives the numeric vocabulary a narrative over this result
// may use. Each numeric field contributes its raw, rounded-integer,
// two-decimal, and zero-decimal renderings.
func BuildAllowlist(result domain.DecisionResult, ctx AllowlistContext) Allowlist {
	al := Allowlist{tokens: make(map[string]bool)}

	al.addNumber(result.BuyTotalCost)
	al.addNumber(result.LeaseTotalCost)
	al.addNumber(result.BuyMonthlyAllIn)
	al.addNumber(result.LeaseMonthlyAllIn)
	al.addNumber(result.BuyStressScore)
	al.addNumber(result.LeaseStressScore)

	if ctx.OwnershipMonths > 0 {
		al.addNumber(float64(ctx.OwnershipMonths))
	}
	if ctx.LeaseTermMonths > 0 {
		al.addNumber(float64(ctx.LeaseTermMonths))
	}
	if ctx.MileageAllowancePerYear > 0 {
		al.addNumber(ctx.MileageAllowancePerYear)
	}
	if ctx.EstMilesPerYear > 0 {
		al.addNumber(ctx.EstMilesPerYear)
	}

	return al
}

func (a Allowlist) addNumber(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	a.tokens[strconv.FormatFloat(v, 'f', -1, 64)] = true
	a.tokens[strconv.FormatFloat(math.Round(v), 'f', -1, 64)] = true
	a.tokens[strconv.FormatFloat(v, 'f', 2, 64)] = true
	a.tokens[strconv.FormatFloat(v, 'f', 0, 64)] = true
}

// Contains reports whether a single token (commas already stripped) is in
// the allowlist.
func (a Allowlist) Contains(token string) bool {
	return a.tokens[token]
}

// Check extracts every numeric token from text and verifies each appears in
// the allowlist after comma stripping. A narrative with no numbers always
// passes.
func (a Allowlist) Check(text string) AllowlistCheck {
	var offending []string
	seen := make(map[string]bool)

	for _, raw := range numberPattern.FindAllString(text, -1) {
		// A number followed by punctuation ("pay 412, then") matches with the
		// comma attached; report the bare number.
		raw = strings.TrimRight(raw, ",")
		token := strings.ReplaceAll(raw, ",", "")
		if a.tokens[token] {
			continue
		}
		if !seen[raw] {
			seen[raw] = true
			offending = append(offending, raw)
		}
	}

	return AllowlistCheck{Allowed: len(offending) == 0, Offending: offending}
}
