package minecraft

import "regexp"

// Rule actions
const (
	ActionAllow    = "allow"
	ActionDisallow = "disallow"
)

// OSRule constrains a rule to an operating system, architecture and/or
// version. Empty fields are unconstrained.
type OSRule struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

// Rule is a conditional gate over a library or argument. A rule with no
// OS or feature constraints always matches.
type Rule struct {
	Action   string          `json:"action"`
	OS       *OSRule         `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// RuleContext is the evaluation environment for rules: the concrete (or
// permissive) platform plus launch feature flags.
type RuleContext struct {
	OSName    string
	OSArch    string
	OSVersion string
	Features  map[string]bool
}

// CurrentContext builds a RuleContext for the running platform
func CurrentContext(features map[string]bool) RuleContext {
	return RuleContext{
		OSName:   CurrentOSName(),
		OSArch:   CurrentOSArch(),
		Features: features,
	}
}

// EvaluateRules computes the conjunction of all rules against a context.
// An empty rule list means "always applies". Pure and safe for concurrent
// use.
func EvaluateRules(rules []Rule, ctx RuleContext) bool {
	for _, rule := range rules {
		if !rule.contribution(ctx) {
			return false
		}
	}
	return true
}

// EvaluateOSRules evaluates only the OS-constrained rules, skipping any rule
// that carries feature constraints. Download-task enumeration uses this
// permissive form so feature-gated entries are still fetched.
func EvaluateOSRules(rules []Rule, ctx RuleContext) bool {
	for _, rule := range rules {
		if len(rule.Features) > 0 {
			continue
		}
		if !rule.contribution(ctx) {
			return false
		}
	}
	return true
}

// contribution returns this rule's term of the overall AND: for an allow
// rule the rule must be satisfied, for a disallow rule it must not be.
func (r Rule) contribution(ctx RuleContext) bool {
	satisfied := r.osMatches(ctx) && r.featuresMatch(ctx)
	if r.Action == ActionDisallow {
		return !satisfied
	}
	return satisfied
}

func (r Rule) osMatches(ctx RuleContext) bool {
	if r.OS == nil {
		return true
	}
	if r.OS.Name != "" && NormalizeOSName(r.OS.Name) != NormalizeOSName(ctx.OSName) {
		return false
	}
	// Architecture tokens compare exactly; no 32/64-bit inference
	if r.OS.Arch != "" && r.OS.Arch != ctx.OSArch {
		return false
	}
	if r.OS.Version != "" {
		// Upstream version constraints are regular expressions (e.g. "^10\\.")
		re, err := regexp.Compile(r.OS.Version)
		if err != nil || !re.MatchString(ctx.OSVersion) {
			return false
		}
	}
	return true
}

func (r Rule) featuresMatch(ctx RuleContext) bool {
	for flag, required := range r.Features {
		if ctx.Features[flag] != required {
			return false
		}
	}
	return true
}
