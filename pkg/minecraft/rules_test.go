// Package minecraft implements version definitions and rule evaluation
// This file contains tests for the rule engine
package minecraft

import (
	"testing"

	"github.com/hashicorp/go-hclog"
)

// TestEvaluateRules tests conjunctive rule evaluation
func TestEvaluateRules(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "rules_test",
		Level: hclog.Trace,
	})

	windows := RuleContext{OSName: "windows", OSArch: "x86_64"}
	linux := RuleContext{OSName: "linux", OSArch: "x86_64"}
	osx := RuleContext{OSName: "osx", OSArch: "x86_64"}

	testCases := []struct {
		name     string
		rules    []Rule
		ctx      RuleContext
		expected bool
	}{
		{
			name:     "no rules means always applies",
			rules:    nil,
			ctx:      linux,
			expected: true,
		},
		{
			name:     "bare allow applies everywhere",
			rules:    []Rule{{Action: ActionAllow}},
			ctx:      windows,
			expected: true,
		},
		{
			name: "allow on matching os",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "linux"}},
			},
			ctx:      linux,
			expected: true,
		},
		{
			name: "allow on non-matching os",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "linux"}},
			},
			ctx:      windows,
			expected: false,
		},
		{
			name: "allow all except osx",
			rules: []Rule{
				{Action: ActionAllow},
				{Action: ActionDisallow, OS: &OSRule{Name: "osx"}},
			},
			ctx:      osx,
			expected: false,
		},
		{
			name: "allow all except osx, on linux",
			rules: []Rule{
				{Action: ActionAllow},
				{Action: ActionDisallow, OS: &OSRule{Name: "osx"}},
			},
			ctx:      linux,
			expected: true,
		},
		{
			name: "disallow with unmatched os is satisfied",
			rules: []Rule{
				{Action: ActionDisallow, OS: &OSRule{Name: "windows"}},
			},
			ctx:      linux,
			expected: true,
		},
		{
			name: "macos alias matches osx context",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "macos"}},
			},
			ctx:      osx,
			expected: true,
		},
		{
			name: "darwin alias matches osx context",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "darwin"}},
			},
			ctx:      osx,
			expected: true,
		},
		{
			name: "arch must match exactly",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "windows", Arch: "x86"}},
			},
			ctx:      windows,
			expected: false,
		},
		{
			name: "arch exact match",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Arch: "x86_64"}},
			},
			ctx:      linux,
			expected: true,
		},
		{
			name: "version regex against os version",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "windows", Version: `^10\.`}},
			},
			ctx:      RuleContext{OSName: "windows", OSArch: "x86_64", OSVersion: "10.0.19045"},
			expected: true,
		},
		{
			name: "version regex mismatch",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "windows", Version: `^10\.`}},
			},
			ctx:      RuleContext{OSName: "windows", OSArch: "x86_64", OSVersion: "6.1"},
			expected: false,
		},
		{
			name: "invalid version regex never matches",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Version: `(`}},
			},
			ctx:      linux,
			expected: false,
		},
		{
			name: "feature required and present",
			rules: []Rule{
				{Action: ActionAllow, Features: map[string]bool{"is_demo_user": true}},
			},
			ctx:      RuleContext{OSName: "linux", Features: map[string]bool{"is_demo_user": true}},
			expected: true,
		},
		{
			name: "feature required and absent",
			rules: []Rule{
				{Action: ActionAllow, Features: map[string]bool{"is_demo_user": true}},
			},
			ctx:      linux,
			expected: false,
		},
		{
			name: "feature required false and absent",
			rules: []Rule{
				{Action: ActionAllow, Features: map[string]bool{"has_custom_resolution": false}},
			},
			ctx:      linux,
			expected: true,
		},
		{
			name: "conjunction: one failing rule fails the set",
			rules: []Rule{
				{Action: ActionAllow},
				{Action: ActionAllow, OS: &OSRule{Name: "windows"}},
			},
			ctx:      linux,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info("🧪 Testing rule evaluation", "test", tc.name)

			result := EvaluateRules(tc.rules, tc.ctx)
			if result != tc.expected {
				t.Errorf("EvaluateRules() = %v, expected %v", result, tc.expected)
			}
		})
	}
}

// TestEvaluateOSRules tests the permissive evaluation used for download
// enumeration, which skips feature-constrained rules entirely
func TestEvaluateOSRules(t *testing.T) {
	linux := RuleContext{OSName: "linux", OSArch: "x86_64"}

	testCases := []struct {
		name     string
		rules    []Rule
		expected bool
	}{
		{
			name: "feature-gated allow is skipped, not failed",
			rules: []Rule{
				{Action: ActionAllow, Features: map[string]bool{"is_demo_user": true}},
			},
			expected: true,
		},
		{
			name: "os rules still enforced",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "windows"}},
			},
			expected: false,
		},
		{
			name: "mixed: os rule passes, feature rule skipped",
			rules: []Rule{
				{Action: ActionAllow, OS: &OSRule{Name: "linux"}},
				{Action: ActionDisallow, Features: map[string]bool{"is_demo_user": true}},
			},
			expected: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := EvaluateOSRules(tc.rules, linux)
			if result != tc.expected {
				t.Errorf("EvaluateOSRules() = %v, expected %v", result, tc.expected)
			}
		})
	}
}

// TestNormalizeOSName tests the macos/osx/darwin alias table
func TestNormalizeOSName(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"macos", "osx"},
		{"osx", "osx"},
		{"darwin", "osx"},
		{"mac", "osx"},
		{"windows", "windows"},
		{"linux", "linux"},
		{"freebsd", "freebsd"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := NormalizeOSName(tc.input); got != tc.expected {
				t.Errorf("NormalizeOSName(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
