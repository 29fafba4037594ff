// Package arguments renders JVM and game argument templates: placeholder
// substitution over literal entries plus rule-gated conditional entries.
package arguments

import (
	"strings"

	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// Render expands template entries against variables and the rule context.
// Conditional entries contribute their values only when their rules accept
// the context. Unknown placeholders stay as inert ${name} strings rather
// than erroring; callers that need every placeholder resolved must check.
func Render(entries []minecraft.ArgumentEntry, vars map[string]string, ctx minecraft.RuleContext) []string {
	var out []string
	for _, entry := range entries {
		if entry.Conditional() && !minecraft.EvaluateRules(entry.Rules, ctx) {
			continue
		}
		for _, value := range entry.Values {
			out = append(out, Substitute(value, vars))
		}
	}
	return out
}

// Substitute performs literal find-and-replace of ${key} tokens
func Substitute(s string, vars map[string]string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	for key, value := range vars {
		s = strings.ReplaceAll(s, "${"+key+"}", value)
	}
	return s
}

// Literal wraps plain strings as template entries; used for the legacy
// single-string argument format.
func Literal(values ...string) []minecraft.ArgumentEntry {
	entries := make([]minecraft.ArgumentEntry, 0, len(values))
	for _, v := range values {
		entries = append(entries, minecraft.ArgumentEntry{Values: []string{v}})
	}
	return entries
}

// LegacyGameEntries splits a pre-1.13 minecraftArguments string into game
// argument template entries.
func LegacyGameEntries(minecraftArguments string) []minecraft.ArgumentEntry {
	return Literal(strings.Fields(minecraftArguments)...)
}

// DefaultJVMEntries is the synthesized JVM template used when a definition
// predates the structured argument format.
func DefaultJVMEntries() []minecraft.ArgumentEntry {
	return Literal(
		"-Djava.library.path=${natives_directory}",
		"-cp",
		"${classpath}",
	)
}
