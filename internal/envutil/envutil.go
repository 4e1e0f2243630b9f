// Package envutil provides environment variable utilities.
package envutil

import "sort"

// BuildEnv creates a KEY=VALUE slice from a map, sorted by key so the
// resulting environment is deterministic. A nil map yields nil, which
// callers treat as "inherit the parent environment".
func BuildEnv(env map[string]string) []string {
	if env == nil {
		return nil
	}
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// MergeEnvironment merges base environment with overrides.
// Overrides take precedence.
func MergeEnvironment(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))

	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		result[k] = v
	}

	return result
}
