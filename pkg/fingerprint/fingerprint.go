// Package fingerprint produces deterministic content fingerprints for
// records. Two records with the same fields and values always hash the same,
// regardless of map iteration order, which makes the fingerprint usable as a
// dedup key downstream.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// Generate creates a fingerprint for the given fields: a SHA256 hash of the
// canonicalized JSON representation.
func Generate(data map[string]any) string {
	canonical := canonicalize(data)
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// canonicalize creates a deterministic string representation by sorting map
// keys and recursing into nested structures.
func canonicalize(data any) string {
	switch v := data.(type) {
	case map[string]any:
		return canonicalizeMap(v)
	case []any:
		return canonicalizeArray(v)
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func canonicalizeMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		keyJSON, _ := json.Marshal(k)
		parts = append(parts, string(keyJSON)+":"+canonicalize(m[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func canonicalizeArray(arr []any) string {
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		parts = append(parts, canonicalize(item))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
