package cache

import (
	"fmt"
	"sort"
	"strings"
)

// KeyFunc builds a cache key from an operation identity and its effective
// arguments. Call sites that need custom derivation supply their own.
type KeyFunc func(namespace, operation string, args ...any) string

// Key is the default derivation: "namespace:operation:arg1:arg2:...".
// Map arguments are encoded with their keys sorted, so two semantically
// identical calls produce the same key regardless of keyword order. The
// namespace segment is what pattern invalidation ("items:*") matches on.
func Key(namespace, operation string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, namespace, operation)

	for _, arg := range args {
		parts = append(parts, formatArg(arg))
	}

	return strings.Join(parts, ":")
}

func formatArg(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+formatArg(v[k]))
		}

		return strings.Join(pairs, ",")
	default:
		return fmt.Sprintf("%v", arg)
	}
}

var _ KeyFunc = Key
