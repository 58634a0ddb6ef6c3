package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yungbote/vamshavali-backend/internal/platform/envutil"
)

// Person attributes carry contact details; credentials come from config.
var redactedFragments = []string{
	"password", "secret", "token", "api_key", "apikey", "authorization",
	"mobile", "phone", "address", "email",
}

// scrubber rewrites sensitive log fields. Names are hashed rather than
// dropped so one person's lines can still be grouped.
type scrubber struct {
	enabled bool
	salt    string
}

func scrubberFromEnv() *scrubber {
	return &scrubber{
		enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
		salt:    envutil.String("LOG_HASH_SALT", ""),
	}
}

func (s *scrubber) apply(kv []any) []any {
	if !s.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := stringify(kv[i])
		out = append(out, key, s.value(normKey(key), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (s *scrubber) value(key string, v any) any {
	switch {
	case key == "":
		return v
	case redacted(key):
		return "[REDACTED]"
	case key == "name" || strings.HasSuffix(key, "_name"):
		return s.hash(v)
	}
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, inner := range m {
			out[k] = s.value(normKey(k), inner)
		}
		return out
	}
	return v
}

func (s *scrubber) hash(v any) string {
	raw := stringify(v)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func redacted(key string) bool {
	for _, frag := range redactedFragments {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func normKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
