package logging

import (
	"log/slog"
	"strings"
)

// sensitiveKeys are attribute key fragments whose values are never logged
// in full.
var sensitiveKeys = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"credential",
	"private_key",
}

// isSensitiveKey reports whether an attribute key names a credential.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactValue masks a credential, keeping at most the first four characters
// so operators can tell keys apart.
func RedactValue(value string) string {
	if value == "" {
		return ""
	}
	value = strings.TrimPrefix(value, "Bearer ")
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***"
}

// redactAttr is the slog ReplaceAttr hook. Groups are walked by slog itself,
// so only leaf attributes reach here.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if !isSensitiveKey(a.Key) {
		return a
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactValue(a.Value.String()))
	}
	return slog.String(a.Key, "***")
}
