// Package handler contains Telegram command handlers.
package handler

import (
	"fmt"
	"strconv"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// ARGUMENT PARSING
// Komut argümanlarını ayrıştırma yardımcıları. Arguments are whitespace
// separated; quoted segments keep their inner spaces so names like
// "Ayşe Yılmaz" arrive as one argument.
// ══════════════════════════════════════════════════════════════════════════════

// splitArgs splits a command argument string on whitespace, honoring double
// quotes. Unterminated quotes run to the end of the input.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	flush := func() {
		if current.Len() > 0 {
			args = append(args, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return args
}

// parseScoreArg parses a score argument for /not_gir. The sentinel "-1"
// means "leave this score untouched" and maps to nil.
func parseScoreArg(s string) (*float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("geçersiz not değeri: %q", s)
	}
	if v == -1 {
		return nil, nil
	}
	return &v, nil
}

// parseCreditArg parses an optional credit argument for /ders_ekle.
func parseCreditArg(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("geçersiz kredi değeri: %q", s)
	}
	return v, nil
}
