package service

import (
	"fmt"
	"strings"
	"time"

	"reqtrack/internal/model"
)

// Requisitions all share the purchase type code today. The scope string is
// the literal request-id prefix, e.g. "ORB/25/P".
const requestTypeCode = "P"

const maxPrefixLen = 3

// defaultPrefix is used when neither the override nor the name contains a
// single A-Z letter; without it such organizations would share an empty
// prefix and collide on one counter scope.
const defaultPrefix = "REQ"

// requestIDPrefix derives the organization's id prefix: the configured
// override when present, else the organization name. Either way the result is
// uppercased, stripped of anything outside A-Z, and clamped to three letters
// so ids always match PREFIX/YY/Pnnnnn.
func requestIDPrefix(org *model.Organization) string {
	source := org.RequisitionPrefix
	if strings.TrimSpace(source) == "" {
		source = org.Name
	}

	var b strings.Builder
	for _, r := range source {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
		default:
			continue
		}
		b.WriteRune(r)
		if b.Len() >= maxPrefixLen {
			break
		}
	}
	if b.Len() == 0 {
		return defaultPrefix
	}
	return b.String()
}

// requestIDScope returns the counter scope "PREFIX/YY/P" for the given time.
func requestIDScope(org *model.Organization, now time.Time) string {
	return fmt.Sprintf("%s/%02d/%s", requestIDPrefix(org), now.Year()%100, requestTypeCode)
}

// formatRequestID renders the final id, e.g. ("ORB/25/P", 1) -> "ORB/25/P00001".
func formatRequestID(scope string, seq int64) string {
	return fmt.Sprintf("%s%05d", scope, seq)
}
