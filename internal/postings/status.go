package postings

import (
	"fmt"
	"strings"
)

// Application statuses. StatusPending is assumed when nothing is recorded.
const (
	StatusPending   = "Pending"
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
)

var statuses = []string{StatusPending, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// Statuses returns the known application statuses.
func Statuses() []string {
	return append([]string(nil), statuses...)
}

// ParseStatus returns the canonical spelling of a known status.
func ParseStatus(s string) (string, error) {
	for _, known := range statuses {
		if strings.EqualFold(strings.TrimSpace(s), known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q, want one of %s", s, strings.Join(statuses, ", "))
}
