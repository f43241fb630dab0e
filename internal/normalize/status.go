package normalize

import (
	"strings"

	"github.com/gyeh/claimstats/internal/model"
)

// ParseStatus maps free-text claim status to the closed status set.
// Rules are checked in order; anything unrecognized is Pending.
func ParseStatus(s string) model.ClaimStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "paid") && !strings.Contains(s, "partial"):
		return model.StatusPaid
	case strings.Contains(s, "denied"), strings.Contains(s, "reject"):
		return model.StatusDenied
	case strings.Contains(s, "partial"):
		return model.StatusPartial
	default:
		// "pending", "open", "submitted" and unknown values
		return model.StatusPending
	}
}
