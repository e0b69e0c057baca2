package account

import (
	"fmt"
	"strings"
)

// slugify derives a URL-safe base slug from a display name: lower-case,
// every run of characters outside [a-z0-9] folded to a single dash,
// no leading or trailing dash.
func slugify(name string) string {
	var b strings.Builder
	pendingDash := false

	for _, r := range strings.ToLower(name) {
		isAllowed := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAllowed {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return "account"
	}
	return b.String()
}

// slugCandidate returns the n-th candidate for a base slug: the base
// itself for n=0, then base-1, base-2, ...
func slugCandidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
