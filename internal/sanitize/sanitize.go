// Package sanitize cleans completion output of speaker-name artifacts.
//
// The completion API only has three generic roles, so multi-party identity
// travels as a "Name: " prefix on assistant turns. Models sometimes echo
// that convention back, occasionally twice, and those echoes must not
// reach the message log.
package sanitize

import (
	"regexp"
	"strings"
)

// StripSpeakerPrefix removes a leading "Name:" (and the doubled
// "Name: Name:" form) from raw, case-insensitively, then trims whitespace.
// It also removes the first-word-only variant ("Alexander:" for "Alexander
// the Great"), which some models produce. Text that does not start with the
// prefix passes through untouched, so the function is idempotent.
func StripSpeakerPrefix(raw, displayName string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return strings.TrimSpace(raw)
	}

	// Display names come from the persona catalog but are still arbitrary
	// text as far as the regexp engine is concerned.
	quoted := regexp.QuoteMeta(name)
	alts := quoted
	if first := strings.Fields(name); len(first) > 1 {
		alts += "|" + regexp.QuoteMeta(first[0])
	}

	re := regexp.MustCompile(`(?i)^\s*(?:(?:` + alts + `)\s*:\s*){1,2}`)
	return strings.TrimSpace(re.ReplaceAllString(raw, ""))
}
