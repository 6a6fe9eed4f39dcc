// Package moderation is a keyword gate over user input for crisis-risk
// content. Keyword matching means false negatives are expected; the gate errs
// toward caution on anything it does catch.
package moderation

import "strings"

// concerningPhrases are matched as case-insensitive substrings.
var concerningPhrases = []string{
	"kill myself",
	"suicide",
	"hurt myself",
	"self harm",
	"end my life",
	"don't want to live",
}

// IsConcerning reports whether text contains any crisis-risk phrase.
func IsConcerning(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range concerningPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// CrisisResources is appended as a system message whenever the gate trips.
const CrisisResources = "I notice you're expressing thoughts that concern me. If you're experiencing a crisis, please consider contacting a mental health professional or crisis line: National Suicide Prevention Lifeline: 988 or 1-800-273-8255"
