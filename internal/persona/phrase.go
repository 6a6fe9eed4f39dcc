package persona

// Phrase is a motivational concept persona. Unlike warriors, a phrase has no
// biography; the prompt builder carries all of its behavior.
type Phrase struct {
	ID          string // Stable key
	Phrase      string // Display text, also the key used by the prompt builder
	Description string
}

var phrases = []Phrase{
	{ID: "youvsyou", Phrase: "You vs. You", Description: "Focus on competing with yourself, not others"},
	{ID: "lockin", Phrase: "Lock In", Description: "Complete focus and commitment to your goals"},
	{ID: "positivevoice", Phrase: "Positive Inner Voice Only", Description: "Eliminate self-doubt and negative self-talk"},
	{ID: "discipline", Phrase: "Only Discipline", Description: "Consistency and routine build excellence"},
	{ID: "challenge", Phrase: "Challenge Yourself", Description: "Growth happens at the edge of your comfort zone"},
}

// Phrases returns the motivational phrase catalog.
func Phrases() []Phrase {
	out := make([]Phrase, len(phrases))
	copy(out, phrases)
	return out
}

// FindPhrase looks up a phrase by ID or by its display text.
func FindPhrase(key string) (Phrase, bool) {
	for _, p := range phrases {
		if p.ID == key || p.Phrase == key {
			return p, true
		}
	}
	return Phrase{}, false
}
