package conversation

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Reserved speaker labels. Any other speaker value is a warrior ID from the
// persona catalog.
const (
	SpeakerUser   = "user"
	SpeakerSystem = "system"
	SpeakerPhrase = "phrase"
)

// Message is one entry in a session's append-only log. The log is owned
// exclusively by the Engine; the UI sees copies.
type Message struct {
	ID        string
	Speaker   string
	Content   string
	Timestamp time.Time
}

func newMessage(speaker, content string) Message {
	return Message{
		ID:        ulid.Make().String(),
		Speaker:   speaker,
		Content:   content,
		Timestamp: time.Now(),
	}
}
