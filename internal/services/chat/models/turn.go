package models

// Speaker identifies who produced a Turn
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one rendered utterance of the conversation
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

func NewUserTurn(text string) Turn {
	return Turn{Speaker: SpeakerUser, Text: text}
}

func NewAssistantTurn(text string) Turn {
	return Turn{Speaker: SpeakerAssistant, Text: text}
}

// IsUser reports whether the turn was typed by the user
func (t Turn) IsUser() bool {
	return t.Speaker == SpeakerUser
}
