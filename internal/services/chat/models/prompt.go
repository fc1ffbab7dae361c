package models

import (
	"fmt"
	"strings"
)

const DefaultGreeting = "👋 Hello! I'm your AI assistant. How can I help you today?"

const defaultCoreInstructions = `You are a helpful, friendly, and knowledgeable AI assistant.
You provide clear, concise, and accurate information.
You're happy to help with a wide range of topics and questions.
When you don't know something, you admit it rather than making up information.
Your responses are conversational and engaging while remaining informative.`

// SystemPrompt is the instruction sent ahead of the first user message of a
// conversation
type SystemPrompt struct {
	core    string
	custom  string
	wrapper string
}

// NewSystemPrompt creates a new SystemPrompt with core instructions
func NewSystemPrompt(core string) *SystemPrompt {
	return &SystemPrompt{
		core: strings.TrimSpace(core),
		wrapper: `%s

ADDITIONAL INSTRUCTIONS:
%s`,
	}
}

// SetCustom sets custom instructions for the prompt
func (sp *SystemPrompt) SetCustom(custom string) {
	sp.custom = strings.TrimSpace(custom)
}

// String returns the formatted system prompt
func (sp *SystemPrompt) String() string {
	if sp.custom == "" {
		return sp.core
	}
	return fmt.Sprintf(sp.wrapper, sp.core, sp.custom)
}

func DefaultSystemPrompt() *SystemPrompt {
	return NewSystemPrompt(defaultCoreInstructions)
}
