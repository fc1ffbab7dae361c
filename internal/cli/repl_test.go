package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
)

func newTestSession(completer chat.CompleterFunc) *chat.Session {
	return chat.NewSession(completer)
}

func echoCompleter(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
	return "echo: " + messages[len(messages)-1].Text, nil
}

func TestREPLRun(t *testing.T) {
	session := newTestSession(echoCompleter)
	var out bytes.Buffer

	repl := NewREPL(session, strings.NewReader("hello there\n\n/quit\nnever sent\n"), &out, 120)
	require.NoError(t, repl.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, models.DefaultGreeting)
	assert.Contains(t, output, "hello there")
	assert.Contains(t, output, thinkingText)
	assert.Contains(t, output, "echo: hello there")
	assert.NotContains(t, output, "never sent")

	assert.Len(t, session.DisplayLog(), 3)
	assert.Len(t, session.RequestLog(), 2)
}

func TestREPLClear(t *testing.T) {
	session := newTestSession(echoCompleter)
	var out bytes.Buffer

	repl := NewREPL(session, strings.NewReader("first\n/clear\n"), &out, 120)
	require.NoError(t, repl.Run(context.Background()))

	assert.Len(t, session.DisplayLog(), 1)
	assert.Empty(t, session.RequestLog())
	assert.Equal(t, 2, strings.Count(out.String(), models.DefaultGreeting))
}

func TestREPLShowsFailuresAsReplies(t *testing.T) {
	session := newTestSession(func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
		return "", errors.New("boom")
	})
	var out bytes.Buffer

	repl := NewREPL(session, strings.NewReader("hi\n"), &out, 120)
	require.NoError(t, repl.Run(context.Background()))

	assert.Contains(t, out.String(), "(boom)")
	log := session.DisplayLog()
	require.Len(t, log, 3)
	assert.Equal(t, chat.FailureMessage(errors.New("boom")), log[2].Text)
}

func TestBubbleLayout(t *testing.T) {
	repl := NewREPL(newTestSession(echoCompleter), strings.NewReader(""), &bytes.Buffer{}, 40)

	t.Run("user turns are right aligned", func(t *testing.T) {
		line := repl.bubble(models.NewUserTurn("hi"))
		assert.True(t, strings.HasPrefix(line, " "))
		assert.Equal(t, 40, len([]rune(strings.TrimRight(line, "\n"))))
	})

	t.Run("long turns wrap", func(t *testing.T) {
		text := strings.Repeat("word ", 30)
		for _, turn := range []models.Turn{models.NewUserTurn(text), models.NewAssistantTurn(text)} {
			rendered := repl.bubble(turn)
			assert.Greater(t, strings.Count(rendered, "\n"), 1, fmt.Sprintf("%s turn", turn.Speaker))
		}
	})
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "chat")

	t.Run("chat requires an API key", func(t *testing.T) {
		t.Setenv("OPENAI_KEY", "")

		root := NewRootCmd()
		root.SetArgs([]string{"chat", "--env-file", "does-not-exist.env"})
		root.SetIn(strings.NewReader(""))
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})

		err := root.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_KEY")
	})
}
