package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
)

const (
	commandClear = "/clear"
	commandQuit  = "/quit"
	commandExit  = "/exit"

	thinkingText = "Thinking..."
)

type styles struct {
	title     lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	thinking  lipgloss.Style
	hint      lipgloss.Style
	prompt    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1),
		user: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2563EB")).
			Padding(0, 1),
		assistant: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(0, 1),
		thinking: r.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true),
		hint: r.NewStyle().
			Foreground(lipgloss.Color("#6B7280")),
		prompt: r.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true),
	}
}

// REPL renders a Session as chat bubbles in a terminal: user turns on the
// right, assistant turns on the left.
type REPL struct {
	session *chat.Session
	in      io.Reader
	out     io.Writer
	width   int
	styles  styles
}

func NewREPL(session *chat.Session, in io.Reader, out io.Writer, width int) *REPL {
	if width < 20 {
		width = 80
	}
	return &REPL{
		session: session,
		in:      in,
		out:     out,
		width:   width,
		styles:  newStyles(lipgloss.NewRenderer(out)),
	}
}

// Run reads one utterance per line until /quit or end of input
func (r *REPL) Run(ctx context.Context) error {
	r.println(r.styles.title.Render("AI Chatbot"))
	r.println(r.styles.hint.Render(fmt.Sprintf("Type a message. %s starts over, %s leaves.", commandClear, commandQuit)))
	r.renderLog()

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, r.styles.prompt.Render("> "))
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case commandQuit, commandExit:
			return nil
		case commandClear:
			r.session.Reset()
			r.renderLog()
			continue
		}

		r.println(r.bubble(models.NewUserTurn(line)))
		r.println(r.styles.thinking.Render(thinkingText))

		reply, ok := r.session.Submit(ctx, line)
		if ok {
			r.println(r.bubble(reply))
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	fmt.Fprintln(r.out)
	return scanner.Err()
}

func (r *REPL) renderLog() {
	for _, turn := range r.session.DisplayLog() {
		r.println(r.bubble(turn))
	}
}

// bubble lays a turn out within three quarters of the terminal width
func (r *REPL) bubble(turn models.Turn) string {
	maxWidth := r.width * 3 / 4

	if turn.IsUser() {
		style := r.styles.user
		if lipgloss.Width(turn.Text)+style.GetHorizontalFrameSize() > maxWidth {
			style = style.Width(maxWidth)
		}
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, style.Render(turn.Text))
	}

	style := r.styles.assistant
	if lipgloss.Width(turn.Text)+style.GetHorizontalFrameSize() > maxWidth {
		style = style.Width(maxWidth - style.GetHorizontalBorderSize())
	}
	return style.Render(turn.Text)
}

func (r *REPL) println(s string) {
	fmt.Fprintln(r.out, s)
}
