package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/google/uuid"
)

// Session is a single conversation. It keeps the rendered turns and the
// history in the shape the completion API expects, and extends both
// together.
type Session struct {
	completer    Completer
	retry        RetryPolicy
	sleep        SleepFunc
	greeting     string
	systemPrompt *models.SystemPrompt

	// submitMu serializes Submit and Reset so exchanges never interleave.
	submitMu sync.Mutex

	mu         sync.RWMutex
	id         string
	displayLog []models.Turn
	requestLog []models.Content
	pending    *string
}

// Conversation is a consistent snapshot of a Session for rendering
type Conversation struct {
	ID      string        `json:"id"`
	Turns   []models.Turn `json:"turns"`
	Pending *string       `json:"pending"`
}

type Option func(*Session)

func WithRetryPolicy(policy RetryPolicy) Option {
	return func(s *Session) {
		s.retry = policy.normalized()
	}
}

// WithSleep replaces the blocking wait used between retries
func WithSleep(sleep SleepFunc) Option {
	return func(s *Session) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

func WithGreeting(greeting string) Option {
	return func(s *Session) {
		if greeting = strings.TrimSpace(greeting); greeting != "" {
			s.greeting = greeting
		}
	}
}

func WithSystemPrompt(prompt *models.SystemPrompt) Option {
	return func(s *Session) {
		if prompt != nil {
			s.systemPrompt = prompt
		}
	}
}

func NewSession(completer Completer, opts ...Option) *Session {
	s := &Session{
		completer:    completer,
		retry:        DefaultRetryPolicy(),
		sleep:        sleepContext,
		greeting:     models.DefaultGreeting,
		systemPrompt: models.DefaultSystemPrompt(),
		id:           uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()

	logger.Info(logger.CHAT, "Conversation %s started", s.id)
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Observer follows the progress of one exchange. Callbacks run while the
// exchange holds the submit lock, so observers see exchanges in order and
// each snapshot belongs to that exchange. Nil callbacks are skipped.
type Observer struct {
	Pending   func(conv Conversation)
	Committed func(reply models.Turn, conv Conversation)
}

// Submit sends utterance to the model and records the exchange. Input that
// is empty after trimming is ignored and reported with ok == false.
// Completion failures never surface as errors: the reply then carries a
// message meant for the user.
func (s *Session) Submit(ctx context.Context, utterance string) (reply models.Turn, ok bool) {
	return s.SubmitObserved(ctx, utterance, Observer{})
}

// SubmitObserved is Submit with progress callbacks. Ignored input triggers
// no callbacks.
func (s *Session) SubmitObserved(ctx context.Context, utterance string, obs Observer) (reply models.Turn, ok bool) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		logger.Debug(logger.CHAT, "Ignoring empty utterance")
		return models.Turn{}, false
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	history := cloneContents(s.requestLog)
	s.pending = &text
	s.mu.Unlock()

	if obs.Pending != nil {
		obs.Pending(s.Snapshot())
	}

	logger.Debug(logger.CHAT, "Submitting utterance with %d history entries", len(history))
	answer := s.completeTurn(ctx, history, text)

	reply = models.NewAssistantTurn(answer)

	s.mu.Lock()
	s.displayLog = append(s.displayLog, models.NewUserTurn(text), reply)
	s.requestLog = append(s.requestLog,
		models.NewContent(models.RoleUser, text),
		models.NewContent(models.RoleModel, answer),
	)
	s.pending = nil
	s.mu.Unlock()

	if obs.Committed != nil {
		obs.Committed(reply, s.Snapshot())
	}

	return reply, true
}

// completeTurn always returns displayable text. The system prompt goes out
// ahead of the utterance only on the first exchange.
func (s *Session) completeTurn(ctx context.Context, history []models.Content, utterance string) string {
	messages := make([]models.Message, 0, 2)
	if len(history) == 0 {
		messages = append(messages, models.Message{Role: models.RoleSystem, Text: s.systemPrompt.String()})
	}
	messages = append(messages, models.Message{Role: models.RoleUser, Text: utterance})

	for attempt := 0; attempt < s.retry.MaxAttempts; attempt++ {
		answer, err := s.completer.Complete(ctx, history, messages...)
		if err == nil {
			return answer
		}

		if !errors.Is(err, ErrRateLimited) {
			logger.Error(logger.CHAT, "Completion failed: %v", err)
			return FailureMessage(err)
		}

		if attempt == s.retry.MaxAttempts-1 {
			break
		}

		delay := s.retry.Delay(attempt)
		logger.Warn(logger.CHAT, "Completion rate limited (attempt %d/%d), retrying in %s",
			attempt+1, s.retry.MaxAttempts, delay)

		if err := s.sleep(ctx, delay); err != nil {
			logger.Error(logger.CHAT, "Retry wait aborted: %v", err)
			return FailureMessage(err)
		}
	}

	logger.Warn(logger.CHAT, "Completion still rate limited after %d attempts", s.retry.MaxAttempts)
	return UsageLimitMessage
}

// Reset drops every exchange and starts over from the greeting
func (s *Session) Reset() {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()

	logger.Info(logger.CHAT, "Conversation %s reset", s.id)
}

func (s *Session) resetLocked() {
	s.displayLog = []models.Turn{models.NewAssistantTurn(s.greeting)}
	s.requestLog = nil
	s.pending = nil
}

// DisplayLog returns a copy of the rendered turns, greeting first
func (s *Session) DisplayLog() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.displayLog)
}

// RequestLog returns a copy of the history in completion API shape
func (s *Session) RequestLog() []models.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneContents(s.requestLog)
}

// Pending returns the utterance of the exchange in flight, if any
func (s *Session) Pending() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return "", false
	}
	return *s.pending, true
}

func (s *Session) Snapshot() Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv := Conversation{
		ID:    s.id,
		Turns: slices.Clone(s.displayLog),
	}
	if s.pending != nil {
		pending := *s.pending
		conv.Pending = &pending
	}
	return conv
}

func cloneContents(contents []models.Content) []models.Content {
	copied := make([]models.Content, len(contents))
	for i, c := range contents {
		copied[i] = c.Clone()
	}
	return copied
}
