// Package chat implements the assistant conversation shown in chat windows.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/GriffinCanCode/webdesk/internal/domain/ai"
)

// Greeting opens every conversation
const Greeting = "Hello! I am your Ubuntu AI Assistant. How can I help you today?"

var (
	// ErrEmpty rejects blank prompts
	ErrEmpty = errors.New("empty message")
	// ErrBusy rejects a prompt while a reply is still streaming
	ErrBusy = errors.New("reply in progress")
)

// Role tells who wrote a message
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one bubble in the conversation
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Runner executes slow work away from the caller. apply runs a state change
// only while the owning window exists and reports false once it is gone.
type Runner interface {
	Go(work func(ctx context.Context, apply func(func()) bool))
}

// View is the visible state of a conversation
type View struct {
	Messages []Message `json:"messages"`
	Loading  bool      `json:"loading"`
}

// Session holds one chat window's conversation
type Session struct {
	mu       sync.Mutex
	ai       ai.Service
	runner   Runner
	messages []Message // Protected by mu
	loading  bool      // Protected by mu
}

// New starts a conversation with the greeting
func New(assistant ai.Service, runner Runner) *Session {
	return &Session{
		ai:       assistant,
		runner:   runner,
		messages: []Message{{Role: RoleAI, Text: Greeting}},
	}
}

// View returns a copy of the conversation
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{Messages: slices.Clone(s.messages), Loading: s.loading}
}

// Send appends the user's prompt and an empty reply that fills in as the
// stream arrives.
func (s *Session) Send(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrEmpty
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.messages = append(s.messages,
		Message{Role: RoleUser, Text: prompt},
		Message{Role: RoleAI},
	)
	reply := len(s.messages) - 1
	s.loading = true
	s.mu.Unlock()

	s.runner.Go(func(ctx context.Context, apply func(func()) bool) {
		var sb strings.Builder
		for chunk := range s.ai.GenerateStream(ctx, prompt) {
			sb.WriteString(chunk)
			// markup split across chunks only resolves on the whole text
			text := ai.Sanitize(sb.String())
			if !apply(func() { s.setReply(reply, text, false) }) {
				return
			}
		}
		text := ai.Sanitize(sb.String())
		if text == "" {
			text = ai.MsgNoResponse
		}
		apply(func() { s.setReply(reply, text, true) })
	})
	return nil
}

func (s *Session) setReply(index int, text string, done bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < len(s.messages) {
		s.messages[index].Text = text
	}
	if done {
		s.loading = false
	}
}
