package prompt

import (
	"context"
	"sync"
)

// Scripted replays canned answers in order and records everything it was asked and told.
// Once the answers run out every prompt returns ErrCancelled.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	prompts []string
	notices []string
}

// Prompt implements Prompter.
func (s *Scripted) Prompt(ctx context.Context, message string, secret bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, message)
	if err := ctx.Err(); err != nil {
		return "", ErrCancelled
	}
	if len(s.answers) == 0 {
		return "", ErrCancelled
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// PromptSecret implements SecretPrompter.
func (s *Scripted) PromptSecret(ctx context.Context, message string) ([]byte, error) {
	answer, err := s.Prompt(ctx, message, true)
	if err != nil {
		return nil, err
	}
	return []byte(answer), nil
}

// Notify implements Prompter.
func (s *Scripted) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

// Push appends more answers.
func (s *Scripted) Push(answers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answers...)
}

// Prompts returns the messages of every prompt shown so far.
func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Notices returns every notice shown so far.
func (s *Scripted) Notices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notices...)
}

// Remaining reports how many answers have not been consumed.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// NewScripted creates a Scripted prompter with the given answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}
