// Package trivia implements the trivia quiz state machine. Game state
// lives in an injected session store; the engine itself is stateless.
package trivia

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultSessionID is used when a caller does not supply a session id.
// Callers sharing it share one global game.
const DefaultSessionID = "default_session"

const (
	noSessionMessage      = "No trivia session found. Please start with 'trivia start'."
	invalidCommandMessage = "Invalid command. Use 'trivia start' or 'trivia answer <A|B|C>'."
	answerPrompt          = "Reply with 'trivia answer <option>'"
)

// answerPattern matches an answer command prefix, like the original
// command grammar: the single letter after "trivia answer".
var answerPattern = regexp.MustCompile(`^trivia answer ([abc])`)

// Question is a single quiz question with lettered options.
type Question struct {
	Text    string
	Options []string
	Answer  string // single-letter code of the correct option
}

// Questions returns the fixed question list. The slice is a copy; the
// underlying questions are never mutated.
func Questions() []Question {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return qs
}

var questions = []Question{
	{
		Text:    "What is the capital of France?",
		Options: []string{"A) Paris", "B) Berlin", "C) Madrid"},
		Answer:  "A",
	},
	{
		Text:    "Who wrote '1984'?",
		Options: []string{"A) Orwell", "B) Huxley", "C) Bradbury"},
		Answer:  "A",
	},
	{
		Text:    "What is 7 * 8?",
		Options: []string{"A) 54", "B) 56", "C) 58"},
		Answer:  "B",
	},
}

// Engine advances trivia sessions one command at a time.
type Engine struct {
	store     Store
	questions []Question
}

// NewEngine creates an engine backed by the given session store.
func NewEngine(store Store) *Engine {
	return &Engine{
		store:     store,
		questions: questions,
	}
}

// Handle processes one trivia command for the given session.
//
// "trivia start" creates a fresh session and returns the first question.
// "trivia answer <a|b|c>" (case-insensitive) scores the answer, advances
// the session, and either returns the next question or ends the game and
// deletes the session. Anything else returns a fixed invalid-command
// message. A missing session is a normal reported outcome, not an error.
func (e *Engine) Handle(ctx context.Context, sessionID, command string) (string, error) {
	cmd := strings.ToLower(strings.TrimSpace(command))

	if cmd == "trivia start" {
		if err := e.store.Put(ctx, sessionID, &Session{}); err != nil {
			return "", fmt.Errorf("failed to create session: %w", err)
		}
		q := e.questions[0]
		return fmt.Sprintf("Trivia started! Question 1:\n%s\n%s\n%s",
			q.Text, strings.Join(q.Options, "\n"), answerPrompt), nil
	}

	match := answerPattern.FindStringSubmatch(cmd)
	if match == nil {
		return invalidCommandMessage, nil
	}

	sess, err := e.store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return noSessionMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	answer := strings.ToUpper(match[1])
	correct := e.questions[sess.Index].Answer

	var result string
	if answer == correct {
		sess.Score++
		result = "Correct! 🎉"
	} else {
		result = fmt.Sprintf("Wrong! The correct answer was %s.", correct)
	}

	sess.Index++
	if sess.Index >= len(e.questions) {
		if err := e.store.Delete(ctx, sessionID); err != nil {
			return "", fmt.Errorf("failed to delete finished session: %w", err)
		}
		return fmt.Sprintf("%s\nGame Over! Your final score is %d/%d.",
			result, sess.Score, len(e.questions)), nil
	}

	if err := e.store.Put(ctx, sessionID, sess); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	next := e.questions[sess.Index]
	return fmt.Sprintf("%s\n\nNext Question %d:\n%s\n%s\n%s",
		result, sess.Index+1, next.Text, strings.Join(next.Options, "\n"), answerPrompt), nil
}
