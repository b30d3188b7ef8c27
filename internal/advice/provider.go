// Package advice turns free-text budgeting questions into replies from an
// optional generative-AI provider, falling back to canned guidance.
package advice

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// FallbackReply is returned whenever no AI provider can answer.
const FallbackReply = "I can't access the AI engine right now. Quick guidance: pay essentials first (rent, utilities), " +
	"save at least 10-20% if possible, and avoid allocating more than 100% of your paycheck to percentages. " +
	"Ask me specifics like 'How much should I save if I earn $3000?'"

// maxContextTurns bounds how much conversation history goes into a prompt.
const maxContextTurns = 8

// Provider answers a prompt with free text.
type Provider interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Static always answers with the same text.
type Static struct {
	Text string
}

func (s Static) Advise(context.Context, string) (string, error) {
	if s.Text == "" {
		return FallbackReply, nil
	}
	return s.Text, nil
}

// Turn is one earlier message of the conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// BuildPrompt renders the last few turns followed by the new message:
//
//	User: hi
//	Assistant: hello
//	User: how much should I save?
//	Assistant:
func BuildPrompt(message string, turns []Turn) string {
	if len(turns) > maxContextTurns {
		turns = turns[len(turns)-maxContextTurns:]
	}
	lines := make([]string, 0, len(turns)+2)
	for _, t := range turns {
		role := t.Role
		if strings.TrimSpace(role) == "" {
			role = "user"
		}
		lines = append(lines, titleCase(role)+": "+t.Text)
	}
	lines = append(lines, "User: "+message, "Assistant:")
	return strings.Join(lines, "\n")
}

// InvestmentPrompt is the question the CLI asks after collecting a budget.
func InvestmentPrompt(paycheck, risk, preference, duration string) string {
	return fmt.Sprintf("I have a paycheck of $%s. My risk tolerance is %s. I prefer to allocate money as %s. "+
		"I plan to invest for %s. Please give me simple, personalized financial advice on how to invest "+
		"and allocate my paycheck.", paycheck, risk, preference, duration)
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
