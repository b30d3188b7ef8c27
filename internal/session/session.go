// Package session runs the interactive budgeter-cli flow: collect a paycheck
// and categories, ask for advice, then submit the budget and show history.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"budgeter/internal/advice"
	"budgeter/internal/client"
	"budgeter/internal/core"
	"budgeter/internal/history"
)

// API is the part of the budgeter server the session talks to.
type API interface {
	Budget(ctx context.Context, paycheck core.Money, cats core.Categories) (core.BudgetResult, error)
	History(ctx context.Context) ([]history.Entry, error)
	Chat(ctx context.Context, message string, turns []advice.Turn) (string, error)
}

type Options struct {
	SkipAdvice bool
}

var (
	riskLevels        = []string{"low", "medium", "high"}
	allocationChoices = []string{"fixed amount", "percentage"}
	durations         = []string{"months", "years"}
)

type Session struct {
	prompt Prompter
	api    API
	out    io.Writer
	opts   Options
}

func New(prompt Prompter, api API, out io.Writer, opts Options) *Session {
	return &Session{prompt: prompt, api: api, out: out, opts: opts}
}

// Run drives one full session. Only prompt failures (including the user
// aborting) are returned; server errors are printed and the session ends
// normally.
func (s *Session) Run(ctx context.Context) error {
	paycheck, err := s.askPaycheck()
	if err != nil {
		return err
	}
	cats, err := s.collectCategories()
	if err != nil {
		return err
	}

	if !s.opts.SkipAdvice {
		prompt, err := s.askInvestmentQuestions(paycheck)
		if err != nil {
			return err
		}
		s.showAdvice(ctx, prompt)
	}

	s.submit(ctx, paycheck, cats)
	return nil
}

func (s *Session) askPaycheck() (core.Money, error) {
	for {
		answer, err := s.prompt.Input("Enter your paycheck:")
		if err != nil {
			return core.Money{}, err
		}
		d, err := core.ParseAmount(answer)
		if err == nil && !d.IsNegative() {
			if m, err := core.MoneyFromDecimal(d); err == nil {
				return m, nil
			}
		}
		s.println("Invalid paycheck. Enter a number (e.g., 3000).")
	}
}

func (s *Session) collectCategories() (core.Categories, error) {
	cats := core.Categories{}
	for {
		s.println("\nCurrent categories:")
		s.println(RenderCategories(cats))

		action, err := s.prompt.Input("What do you want to do? [add/delete/change/done]")
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(strings.TrimSpace(action)) {
		case "add":
			name, err := s.prompt.Input("Enter category name:")
			if err != nil {
				return nil, err
			}
			name = strings.TrimSpace(name)
			switch {
			case name == "":
				s.println("Category name cannot be empty.")
				continue
			case name == core.RemainingKey:
				s.printf("'%s' is reserved for the unallocated balance.\n", core.RemainingKey)
				continue
			}
			if err := s.askCategory(&cats, name); err != nil {
				return nil, err
			}

		case "delete":
			name, err := s.prompt.Input("Enter category to delete:")
			if err != nil {
				return nil, err
			}
			name = strings.TrimSpace(name)
			if !cats.Delete(name) {
				s.printf("Category '%s' not found.\n", name)
			}

		case "change":
			name, err := s.prompt.Input("Enter category to change:")
			if err != nil {
				return nil, err
			}
			name = strings.TrimSpace(name)
			if _, ok := cats.Get(name); !ok {
				s.printf("Category '%s' not found.\n", name)
				continue
			}
			if err := s.askCategory(&cats, name); err != nil {
				return nil, err
			}

		case "done":
			return cats, nil

		default:
			s.println("Invalid option.")
		}
	}
}

// askCategory prompts for the type and value of name and stores it. Invalid
// answers are reported and leave cats unchanged.
func (s *Session) askCategory(cats *core.Categories, name string) error {
	typ, err := s.prompt.Input(fmt.Sprintf("Is %s a fixed amount or percentage?", name))
	if err != nil {
		return err
	}
	kind, ok := core.ParseCategoryKind(typ)
	if !ok {
		s.println("Invalid type. Please choose 'percentage' or 'fixed'.")
		return nil
	}

	question, invalid := fmt.Sprintf("Enter fixed amount for %s:", name), "Invalid fixed amount, try again."
	if kind == core.KindPercentage {
		question, invalid = fmt.Sprintf("Enter %% of paycheck for %s:", name), "Invalid percentage, try again."
	}
	answer, err := s.prompt.Input(question)
	if err != nil {
		return err
	}
	value, err := core.ParseAmount(answer)
	if err != nil {
		s.println(invalid)
		return nil
	}

	cats.Set(core.Category{Name: name, Kind: kind, Value: value})
	return nil
}

func (s *Session) askInvestmentQuestions(paycheck core.Money) (string, error) {
	risk, err := s.prompt.Select("How much risk are you willing to take?", riskLevels)
	if err != nil {
		return "", err
	}
	preference, err := s.prompt.Select("Do you want to allocate money as a fixed amount or percentage?", allocationChoices)
	if err != nil {
		return "", err
	}
	duration, err := s.prompt.Select("How long do you wish to invest?", durations)
	if err != nil {
		return "", err
	}
	return advice.InvestmentPrompt(paycheck.String(), risk, preference, duration), nil
}

func (s *Session) showAdvice(ctx context.Context, prompt string) {
	reply, err := s.api.Chat(ctx, prompt, nil)
	if err != nil {
		s.printf("\nError fetching AI advice: %s\n", describe(err))
		return
	}
	s.println("\n" + RenderAdvice(reply))
}

func (s *Session) submit(ctx context.Context, paycheck core.Money, cats core.Categories) {
	res, err := s.api.Budget(ctx, paycheck, cats)
	if err != nil {
		s.printf("\nError computing budget: %s\n", describe(err))
		return
	}
	s.println("\n" + RenderResult(res))

	entries, err := s.api.History(ctx)
	if err != nil {
		s.printf("\nError fetching history: %s\n", describe(err))
		return
	}
	s.println("\n" + RenderHistory(entries))
}

// describe keeps the server's own message for rejected requests.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
