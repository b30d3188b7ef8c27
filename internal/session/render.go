package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"budgeter/internal/core"
	"budgeter/internal/history"
)

var (
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorBorder = lipgloss.Color("#282726")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorOrange = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	amountStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	negativeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// RenderCategories lists the categories collected so far.
func RenderCategories(cats core.Categories) string {
	if len(cats) == 0 {
		return mutedStyle.Render("  (none)")
	}
	width := nameWidth(len(cats), func(i int) string { return cats[i].Name })
	var b strings.Builder
	for i, c := range cats {
		if i > 0 {
			b.WriteByte('\n')
		}
		value := c.Value.String()
		if c.Kind == core.KindPercentage {
			value += "%"
		} else {
			value = "$" + value
		}
		fmt.Fprintf(&b, "  %s  %s  %s", pad(c.Name, width), mutedStyle.Render(pad(c.Kind.String(), 10)), value)
	}
	return b.String()
}

// RenderResult draws a boxed allocation table ending with Remaining.
func RenderResult(res core.BudgetResult) string {
	width := nameWidth(len(res.Allocations)+1, func(i int) string {
		if i == len(res.Allocations) {
			return core.RemainingKey
		}
		return res.Allocations[i].Name
	})

	var b strings.Builder
	b.WriteString(titleStyle.Render("Budget result"))
	for _, a := range res.Allocations {
		b.WriteByte('\n')
		b.WriteString(pad(a.Name, width) + "  " + renderMoney(a.Amount))
	}
	b.WriteByte('\n')
	b.WriteString(headerStyle.Render(pad(core.RemainingKey, width)) + "  " + renderMoney(res.Remaining))
	if res.Remaining.IsNegative() {
		b.WriteByte('\n')
		b.WriteString(warnStyle.Render("Categories exceed the paycheck."))
	}
	return boxStyle.Render(b.String())
}

// RenderHistory prints one line per computed budget, oldest first.
func RenderHistory(entries []history.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No budgets computed yet.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	for _, e := range entries {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s  %s  paycheck %s  %s",
			headerStyle.Render(fmt.Sprintf("#%d", e.Sequence)),
			mutedStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")),
			renderMoney(e.Paycheck),
			e.Result.String(),
		)
	}
	return b.String()
}

// RenderAdvice frames the advisor's reply.
func RenderAdvice(text string) string {
	return titleStyle.Render("AI Financial Advice") + "\n" + strings.TrimSpace(text)
}

func renderMoney(m core.Money) string {
	s := "$" + m.String()
	if m.IsNegative() {
		return negativeStyle.Render("-$" + strings.TrimPrefix(m.String(), "-"))
	}
	return amountStyle.Render(s)
}

func nameWidth(n int, name func(int) string) int {
	w := 0
	for i := 0; i < n; i++ {
		if l := lipgloss.Width(name(i)); l > w {
			w = l
		}
	}
	return w
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
