// Package present renders evaluated rules for display.
package present

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goaltrack/goaltrack/internal/rules"
)

// Presenter receives the batch of rules after a checking pass.
type Presenter interface {
	Present(ruleSet []*rules.Rule) error
}

// TextPresenter writes an aligned plain-text table of rule outcomes.
type TextPresenter struct {
	out io.Writer
}

// NewTextPresenter creates a presenter writing to out.
func NewTextPresenter(out io.Writer) *TextPresenter {
	return &TextPresenter{out: out}
}

func (p *TextPresenter) Present(ruleSet []*rules.Rule) error {
	if len(ruleSet) == 0 {
		_, err := fmt.Fprintln(p.out, "No goal rules defined.")
		return err
	}

	fmt.Fprintf(p.out, "%-28s %-18s %-10s %10s %10s %8s\n",
		"Rule", "Category", "Span", "Hours", "Switches", "Status")
	fmt.Fprintln(p.out, "------------------------------------------------------------------------------------------")

	for _, rule := range ruleSet {
		_, err := fmt.Fprintf(p.out, "%-28s %-18s %-10s %10.2f %10d %8s\n",
			truncate(rule.Title, 28),
			truncate(rule.Goal.Category.DisplayName(), 18),
			rule.Goal.TimeSpan,
			rule.Progress.ObservedTime.Hours(),
			rule.Progress.ObservedSwitches,
			statusLabel(rule.Progress.Status))
		if err != nil {
			return err
		}
	}
	return nil
}

// JSONPresenter writes the evaluated rules as indented JSON.
type JSONPresenter struct {
	out io.Writer
}

// NewJSONPresenter creates a presenter writing to out.
func NewJSONPresenter(out io.Writer) *JSONPresenter {
	return &JSONPresenter{out: out}
}

func (p *JSONPresenter) Present(ruleSet []*rules.Rule) error {
	data, err := json.MarshalIndent(ruleSet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

func statusLabel(status rules.ProgressStatus) string {
	switch status {
	case rules.StatusMet:
		return "met"
	case rules.StatusNotMet:
		return "not met"
	case rules.StatusError:
		return "error"
	default:
		return "pending"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
