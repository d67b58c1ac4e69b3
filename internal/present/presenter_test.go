package present

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/rules"
)

func sampleRules() []*rules.Rule {
	return []*rules.Rule{
		{
			ID:    1,
			Title: "Deep work mornings",
			Goal: models.ComparisonGoal{
				Kind:       models.GoalTimeSpentOn,
				Category:   models.CategoryDevelopment,
				TimeSpan:   models.SpanToday,
				Comparator: models.CompareGreaterEq,
				Threshold:  2,
			},
			Progress: rules.Progress{
				Success:      true,
				ObservedTime: 3 * time.Hour,
				Status:       rules.StatusMet,
			},
		},
		{
			ID:    2,
			Title: "Fewer email checks",
			Goal: models.ComparisonGoal{
				Kind:       models.GoalNumberOfSwitchesTo,
				Category:   models.CategoryEmail,
				TimeSpan:   models.SpanToday,
				Comparator: models.CompareLess,
				Threshold:  5,
			},
			Progress: rules.Progress{
				ObservedSwitches: 9,
				Status:           rules.StatusNotMet,
			},
		},
	}
}

func TestTextPresenter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextPresenter(&buf).Present(sampleRules()); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Deep work mornings", "Development", "met", "Fewer email checks", "not met"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextPresenterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextPresenter(&buf).Present(nil); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No goal rules defined.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestTextPresenterTruncatesLongTitles(t *testing.T) {
	ruleSet := sampleRules()
	ruleSet[0].Title = strings.Repeat("x", 60)

	var buf bytes.Buffer
	if err := NewTextPresenter(&buf).Present(ruleSet); err != nil {
		t.Fatalf("Present failed: %v", err)
	}
	if !strings.Contains(buf.String(), strings.Repeat("x", 25)+"...") {
		t.Errorf("long title not truncated:\n%s", buf.String())
	}
}

func TestJSONPresenter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONPresenter(&buf).Present(sampleRules()); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	var decoded []struct {
		ID       uint   `json:"id"`
		Title    string `json:"title"`
		Progress struct {
			Status string `json:"status"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(decoded))
	}
	if decoded[0].Title != "Deep work mornings" || decoded[0].Progress.Status != "met" {
		t.Errorf("unexpected first rule: %+v", decoded[0])
	}
	if decoded[1].Progress.Status != "not_met" {
		t.Errorf("unexpected second rule status: %q", decoded[1].Progress.Status)
	}
}
