package tracker

import (
	"testing"

	"github.com/goaltrack/goaltrack/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		appName     string
		windowTitle string
		want        models.Category
	}{
		{name: "editor by app name", appName: "code", windowTitle: "main.go", want: models.CategoryDevelopment},
		{name: "terminal", appName: "Alacritty", windowTitle: "~", want: models.CategoryDevelopment},
		{name: "mail client", appName: "thunderbird", windowTitle: "Inbox", want: models.CategoryEmail},
		{name: "chat", appName: "Slack", windowTitle: "#general", want: models.CategoryInstantMessage},
		{name: "browser plain tab", appName: "firefox", windowTitle: "Example Domain", want: models.CategoryWebBrowsing},
		{name: "browser with jira board", appName: "firefox", windowTitle: "Sprint 14 - Jira", want: models.CategoryPlanning},
		{name: "browser with video call", appName: "chromium", windowTitle: "Weekly sync - Zoom", want: models.CategoryMeeting},
		{name: "browser with streaming", appName: "chrome", windowTitle: "Cat videos - YouTube", want: models.CategoryMediaGames},
		{name: "pdf reader", appName: "evince", windowTitle: "paper.pdf", want: models.CategoryReadingWriting},
		{name: "media player", appName: "mpv", windowTitle: "talk.mkv", want: models.CategoryMediaGames},
		{name: "unknown app", appName: "definitely-new-app", windowTitle: "hello", want: models.CategoryUncategorized},
		{name: "empty sample", appName: "", windowTitle: "", want: models.CategoryUncategorized},
		{name: "case insensitive", appName: "FIREFOX", windowTitle: "", want: models.CategoryWebBrowsing},
		{name: "title only", appName: "", windowTitle: "standup notes - Notion", want: models.CategoryPlanning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.appName, tt.windowTitle); got != tt.want {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.appName, tt.windowTitle, got, tt.want)
			}
		})
	}
}

func TestKeywordsMapToTheirOwnCategory(t *testing.T) {
	for category, keywords := range categoryKeywords {
		for _, keyword := range keywords {
			if got := Classify(keyword, ""); got != category {
				t.Errorf("Classify(%q, \"\") = %q, want %q", keyword, got, category)
			}
		}
	}
}
