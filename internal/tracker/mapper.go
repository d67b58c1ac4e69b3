package tracker

import (
	"strings"

	"github.com/goaltrack/goaltrack/internal/models"
)

// categoryKeywords maps lowercase substrings of the app name or window
// title to a category. App-name matches win over title matches; first
// category with a hit in enumeration order wins within each.
var categoryKeywords = map[models.Category][]string{
	models.CategoryDevelopment: {
		"code", "goland", "intellij", "vim", "emacs", "jetbrains",
		"terminal", "konsole", "alacritty", "kitty", "gnome-terminal",
		"sublime", "eclipse", "pycharm",
	},
	models.CategoryEmail: {
		"thunderbird", "evolution", "mail", "outlook", "gmail",
	},
	models.CategoryInstantMessage: {
		"slack", "discord", "telegram", "signal", "element", "whatsapp",
		"mattermost",
	},
	models.CategoryPlanning: {
		"calendar", "todoist", "trello", "jira", "notion", "asana",
		"planner",
	},
	models.CategoryReadingWriting: {
		"libreoffice", "okular", "evince", "zathura", "writer", "obsidian",
		"acrobat", "texstudio", "typora",
	},
	models.CategoryMeeting: {
		"zoom", "meet.google", "teams", "webex", "jitsi", "bigbluebutton",
	},
	models.CategoryWebBrowsing: {
		"firefox", "chromium", "chrome", "brave", "opera", "epiphany",
		"vivaldi",
	},
	models.CategoryMediaGames: {
		"spotify", "vlc", "mpv", "rhythmbox", "steam", "lutris", "youtube",
		"netflix", "twitch",
	},
}

// Classify maps a focused-window sample to its activity category. A browser
// app name only decides after the window title had its chance, because a tab
// title can name the real activity (e.g. a Jira board in Firefox).
func Classify(appName, windowTitle string) models.Category {
	appCategory := match(strings.ToLower(appName))
	if appCategory != models.CategoryUncategorized && appCategory != models.CategoryWebBrowsing {
		return appCategory
	}

	if titleCategory := match(strings.ToLower(windowTitle)); titleCategory != models.CategoryUncategorized {
		return titleCategory
	}

	return appCategory
}

func match(s string) models.Category {
	for _, category := range models.AllCategories() {
		if matchesAny(s, categoryKeywords[category]) {
			return category
		}
	}
	return models.CategoryUncategorized
}

func matchesAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
