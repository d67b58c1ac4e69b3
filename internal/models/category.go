package models

// Category is the closed set of activity categories the tracker classifies
// raw window/process data into. Aggregation and goal rules operate on these
// identities only; everything else about an activity is presentation detail.
type Category string

const (
	CategoryUncategorized  Category = "uncategorized"
	CategoryDevelopment    Category = "development"
	CategoryEmail          Category = "email"
	CategoryInstantMessage Category = "instant_messaging"
	CategoryPlanning       Category = "planning"
	CategoryReadingWriting Category = "reading_writing"
	CategoryMeeting        Category = "meeting"
	CategoryWebBrowsing    Category = "web_browsing"
	CategoryMediaGames     Category = "media_games"
)

// AllCategories returns every category in the closed enumeration, in a stable
// order. Aggregation produces one summary per entry, observed or not.
func AllCategories() []Category {
	return []Category{
		CategoryUncategorized,
		CategoryDevelopment,
		CategoryEmail,
		CategoryInstantMessage,
		CategoryPlanning,
		CategoryReadingWriting,
		CategoryMeeting,
		CategoryWebBrowsing,
		CategoryMediaGames,
	}
}

var categoryNames = map[Category]string{
	CategoryUncategorized:  "Uncategorized",
	CategoryDevelopment:    "Development",
	CategoryEmail:          "Email",
	CategoryInstantMessage: "Instant Messaging",
	CategoryPlanning:       "Planning",
	CategoryReadingWriting: "Reading & Writing",
	CategoryMeeting:        "Meetings",
	CategoryWebBrowsing:    "Web Browsing",
	CategoryMediaGames:     "Media & Games",
}

// DisplayName returns a human-readable name for the category.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// IsValid reports whether c is a member of the closed enumeration.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseCategory returns the category matching s, or false if s is not a
// member of the enumeration.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	if c.IsValid() {
		return c, true
	}
	return CategoryUncategorized, false
}
