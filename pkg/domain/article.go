package domain

import "time"

// display fallbacks for missing article fields
const (
	UnknownAuthor = "Unknown Author"
	NoTitle       = "No Title"
	NoDescription = "No Description"
	UnknownDate   = "Unknown Date"
	GeneralType   = "General"
)

// Article represents a news item as returned by the news provider.
// All fields are optional, an empty string means the provider didn't send it.
type Article struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
	URL         string `json:"url,omitempty"`
}

// AuthorLabel returns article author or the fallback label
func (a Article) AuthorLabel() string {
	if a.Author == "" {
		return UnknownAuthor
	}
	return a.Author
}

// TitleLabel returns article title or the fallback label
func (a Article) TitleLabel() string {
	if a.Title == "" {
		return NoTitle
	}
	return a.Title
}

// DescriptionLabel returns article description or the fallback label
func (a Article) DescriptionLabel() string {
	if a.Description == "" {
		return NoDescription
	}
	return a.Description
}

// DateLabel formats publish time as a short date, unparsable or missing values give the fallback label
func (a Article) DateLabel() string {
	if a.PublishedAt == "" {
		return UnknownDate
	}
	ts, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return UnknownDate
	}
	return ts.Format("Jan 2, 2006")
}

// Link returns article URL or "#" if missing
func (a Article) Link() string {
	if a.URL == "" {
		return "#"
	}
	return a.URL
}

// DateRange is an inclusive range of dates in YYYY-MM-DD form, empty bounds are open
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FilterState holds user-selected filters of the dashboard
type FilterState struct {
	Author    string    `json:"author"`
	DateRange DateRange `json:"dateRange"`
	Type      string    `json:"type"`
}

// ArticleTypes lists type labels offered by the type filter, empty value means all types
var ArticleTypes = []string{"news", "blogs"}
