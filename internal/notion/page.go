package notion

import (
	"encoding/json"
	"fmt"
)

// Page is a database row.
type Page struct {
	ID         string                     `json:"id"`
	URL        string                     `json:"url,omitempty"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// Title returns the first run of the title property named prop.
// ok is false when the property is missing or has no text.
func (p Page) Title(prop string) (string, bool) {
	raw, found := p.Properties[prop]
	if !found {
		return "", false
	}
	var title struct {
		Title []RichText `json:"title"`
	}
	if err := json.Unmarshal(raw, &title); err != nil || len(title.Title) == 0 {
		return "", false
	}
	return title.Title[0].PlainText, true
}

// Database is a search hit of object type database.
type Database struct {
	ID    string     `json:"id"`
	Title []RichText `json:"title"`
}

// Name returns the database title as plain text.
func (d Database) Name() string {
	return PlainText(d.Title)
}

// DatabaseLookupError is returned when a title search does not find exactly one database.
type DatabaseLookupError struct {
	Title string
	Count int
}

func (e *DatabaseLookupError) Error() string {
	return fmt.Sprintf("expected to find 1 database called %q: found %d", e.Title, e.Count)
}
