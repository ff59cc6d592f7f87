package template

import (
	"fmt"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

// add adds two integers and returns the result.
// helper function for html template
func add(a, b int) int {
	return a + b
}

// ordinalDate returns a string with the ordinal number of the day
// helper function for html template
func ordinalDate(day int) string {
	suffix := "th"
	switch day {
	case 1, 21, 31:
		suffix = "st"
	case 2, 22:
		suffix = "nd"
	case 3, 23:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", day, suffix)
}

// formatDateTime formats a time.Time object into the specified string format.
// helper function for html template
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%s %s %d %d:%02d:%02d %s", ordinalDate(t.Day()), t.Month(), t.Year(), hour, t.Minute(), t.Second(), t.Format("pm"))
}

// formatScore renders an optional score, trimming a trailing ".0".
// helper function for html template
func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// severityKeys lists the breakdown keys in display order.
// helper function for html template
func severityKeys() []string {
	keys := make([]string, 0, len(findings.Severities))
	for _, s := range findings.Severities {
		keys = append(keys, strings.ToLower(s.String()))
	}
	return keys
}

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add":            add,
		"formatDateTime": formatDateTime,
		"formatScore":    formatScore,
		"severityKeys":   severityKeys,
	}
}

// NewTemplate parses the templates matching patterns in fsys. name is the template executed by default.
func NewTemplate(fsys fs.FS, name string, patterns ...string) (*template.Template, error) {
	return template.New(name).
		Funcs(FuncMap()).
		ParseFS(fsys, patterns...)
}
