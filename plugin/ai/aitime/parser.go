package aitime

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Format is one accepted date/time shape.
type Format struct {
	Name   string
	Layout string
}

// DefaultFormats lists accepted formats in priority order. Numeric month,
// day and 12-hour fields accept one or two digits.
var DefaultFormats = []Format{
	{"iso seconds", "2006-1-2 15:04:05"},
	{"iso", "2006-1-2 15:04"},
	{"iso T seconds", "2006-1-2T15:04:05"},
	{"iso T", "2006-1-2T15:04"},
	{"us 24h", "1/2/2006 15:04"},
	{"us 12h", "1/2/2006 3:04 PM"},
	{"us 12h seconds", "1/2/2006 3:04:05 PM"},
	{"long month", "January 2, 2006 3:04 PM"},
	{"long month seconds", "January 2, 2006 3:04:05 PM"},
	{"short month", "Jan 2, 2006 3:04 PM"},
	{"short month seconds", "Jan 2, 2006 3:04:05 PM"},
	{"iso 12h", "2006-1-2 3:04 PM"},
	{"iso 12h seconds", "2006-1-2 3:04:05 PM"},
}

var (
	// "2pm", "2 p.m.", "2:00pm" -> "2 PM"
	meridiemPattern = regexp.MustCompile(`(?i)(\d)\s*([ap])\.?\s?m\.?$`)
	atPattern       = regexp.MustCompile(`(?i)\s+at\s+`)
	weekdayPattern  = regexp.MustCompile(`(?i)^(mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)[a-z]*,?\s+`)
	zoneSuffixes    = []string{" eastern time", " eastern", " et", " est", " edt"}
	// A 12-hour clock runs 1 to 12; time.Parse would also take hour 0.
	zeroHourPattern = regexp.MustCompile(`(^|\s)0{1,2}:\d{2}(:\d{2})? [AP]M$`)
)

// ParseError reports text that matched none of the accepted formats.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse date/time %q", e.Input)
}

// Parser parses Eastern date/time text against an ordered format list.
type Parser struct {
	formats []Format
}

// NewParser creates a parser using DefaultFormats.
func NewParser() *Parser {
	return &Parser{formats: DefaultFormats}
}

var defaultParser = NewParser()

// ParseLocalDateTime parses input with the default parser.
func ParseLocalDateTime(input string) (civil.DateTime, error) {
	return defaultParser.Parse(input)
}

// Parse returns the local time for the first format that matches input.
func (p *Parser) Parse(input string) (civil.DateTime, error) {
	normalized := normalize(input)
	if normalized == "" || zeroHourPattern.MatchString(normalized) {
		return civil.DateTime{}, &ParseError{Input: input}
	}

	for _, f := range p.formats {
		if t, err := time.Parse(f.Layout, normalized); err == nil {
			return civil.DateTimeOf(t), nil
		}
	}

	return civil.DateTime{}, &ParseError{Input: input}
}

// normalize folds the spellings people use into the layouts above.
func normalize(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	if s == "" {
		return ""
	}

	for trimmed := true; trimmed; {
		trimmed = false
		for _, suffix := range zoneSuffixes {
			n := len(s) - len(suffix)
			if n > 0 && strings.EqualFold(s[n:], suffix) {
				s, trimmed = s[:n], true
			}
		}
	}

	s = weekdayPattern.ReplaceAllString(s, "")
	s = atPattern.ReplaceAllString(s, " ")
	s = meridiemPattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := meridiemPattern.FindStringSubmatch(m)
		return parts[1] + " " + strings.ToUpper(parts[2]) + "M"
	})

	return strings.TrimSpace(s)
}
