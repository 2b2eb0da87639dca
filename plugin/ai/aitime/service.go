package aitime

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/Chriskfigures777/Niceone/server/timezone"
)

// Service implements TimeService for Eastern time.
type Service struct {
	parser *Parser
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new time service.
func NewService(opts ...Option) *Service {
	s := &Service{
		parser: NewParser(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseLocalDateTime parses Eastern date/time text.
func (s *Service) ParseLocalDateTime(input string) (civil.DateTime, error) {
	return s.parser.Parse(input)
}

// ParseInstant parses Eastern date/time text and converts it to UTC.
func (s *Service) ParseInstant(input string) (time.Time, error) {
	local, err := s.parser.Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	return timezone.ToUTC(local), nil
}

// Now returns the current instant.
func (s *Service) Now() time.Time {
	return timezone.NormalizeInstant(s.now())
}

// NowEastern returns the current time as Eastern local time.
func (s *Service) NowEastern() civil.DateTime {
	return timezone.ToEastern(s.now())
}

// Ensure Service implements TimeService
var _ TimeService = (*Service)(nil)
