package booking

import (
	"cloud.google.com/go/civil"

	"github.com/Chriskfigures777/Niceone/plugin/ai/aitime"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

// MatchCandidate is an appointment under consideration during one Resolve call.
type MatchCandidate struct {
	Appointment  Appointment
	DeltaMinutes int
}

// Resolve finds the appointment a caller means by an Eastern date/time.
//
// Cancelled appointments are skipped. A candidate must start on the same
// Eastern calendar date as the query and within MatchWindowMinutes of its
// clock time. The nearest candidate wins; equal distances go to the one that
// appears first in candidates.
func Resolve(query string, candidates []Appointment) (Appointment, error) {
	target, err := aitime.ParseLocalDateTime(query)
	if err != nil {
		return Appointment{}, err
	}

	best, ok := nearest(target, candidates)
	if !ok {
		return Appointment{}, &NoMatchError{Query: query}
	}
	return best.Appointment, nil
}

func nearest(target civil.DateTime, appointments []Appointment) (MatchCandidate, bool) {
	var (
		best  MatchCandidate
		found bool
	)
	for _, a := range appointments {
		c, ok := candidate(target, a)
		if !ok {
			continue
		}
		// Strict comparison keeps the earliest of equal distances.
		if !found || c.DeltaMinutes < best.DeltaMinutes {
			best, found = c, true
		}
	}
	return best, found
}

func candidate(target civil.DateTime, a Appointment) (MatchCandidate, bool) {
	if a.Status == StatusCancelled {
		return MatchCandidate{}, false
	}

	local := timezone.ToEastern(a.Start)
	if local.Date != target.Date {
		return MatchCandidate{}, false
	}

	delta := minuteOfDay(local.Time) - minuteOfDay(target.Time)
	if delta < 0 {
		delta = -delta
	}
	if delta > MatchWindowMinutes {
		return MatchCandidate{}, false
	}
	return MatchCandidate{Appointment: a, DeltaMinutes: delta}, true
}

func minuteOfDay(t civil.Time) int {
	return t.Hour*60 + t.Minute
}
