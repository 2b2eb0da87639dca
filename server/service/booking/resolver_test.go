package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chriskfigures777/Niceone/plugin/ai/aitime"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

func appt(t *testing.T, id, start string, status Status) Appointment {
	t.Helper()
	ts, err := timezone.ParseInstant(start)
	require.NoError(t, err)
	return Appointment{ID: id, Start: ts, Status: status, DisplayTitle: "Connect Meeting", AttendeeName: "Sam"}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates func(t *testing.T) []Appointment
		wantID     string
		wantNone   bool
	}{
		{
			name:  "thirty minutes after on the same date matches",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{appt(t, "a", "2026-07-15T18:30:00Z", StatusActive)}
			},
			wantID: "a",
		},
		{
			name:  "right time on the wrong date never matches",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{appt(t, "b", "2026-07-16T18:00:00Z", StatusActive)}
			},
			wantNone: true,
		},
		{
			name:  "thirty one minutes is outside the window",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{appt(t, "c", "2026-07-15T18:31:00Z", StatusActive)}
			},
			wantNone: true,
		},
		{
			name:  "thirty minutes before matches",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{appt(t, "d", "2026-07-15T17:30:00Z", StatusActive)}
			},
			wantID: "d",
		},
		{
			name:  "cancelled appointments are skipped even on exact time",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "gone", "2026-07-15T18:00:00Z", StatusCancelled),
					appt(t, "live", "2026-07-15T18:20:00Z", StatusActive),
				}
			},
			wantID: "live",
		},
		{
			name:  "only cancelled appointments yields no match",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{appt(t, "gone", "2026-07-15T18:00:00Z", StatusCancelled)}
			},
			wantNone: true,
		},
		{
			name:  "nearest candidate wins",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "far", "2026-07-15T18:20:00Z", StatusActive),
					appt(t, "near", "2026-07-15T17:55:00Z", StatusActive),
				}
			},
			wantID: "near",
		},
		{
			name:  "equal distance goes to the earlier input position",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "after", "2026-07-15T18:15:00Z", StatusActive),
					appt(t, "before", "2026-07-15T17:45:00Z", StatusActive),
				}
			},
			wantID: "after",
		},
		{
			name:  "equal distance reversed input order",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "before", "2026-07-15T17:45:00Z", StatusActive),
					appt(t, "after", "2026-07-15T18:15:00Z", StatusActive),
				}
			},
			wantID: "before",
		},
		{
			name:  "late evening compares eastern date not utc date",
			query: "July 15, 2026 11:50 PM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "next-day", "2026-07-16T04:10:00Z", StatusActive),
					appt(t, "same-day", "2026-07-16T03:55:00Z", StatusActive),
				}
			},
			wantID: "same-day",
		},
		{
			name:  "winter appointment uses standard time",
			query: "01/10/2026 9:00 AM",
			candidates: func(t *testing.T) []Appointment {
				return []Appointment{
					appt(t, "edt-guess", "2026-01-10T13:00:00Z", StatusActive),
					appt(t, "est", "2026-01-10T14:10:00Z", StatusActive),
				}
			},
			wantID: "est",
		},
		{
			name:  "no candidates",
			query: "2026-07-15 2:00 PM",
			candidates: func(t *testing.T) []Appointment {
				return nil
			},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.query, tt.candidates(t))
			if tt.wantNone {
				var noMatch *NoMatchError
				require.True(t, errors.As(err, &noMatch), "want NoMatchError, got %v", err)
				assert.Equal(t, tt.query, noMatch.Query)
				assert.Contains(t, err.Error(), "booking UID")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestResolve_TieBreakIsStable(t *testing.T) {
	candidates := []Appointment{
		appt(t, "first", "2026-07-15T18:10:00Z", StatusActive),
		appt(t, "second", "2026-07-15T17:50:00Z", StatusActive),
		appt(t, "third", "2026-07-15T18:10:00Z", StatusActive),
	}
	for i := 0; i < 50; i++ {
		got, err := Resolve("2026-07-15 14:00", candidates)
		require.NoError(t, err)
		require.Equal(t, "first", got.ID)
	}
}

func TestResolve_ParseErrorPropagates(t *testing.T) {
	_, err := Resolve("sometime next week", []Appointment{appt(t, "a", "2026-07-15T18:00:00Z", StatusActive)})

	var parseErr *aitime.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "sometime next week", parseErr.Input)
}
