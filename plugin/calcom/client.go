// Package calcom is a client for the Cal.com v2 bookings API.
package calcom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Chriskfigures777/Niceone/plugin/ai/timeout"
	"github.com/Chriskfigures777/Niceone/server/service/booking"
	"github.com/Chriskfigures777/Niceone/server/timezone"
)

const (
	DefaultBaseURL    = "https://api.cal.com/v2"
	DefaultAPIVersion = "2024-08-13"

	DefaultConnectEventTypeID  int64 = 4145759
	DefaultDiscoverEventTypeID int64 = 4145757

	attendeeLanguage = "en"
	maxErrorBody     = 4 << 10
)

// Config configures a Client.
type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	// EventTypes maps meeting kinds to Cal.com event type IDs.
	EventTypes map[booking.MeetingKind]int64
	HTTPClient *http.Client
}

// Client implements booking.SchedulingClient against Cal.com.
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	eventTypes map[booking.MeetingKind]int64
	httpClient *http.Client
}

var _ booking.SchedulingClient = (*Client)(nil)

// NewClient creates a Cal.com client. Empty fields take the production defaults.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("calcom: API key is required")
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		eventTypes: cfg.EventTypes,
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.eventTypes == nil {
		c.eventTypes = map[booking.MeetingKind]int64{
			booking.KindConnect:  DefaultConnectEventTypeID,
			booking.KindDiscover: DefaultDiscoverEventTypeID,
		}
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: timeout.SchedulingRequestTimeout}
	}
	return c, nil
}

// ListAppointments lists bookings and keeps those involving email.
// Cancelled bookings never appear in an active listing.
func (c *Client) ListAppointments(ctx context.Context, email string, status booking.ListStatus, limit int) ([]booking.Appointment, error) {
	q := url.Values{}
	q.Set("take", strconv.Itoa(limit))
	q.Set("status", wireStatus(status))

	var payloads []bookingPayload
	if err := c.do(ctx, http.MethodGet, "/bookings?"+q.Encode(), nil, &payloads); err != nil {
		return nil, err
	}

	list := make([]booking.Appointment, 0, len(payloads))
	for _, p := range payloads {
		if email != "" && !p.involves(email) {
			continue
		}
		a := p.appointment()
		if status == booking.ListActive && a.Status == booking.StatusCancelled {
			continue
		}
		list = append(list, a)
	}
	return list, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (booking.Appointment, error) {
	var p bookingPayload
	if err := c.do(ctx, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &p); err != nil {
		return booking.Appointment{}, err
	}
	return p.appointment(), nil
}

func (c *Client) CreateAppointment(ctx context.Context, create booking.CreateRequest) (booking.Appointment, error) {
	eventTypeID, ok := c.eventTypes[create.Kind]
	if !ok {
		return booking.Appointment{}, &booking.ValidationError{Field: "kind", Message: fmt.Sprintf("Unknown meeting type %q.", create.Kind)}
	}

	body := createBody{
		EventTypeID: eventTypeID,
		Start:       timezone.FormatInstant(create.Start),
		Attendee: person{
			Name:     create.AttendeeName,
			Email:    create.AttendeeEmail,
			TimeZone: timezone.TimezoneAmericaNewYork,
			Language: attendeeLanguage,
		},
		Notes: create.Notes,
	}
	var p bookingPayload
	if err := c.do(ctx, http.MethodPost, "/bookings", body, &p); err != nil {
		return booking.Appointment{}, err
	}
	return p.appointment(), nil
}

func (c *Client) RescheduleAppointment(ctx context.Context, id string, newStart time.Time, reason string) (booking.Appointment, error) {
	body := rescheduleBody{Start: timezone.FormatInstant(newStart), ReschedulingReason: reason}
	var p bookingPayload
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/reschedule", body, &p); err != nil {
		return booking.Appointment{}, err
	}
	return p.appointment(), nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string, reason string) (booking.Appointment, error) {
	var p bookingPayload
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/cancel", cancelBody{CancellationReason: reason}, &p); err != nil {
		return booking.Appointment{}, err
	}
	return p.appointment(), nil
}

func (c *Client) AddGuests(ctx context.Context, id string, guests []booking.Guest) (booking.Appointment, error) {
	body := guestsBody{Guests: make([]person, 0, len(guests))}
	for _, g := range guests {
		body.Guests = append(body.Guests, person{Email: g.Email, Name: g.Name})
	}
	var p bookingPayload
	if err := c.do(ctx, http.MethodPost, "/bookings/"+url.PathEscape(id)+"/guests", body, &p); err != nil {
		return booking.Appointment{}, err
	}
	return p.appointment(), nil
}

// do sends one request and decodes the envelope's data into out.
// Non-2xx answers become *booking.ExternalServiceError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("cal-api-version", c.apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		slog.Warn("scheduling service request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return &booking.ExternalServiceError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s %s", method, path)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrapf(err, "failed to decode data of %s %s", method, path)
	}
	return nil
}

func wireStatus(s booking.ListStatus) string {
	switch s {
	case booking.ListPast:
		return "past"
	case booking.ListCancelled:
		return "cancelled"
	default:
		return "upcoming"
	}
}
