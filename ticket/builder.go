// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ticket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/unionhall/bmm-portal/auth"
	"github.com/unionhall/bmm-portal/models"
	"github.com/unionhall/bmm-portal/venue"
)

// Placeholder display values used when neither the server ticket nor the
// venue config can supply a field
const (
	PlaceholderVenue   = "Venue to be confirmed"
	PlaceholderAddress = "Address to be confirmed"
	PlaceholderDate    = "Date to be confirmed"
)

// Builder assembles display/print ticket artifacts. The venue config is
// injected so the builder and the session resolver share one lookup table.
type Builder struct {
	venues    *venue.Config
	eventName string
	baseURL   string
	slugSalt  string
}

// NewBuilder creates a ticket artifact builder
func NewBuilder(venues *venue.Config, eventName, baseURL, slugSalt string) *Builder {
	return &Builder{
		venues:    venues,
		eventName: eventName,
		baseURL:   baseURL,
		slugSalt:  slugSalt,
	}
}

// qrPayload is the JSON embedded in ticket QR codes. The scan package must
// be able to re-decode this payload (its "token" field drives check-in).
type qrPayload struct {
	Token            string `json:"token"`
	MembershipNumber string `json:"membershipNumber"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	CheckinURL       string `json:"checkinUrl"`
}

// Build produces a complete artifact for a member. Server ticket fields are
// preferred; anything missing is derived from the member record and the
// venue config, and finally from literal placeholders. Every display field
// of the result is non-empty.
func (b *Builder) Build(m models.Member, t *models.Ticket) models.TicketArtifact {
	art := models.TicketArtifact{
		MemberName:       m.Name,
		MembershipNumber: m.MembershipNumber,
		Region:           m.Region,
		EventName:        b.eventName,
	}

	forum := ""
	if m.Forum != nil {
		forum = *m.Forum
	}
	v, haveVenue := b.venues.Lookup(forum)

	token := m.Token
	if t != nil {
		if t.Token != "" {
			token = t.Token
		}
		art.VenueName = t.VenueName
		art.Address = t.Address
		art.EventDate = t.EventDate
		art.SessionTime = t.SessionTime
	}

	if art.VenueName == "" {
		switch {
		case haveVenue:
			art.VenueName = v.Forum
		case forum != "":
			art.VenueName = forum
		default:
			art.VenueName = PlaceholderVenue
		}
	}
	if art.Address == "" {
		if haveVenue {
			art.Address = v.Address
		} else {
			art.Address = PlaceholderAddress
		}
	}
	if art.EventDate == "" {
		if haveVenue {
			art.EventDate = v.Date
		} else {
			art.EventDate = PlaceholderDate
		}
	}
	if art.SessionTime == "" {
		if m.SessionTime != nil && *m.SessionTime != "" {
			art.SessionTime = *m.SessionTime
		} else {
			prefs := ""
			if m.PreferredTimes != nil {
				prefs = *m.PreferredTimes
			}
			art.SessionTime = b.venues.ResolveSession(forum, prefs)
		}
	}

	art.TimeSpan = venue.TimeSpanFor(art.SessionTime)
	art.CheckinURL = fmt.Sprintf("%s/venue/checkin?token=%s", b.baseURL, token)
	art.ShareURL = fmt.Sprintf("%s/t/%s", b.baseURL, auth.GenerateShareSlug(token, b.slugSalt))

	payload, err := json.Marshal(qrPayload{
		Token:            token,
		MembershipNumber: m.MembershipNumber,
		Name:             m.Name,
		Type:             models.TicketQRType,
		CheckinURL:       art.CheckinURL,
	})
	if err == nil {
		art.QRPayload = string(payload)
	} else {
		// Marshal of a flat string struct cannot realistically fail; keep
		// the bare token so the artifact stays scannable anyway
		art.QRPayload = token
	}

	return art
}

// PNG renders the artifact's QR payload as a PNG image
func (b *Builder) PNG(art models.TicketArtifact, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(art.QRPayload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render ticket QR: %w", err)
	}
	return png, nil
}

const icsTimestamp = "20060102T150405"

// fallbackCalendarStart anchors calendar exports whose date string failed
// to parse: first day of the meeting round, morning session.
var fallbackCalendarStart = time.Date(2026, time.September, 14, 10, 30, 0, 0, time.UTC)

// Calendar renders the artifact as a single-event ICS document. Sessions
// run two hours. An unparseable date degrades to a fixed default window
// rather than failing.
func (b *Builder) Calendar(art models.TicketArtifact) string {
	start := calendarStart(art.EventDate, art.SessionTime)
	end := start.Add(2 * time.Hour)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//bmm-portal//ticket//EN",
		"BEGIN:VEVENT",
		"UID:bmm-" + art.MembershipNumber + "-" + start.Format("20060102"),
		"DTSTAMP:" + time.Now().UTC().Format(icsTimestamp) + "Z",
		"DTSTART:" + start.Format(icsTimestamp),
		"DTEND:" + end.Format(icsTimestamp),
		"SUMMARY:" + escapeICS(b.eventName),
		"LOCATION:" + escapeICS(art.VenueName+", "+art.Address),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

func calendarStart(date, session string) time.Time {
	start, err := time.Parse("2006-01-02 15:04", date+" "+session)
	if err != nil {
		return fallbackCalendarStart
	}
	return start
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
