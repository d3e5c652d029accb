package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wayplan/wayplan-backend/models"
	"github.com/wayplan/wayplan-backend/utils"
)

// CalendarService renders a trip's itinerary as an iCalendar document. It is
// a read-only projection; any member may export.
type CalendarService struct {
	items ItineraryStore
	guard *AccessGuard
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(items ItineraryStore, members MembershipStore) *CalendarService {
	return &CalendarService{items: items, guard: NewAccessGuard(members)}
}

// Export renders the trip's items as VEVENTs and returns the document with a
// suggested filename.
func (s *CalendarService) Export(ctx context.Context, tripID, userID string) (string, string, error) {
	trip, _, err := s.guard.Require(ctx, tripID, userID, ActionRead)
	if err != nil {
		return "", "", err
	}
	items, err := s.items.ListByTrip(ctx, tripID)
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//Wayplan//Trip Itinerary//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	now := time.Now().UTC().Format(icsTimestamp)
	for _, item := range items {
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+item.ID+"@wayplan")
		writeLine(&b, "DTSTAMP:"+now)
		writeEventTimes(&b, item)
		writeLine(&b, "SUMMARY:"+escapeICS(item.Title))
		if item.Location != "" {
			writeLine(&b, "LOCATION:"+escapeICS(item.Location))
		}
		if item.Notes != "" {
			writeLine(&b, "DESCRIPTION:"+escapeICS(item.Notes))
		}
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")

	filename := fmt.Sprintf("%s-itinerary.ics", slugify(trip.Title))
	return b.String(), filename, nil
}

const icsTimestamp = "20060102T150405Z"

func writeEventTimes(b *strings.Builder, item *models.ItineraryItem) {
	switch {
	case item.StartTime != nil:
		writeLine(b, "DTSTART:"+item.StartTime.UTC().Format(icsTimestamp))
		if item.EndTime != nil {
			writeLine(b, "DTEND:"+item.EndTime.UTC().Format(icsTimestamp))
		}
	case item.Date != nil:
		// All-day event
		if day, err := time.Parse(utils.DateFormat, *item.Date); err == nil {
			writeLine(b, "DTSTART;VALUE=DATE:"+day.Format("20060102"))
		}
	}
}

// writeLine appends an ICS content line with CRLF per RFC 5545.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeICS(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return replacer.Replace(s)
}

func slugify(s string) string {
	var b strings.Builder
	for _, ch := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == ' ' || ch == '-' || ch == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "trip"
	}
	return b.String()
}
