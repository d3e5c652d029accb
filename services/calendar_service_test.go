package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan/wayplan-backend/models"
)

func TestCalendarExport(t *testing.T) {
	members := newFakeTripStore()
	owner := members.addUser("owner@example.com", "Owner")
	trip := members.addTrip("Winter in Kyoto!", owner)

	items := newFakeItineraryStore()
	itinerarySvc := NewItineraryService(items, members)
	svc := NewCalendarService(items, members)
	ctx := context.Background()

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	_, err := itinerarySvc.CreateItem(ctx, trip.ID, owner, &models.CreateItineraryItemRequest{
		Title:     "Fushimi Inari; early hike",
		Location:  "Kyoto, Japan",
		Notes:     "bring water\nand snacks",
		StartTime: &start,
		EndTime:   &end,
	})
	require.NoError(t, err)

	day := "2026-03-15"
	_, err = itinerarySvc.CreateItem(ctx, trip.ID, owner, &models.CreateItineraryItemRequest{
		Title: "Onsen day",
		Date:  &day,
	})
	require.NoError(t, err)

	document, filename, err := svc.Export(ctx, trip.ID, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, "winter-in-kyoto-itinerary.ics", filename)
	assert.True(t, strings.HasPrefix(document, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(document, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(document, "BEGIN:VEVENT"))

	assert.Contains(t, document, "DTSTART:20260314T090000Z")
	assert.Contains(t, document, "DTEND:20260314T110000Z")
	assert.Contains(t, document, "DTSTART;VALUE=DATE:20260315")
	// Semicolons and newlines are escaped per RFC 5545.
	assert.Contains(t, document, "SUMMARY:Fushimi Inari\\; early hike")
	assert.Contains(t, document, "LOCATION:Kyoto\\, Japan")
	assert.Contains(t, document, "DESCRIPTION:bring water\\nand snacks")
}

func TestCalendarExportMembersOnly(t *testing.T) {
	members := newFakeTripStore()
	owner := members.addUser("owner@example.com", "Owner")
	stranger := members.addUser("stranger@example.com", "Stranger")
	trip := members.addTrip("Kyoto", owner)

	svc := NewCalendarService(newFakeItineraryStore(), members)

	_, _, err := svc.Export(context.Background(), trip.ID, stranger.ID)
	require.Error(t, err)
	assertStatus(t, err, 403)
}
