package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysync/backend/internal/storage/models"
)

func TestParseSingleNightBlock(t *testing.T) {
	// A one-night stay: DTEND is exclusive, so this is a 1-night range,
	// not zero.
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"BEGIN:VEVENT",
		"UID:abc123@airbnb.com",
		"DTSTART;VALUE=DATE:20240601",
		"DTEND;VALUE=DATE:20240602",
		"SUMMARY:Reserved",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "abc123@airbnb.com", events[0].UID)
	assert.Equal(t, "Reserved", events[0].Summary)
	assert.Equal(t, 1, events[0].Range.Nights())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), events[0].Range.Start)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), events[0].Range.End)
}

func TestParseDropsIncompleteEvents(t *testing.T) {
	// One well-formed event, one missing DTEND: exactly one survives.
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:good@example.com",
		"DTSTART;VALUE=DATE:20240610",
		"DTEND;VALUE=DATE:20240615",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:bad@example.com",
		"DTSTART;VALUE=DATE:20240620",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "good@example.com", events[0].UID)
}

func TestParseDropsNonDateValues(t *testing.T) {
	// Timed DTSTART values are not the all-day form this core models.
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:timed@example.com",
		"DTSTART:20240610T140000Z",
		"DTEND:20240615T100000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseDropsMissingUID(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"DTSTART;VALUE=DATE:20240610",
		"DTEND;VALUE=DATE:20240615",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseDropsInvertedRange(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:inverted@example.com",
		"DTSTART;VALUE=DATE:20240615",
		"DTEND;VALUE=DATE:20240610",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseFoldedAndEscapedText(t *testing.T) {
	doc := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:folded@example.com",
		"DTSTART;VALUE=DATE:20240701",
		"DTEND;VALUE=DATE:20240705",
		"SUMMARY:Reserved for a very long",
		" stay\\, with folding",
		"DESCRIPTION:line one\\nline two",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Reserved for a very longstay, with folding", events[0].Summary)
	assert.Equal(t, "line one\nline two", events[0].Description)
}

func TestGenerateHeadersAndPrivacy(t *testing.T) {
	source := "airbnb"
	reservations := []models.Reservation{
		{
			ID:         "res-1",
			PropertyID: "prop-1",
			Range:      models.NewDateRange(2024, time.June, 1, 2024, time.June, 5),
			GuestCount: 2,
			TotalPrice: 540,
			Status:     models.ReservationStatusConfirmed,
		},
		{
			ID:              "res-2",
			PropertyID:      "prop-1",
			Range:           models.NewDateRange(2024, time.July, 10, 2024, time.July, 11),
			IsExternalBlock: true,
			SourceLabel:     &source,
			Status:          models.ReservationStatusConfirmed,
		},
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := Generate(reservations, "Seaside Cottage", now)

	assert.Contains(t, doc, "VERSION:2.0")
	assert.Contains(t, doc, "PRODID:"+prodID)
	assert.Contains(t, doc, "X-WR-CALNAME:Seaside Cottage")
	assert.Contains(t, doc, "UID:res-1@"+uidDomain)
	assert.Contains(t, doc, "STATUS:CONFIRMED")
	assert.Contains(t, doc, "SUMMARY:Reserved (4 nights)")
	assert.Contains(t, doc, "SUMMARY:Reserved (1 nights)")

	// Exported feeds are public: no prices, no guest details.
	assert.NotContains(t, doc, "540")
}

func TestGenerateParseRoundTrip(t *testing.T) {
	reservations := []models.Reservation{
		{ID: "res-1", Range: models.NewDateRange(2024, time.June, 1, 2024, time.June, 5)},
		{ID: "res-2", Range: models.NewDateRange(2024, time.July, 10, 2024, time.July, 11)},
		{ID: "res-3", Range: models.NewDateRange(2024, time.December, 28, 2025, time.January, 2)},
	}

	doc := Generate(reservations, "Roundtrip", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))

	events, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, events, len(reservations))

	got := make(map[string]models.DateRange)
	for _, e := range events {
		got[e.UID] = e.Range
	}

	for _, res := range reservations {
		rng, ok := got[res.ID+"@"+uidDomain]
		require.True(t, ok, "missing event for %s", res.ID)
		assert.True(t, rng.Equal(res.Range), "range mismatch for %s: got %s want %s", res.ID, rng, res.Range)
	}
}
