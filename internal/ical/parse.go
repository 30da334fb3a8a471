// Package ical implements the iCalendar codec for availability feeds:
// an error-tolerant parser for the all-day subset exchanged by booking
// platforms, and a generator for the canonical export feed. The codec
// is pure; fetching and persistence live elsewhere.
package ical

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// Parse reads an iCal document and returns one CalendarEvent per
// well-formed VEVENT. An event missing its UID, DTSTART or DTEND, or
// carrying a date that is not an 8-digit YYYYMMDD token, is dropped
// silently: one bad event must not prevent importing the rest of the
// feed. Only reading failures are reported as errors.
func Parse(r io.Reader) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	var current *models.CalendarEvent
	var currentField string
	var folded strings.Builder

	flush := func() {
		if currentField != "" && current != nil {
			setEventField(current, currentField, folded.String())
		}
		currentField = ""
		folded.Reset()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		// Folded continuation lines start with a space or tab.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if currentField != "" {
				folded.WriteString(line[1:])
			}
			continue
		}

		flush()

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}

		field := line[:colonIdx]
		value := line[colonIdx+1:]

		// Strip property parameters (e.g. DTSTART;VALUE=DATE:20240601).
		if semicolonIdx := strings.Index(field, ";"); semicolonIdx != -1 {
			field = field[:semicolonIdx]
		}

		switch field {
		case "BEGIN":
			if value == "VEVENT" {
				current = &models.CalendarEvent{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				if isComplete(current) {
					events = append(events, *current)
				}
				current = nil
			}
		case "UID", "SUMMARY", "DESCRIPTION", "DTSTART", "DTEND":
			if current != nil {
				currentField = field
				folded.WriteString(value)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}

	return events, nil
}

// isComplete reports whether a parsed event carries everything the sync
// pipeline needs: an identifier and a valid half-open date range.
func isComplete(e *models.CalendarEvent) bool {
	return e.UID != "" && !e.Range.Start.IsZero() && !e.Range.End.IsZero() && e.Range.IsValid()
}

func setEventField(event *models.CalendarEvent, field, value string) {
	value = unescape(value)

	switch field {
	case "UID":
		event.UID = value
	case "SUMMARY":
		event.Summary = value
	case "DESCRIPTION":
		event.Description = value
	case "DTSTART":
		event.Range.Start = parseDate(value)
	case "DTEND":
		event.Range.End = parseDate(value)
	}
}

// unescape reverses the common iCal text escapes.
func unescape(value string) string {
	value = strings.ReplaceAll(value, "\\n", "\n")
	value = strings.ReplaceAll(value, "\\N", "\n")
	value = strings.ReplaceAll(value, "\\,", ",")
	value = strings.ReplaceAll(value, "\\;", ";")
	value = strings.ReplaceAll(value, "\\\\", "\\")
	return value
}

// parseDate parses an 8-digit YYYYMMDD date token into a UTC midnight
// time. Any other format, including date-times, yields the zero time so
// the enclosing event is dropped. Availability feeds are all-day only;
// a platform emitting timed events is exporting something this core
// does not model.
func parseDate(value string) time.Time {
	if len(value) != 8 {
		return time.Time{}
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return time.Time{}
		}
	}

	t, err := time.ParseInLocation("20060102", value, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
