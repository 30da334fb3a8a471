package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/staysync/backend/internal/storage/models"
)

// uidDomain suffixes every generated event UID. Re-importing our own
// export through another platform keeps UIDs stable across runs, and
// the suffix makes our events recognizable in third-party calendars.
const uidDomain = "calendar.staysync.app"

// prodID identifies the generator in the exported document header.
const prodID = "-//StaySync//Calendar Export//EN"

// Generate produces an iCal document for the given reservations,
// suitable for consumption by external booking platforms. Dates are
// emitted as all-day values with exclusive DTEND. Summaries are a
// generic "Reserved" label with the night count: exported feeds are
// public, so no guest name, email or price ever appears in them.
// now is used as the DTSTAMP of every event.
func Generate(reservations []models.Reservation, propertyLabel string, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetXWRCalName(propertyLabel)

	for _, res := range reservations {
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", res.ID, uidDomain))
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(res.Range.Start)
		ev.SetAllDayEndAt(res.Range.End)
		ev.SetSummary(fmt.Sprintf("Reserved (%d nights)", res.Range.Nights()))
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize()
}
