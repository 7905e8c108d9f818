package service

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/forgo/ems/api/internal/model"
)

// CalendarProductID identifies exported calendars
const CalendarProductID = "-//forgo//ems view host//EN"

// BuildCalendar renders the event and its sessions as an iCalendar feed.
// Entries without a parseable start are left out; a missing end is left
// open.
func BuildCalendar(event *model.Event, sessions []model.Session, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(CalendarProductID)
	cal.SetName(event.Title)

	addEntry(cal, "event-"+event.ID, stamp, event.Title, event.Location, event.Description, event.Start, event.End)
	for _, s := range sessions {
		summary := s.Title
		if s.Speaker != nil && *s.Speaker != "" {
			summary += " (" + *s.Speaker + ")"
		}
		addEntry(cal, "session-"+s.ID, stamp, summary, s.Location, s.Description, s.Start, s.End)
	}

	return cal.Serialize()
}

func addEntry(cal *ical.Calendar, uid string, stamp time.Time, summary string, location, description *string, start, end *model.Timestamp) {
	if start == nil {
		return
	}
	startAt, ok := start.Time()
	if !ok {
		return
	}

	ev := cal.AddEvent(uid + "@ems")
	ev.SetDtStampTime(stamp)
	ev.SetStartAt(startAt)
	if end != nil {
		if endAt, ok := end.Time(); ok {
			ev.SetEndAt(endAt)
		}
	}
	ev.SetSummary(summary)
	if location != nil && *location != "" {
		ev.SetLocation(*location)
	}
	if description != nil && *description != "" {
		ev.SetDescription(*description)
	}
}
