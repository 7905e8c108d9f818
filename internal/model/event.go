package model

// Event is the canonical event record
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Capacity       *int       `json:"capacity,omitempty"`
	Published      bool       `json:"published"`
	OrganizerEmail *string    `json:"organizerEmail,omitempty"`
	Start          *Timestamp `json:"start"`
	End            *Timestamp `json:"end"`
	// Sessions embedded in the event record, when the upstream includes them.
	// Only used as the secondary source when loading a view's sessions.
	Sessions []Session `json:"-"`
}

// OwnerEmail returns the recorded organizer email or ""
func (e *Event) OwnerEmail() string {
	if e == nil || e.OrganizerEmail == nil {
		return ""
	}
	return *e.OrganizerEmail
}

// TimeRange renders the event's time bounds
func (e *Event) TimeRange() (string, bool) {
	return FormatTimeRange(e.Start, e.End)
}

// RawOrganizer is the nested organizer object some upstreams embed
type RawOrganizer struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// RawEvent is an event as the upstream sends it. Time bounds arrive under
// either {startTime, endTime} or {startAt, endAt}.
type RawEvent struct {
	ID             string        `json:"id"`
	Title          string        `json:"title,omitempty"`
	Name           string        `json:"name,omitempty"`
	Description    *string       `json:"description,omitempty"`
	Location       *string       `json:"location,omitempty"`
	Venue          *string       `json:"venue,omitempty"`
	Capacity       *int          `json:"capacity,omitempty"`
	Published      bool          `json:"published"`
	OrganizerEmail *string       `json:"organizerEmail,omitempty"`
	Organizer      *RawOrganizer `json:"organizer,omitempty"`
	StartTime      *Timestamp    `json:"startTime,omitempty"`
	EndTime        *Timestamp    `json:"endTime,omitempty"`
	StartAt        *Timestamp    `json:"startAt,omitempty"`
	EndAt          *Timestamp    `json:"endAt,omitempty"`
	Sessions       []RawSession  `json:"sessions,omitempty"`
}

// Normalize maps the raw record onto the canonical shape.
// Each field resolves independently against its own precedence chain.
func (r *RawEvent) Normalize() *Event {
	e := &Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    firstNonEmpty(r.Location, r.Venue),
		Capacity:    r.Capacity,
		Published:   r.Published,
		Start:       ResolveBound(r.StartTime, r.StartAt),
		End:         ResolveBound(r.EndTime, r.EndAt),
	}
	if e.Title == "" {
		e.Title = r.Name
	}

	var nested *string
	if r.Organizer != nil && r.Organizer.Email != "" {
		nested = &r.Organizer.Email
	}
	e.OrganizerEmail = firstNonEmpty(nested, r.OrganizerEmail)

	if r.Sessions != nil {
		e.Sessions = NormalizeSessions(r.Sessions, r.ID)
	}
	return e
}

// NormalizeEvents normalizes a list of raw events
func NormalizeEvents(raw []RawEvent) []*Event {
	out := make([]*Event, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].Normalize())
	}
	return out
}

// EventStats summarizes an organizer's event list
type EventStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

// SummarizeEvents counts published and draft events
func SummarizeEvents(events []*Event) EventStats {
	stats := EventStats{Total: len(events)}
	for _, e := range events {
		if e.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
	}
	return stats
}

// Attendee is a registered participant of an event
type Attendee struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
}

// Registration confirms a self-registration for an event
type Registration struct {
	ID      string `json:"id,omitempty"`
	EventID string `json:"eventId"`
	Status  string `json:"status,omitempty"`
}

func firstNonEmpty(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			s := *v
			return &s
		}
	}
	return nil
}
