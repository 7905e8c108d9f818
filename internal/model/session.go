package model

// Session is a scheduled slot inside an event
type Session struct {
	ID          string     `json:"id,omitempty"` // assigned by the store on creation
	EventID     string     `json:"eventId"`
	Title       string     `json:"title"`
	Speaker     *string    `json:"speaker,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Description *string    `json:"description,omitempty"`
	Start       *Timestamp `json:"start"`
	End         *Timestamp `json:"end"`
}

// TimeRange renders the session's time bounds
func (s *Session) TimeRange() (string, bool) {
	return FormatTimeRange(s.Start, s.End)
}

// RawSession is a session as the upstream sends it
type RawSession struct {
	ID          string     `json:"id,omitempty"`
	EventID     string     `json:"eventId,omitempty"`
	Title       string     `json:"title"`
	Speaker     *string    `json:"speaker,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *Timestamp `json:"startTime,omitempty"`
	EndTime     *Timestamp `json:"endTime,omitempty"`
	StartAt     *Timestamp `json:"startAt,omitempty"`
	EndAt       *Timestamp `json:"endAt,omitempty"`
}

// Normalize maps the raw record onto the canonical shape. eventID fills in
// the parent reference when the record does not carry one.
func (r *RawSession) Normalize(eventID string) Session {
	s := Session{
		ID:          r.ID,
		EventID:     r.EventID,
		Title:       r.Title,
		Speaker:     r.Speaker,
		Location:    r.Location,
		Description: r.Description,
		Start:       ResolveBound(r.StartTime, r.StartAt),
		End:         ResolveBound(r.EndTime, r.EndAt),
	}
	if s.EventID == "" {
		s.EventID = eventID
	}
	return s
}

// NormalizeSessions normalizes a list of raw sessions
func NormalizeSessions(raw []RawSession, eventID string) []Session {
	out := make([]Session, 0, len(raw))
	for i := range raw {
		out = append(out, raw[i].Normalize(eventID))
	}
	return out
}

// SessionDraft is the user-entered form for creating or editing a session.
// Bounds are datetime-local values and may lack seconds.
type SessionDraft struct {
	Title       string  `json:"title"`
	Speaker     *string `json:"speaker,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
}

// Validate checks the draft for problems a user can fix
func (d *SessionDraft) Validate() []FieldError {
	var errors []FieldError
	if d.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	}
	if d.StartTime != nil && d.EndTime != nil {
		start, okStart := Timestamp(*d.StartTime).Time()
		end, okEnd := Timestamp(*d.EndTime).Time()
		if okStart && okEnd && end.Before(start) {
			errors = append(errors, FieldError{Field: "endTime", Message: "end time must not be before start time"})
		}
	}
	return errors
}

// Outbound returns the draft as it should be transmitted: minute-precision
// bounds are padded to seconds precision.
func (d SessionDraft) Outbound() SessionDraft {
	out := d
	if d.StartTime != nil {
		v := PadSeconds(*d.StartTime)
		out.StartTime = &v
	}
	if d.EndTime != nil {
		v := PadSeconds(*d.EndTime)
		out.EndTime = &v
	}
	return out
}

// EditDraft prefills an edit form from a stored session
func EditDraft(s Session) SessionDraft {
	d := SessionDraft{
		Title:       s.Title,
		Speaker:     s.Speaker,
		Location:    s.Location,
		Description: s.Description,
	}
	empty := ""
	d.StartTime, d.EndTime = &empty, &empty
	if s.Start != nil {
		v := TrimToMinute(string(*s.Start))
		d.StartTime = &v
	}
	if s.End != nil {
		v := TrimToMinute(string(*s.End))
		d.EndTime = &v
	}
	return d
}
