package model

// CapabilitySet lists the actions the UI offers a user on one event.
// It is derived on demand and never persisted.
type CapabilitySet struct {
	CanRegister      bool `json:"canRegister"`
	CanViewAttendees bool `json:"canViewAttendees"`
	CanEdit          bool `json:"canEdit"`
	CanDelete        bool `json:"canDelete"`
	CanCreateSession bool `json:"canCreateSession"`
	CanEditSession   bool `json:"canEditSession"`
	CanDeleteSession bool `json:"canDeleteSession"`
}

// Action names a gated UI action
type Action string

const (
	ActionRegister      Action = "register"
	ActionViewAttendees Action = "view_attendees"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionCreateSession Action = "create_session"
	ActionEditSession   Action = "edit_session"
	ActionDeleteSession Action = "delete_session"
)

// Allows reports whether the action is offered
func (c CapabilitySet) Allows(action Action) bool {
	switch action {
	case ActionRegister:
		return c.CanRegister
	case ActionViewAttendees:
		return c.CanViewAttendees
	case ActionEdit:
		return c.CanEdit
	case ActionDelete:
		return c.CanDelete
	case ActionCreateSession:
		return c.CanCreateSession
	case ActionEditSession:
		return c.CanEditSession
	case ActionDeleteSession:
		return c.CanDeleteSession
	}
	return false
}
