package service

import "github.com/forgo/ems/api/internal/model"

// ResolveCapabilities derives the actions offered to user on event.
//
// The result depends only on the user's roles, the user's email and the
// event's organizer email. A nil user gets nothing, not even registration.
// Ownership requires the organizer role and an exact, non-empty email match.
func ResolveCapabilities(user *model.User, event *model.Event) model.CapabilitySet {
	if user == nil {
		return model.CapabilitySet{}
	}

	isAdmin := user.IsAdmin()
	isOrganizer := user.IsOrganizer()
	owner := event.OwnerEmail()
	isOwner := isOrganizer && owner != "" && owner == user.Email

	manage := isAdmin || isOwner
	staff := isAdmin || isOrganizer

	return model.CapabilitySet{
		CanRegister:      !staff,
		CanViewAttendees: staff, // any organizer, not only the owner
		CanEdit:          manage,
		CanDelete:        manage,
		CanCreateSession: staff,
		CanEditSession:   staff,
		CanDeleteSession: staff,
	}
}
