package domain

// TransitionAction is a named state-machine action on an appointment
type TransitionAction string

const (
	ActionReview   TransitionAction = "review"
	ActionApprove  TransitionAction = "approve"
	ActionDecline  TransitionAction = "decline"
	ActionComplete TransitionAction = "complete"
	ActionCancel   TransitionAction = "cancel"
)

// transitionSources maps each action to its allowed source statuses.
// The graph is strictly forward-only: terminal statuses (declined,
// cancelled, completed) appear in no source set.
var transitionSources = map[TransitionAction][]AppointmentStatus{
	ActionReview:   {StatusRequested},
	ActionApprove:  {StatusReviewed},
	ActionDecline:  {StatusRequested, StatusReviewed},
	ActionComplete: {StatusApproved},
	ActionCancel:   {StatusRequested, StatusReviewed, StatusApproved},
}

// transitionTargets maps each action to the status it produces
var transitionTargets = map[TransitionAction]AppointmentStatus{
	ActionReview:   StatusReviewed,
	ActionApprove:  StatusApproved,
	ActionDecline:  StatusDeclined,
	ActionComplete: StatusCompleted,
	ActionCancel:   StatusCancelled,
}

// IsValidAction returns true for a known transition action
func IsValidAction(action TransitionAction) bool {
	_, ok := transitionTargets[action]
	return ok
}

// CanTransition reports whether the action is permitted from the given status
func CanTransition(from AppointmentStatus, action TransitionAction) bool {
	for _, src := range transitionSources[action] {
		if src == from {
			return true
		}
	}
	return false
}

// TargetStatus returns the status produced by the action
func TargetStatus(action TransitionAction) (AppointmentStatus, bool) {
	target, ok := transitionTargets[action]
	return target, ok
}
