package docflow

// transitions lists the statuses reachable from each status through the
// regular workflow. Version uploads bypass this table: they reopen any
// document that is not DELETED.
var transitions = map[Status][]Status{
	StatusCreated:    {StatusSentToUser, StatusDeleted},
	StatusSentToUser: {StatusViewed, StatusSigned, StatusRejected, StatusDeleted},
	StatusViewed:     {StatusSigned, StatusRejected, StatusDeleted},
	StatusSigned:     {StatusDeleted},
	StatusRejected:   {StatusDeleted},
	StatusDeleted:    nil,
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no regular transition leaves s except deletion.
func (s Status) IsTerminal() bool {
	return s == StatusSigned || s == StatusRejected || s == StatusDeleted
}

// AwaitsDecision reports whether the recipient can still sign or reject.
func (s Status) AwaitsDecision() bool {
	return s == StatusSentToUser || s == StatusViewed
}
