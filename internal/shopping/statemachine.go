package shopping

// transitions lists the statuses reachable from each status. Completed is terminal.
var transitions = map[Status][]Status{
	StatusDraft: {StatusReady},
	StatusReady: {StatusDraft, StatusCompleted},
}

// CanTransition reports whether a list may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Editable reports whether the composition of a list in status s may change.
func Editable(s Status) bool {
	return s != StatusCompleted
}
