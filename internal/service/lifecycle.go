package service

import "github.com/stemsi/command-center/internal/model"

// requestTransitions lists, per state, the states it may move to. approved
// and rejected are terminal; pending may not be re-set to pending.
var requestTransitions = map[model.RequestStatus][]model.RequestStatus{
	model.RequestPending: {model.RequestApproved, model.RequestRejected},
}

// CanTransition reports whether a request may move from one state to another.
func CanTransition(from, to model.RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sourcesOf returns every state from which `to` is reachable, in a stable
// order.
func sourcesOf(to model.RequestStatus) []model.RequestStatus {
	var sources []model.RequestStatus
	for _, from := range []model.RequestStatus{model.RequestPending, model.RequestApproved, model.RequestRejected} {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}
