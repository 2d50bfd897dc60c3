package service

import (
	"testing"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []model.RequestStatus{model.RequestPending, model.RequestApproved, model.RequestRejected}
	allowed := map[[2]model.RequestStatus]bool{
		{model.RequestPending, model.RequestApproved}: true,
		{model.RequestPending, model.RequestRejected}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]model.RequestStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestSourcesOf(t *testing.T) {
	assert.Equal(t, []model.RequestStatus{model.RequestPending}, sourcesOf(model.RequestApproved))
	assert.Equal(t, []model.RequestStatus{model.RequestPending}, sourcesOf(model.RequestRejected))
	assert.Empty(t, sourcesOf(model.RequestPending))
}
