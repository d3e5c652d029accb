package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInviteStatusTransitions(t *testing.T) {
	terminal := []InviteStatus{InviteAccepted, InviteExpired, InviteRevoked}

	for _, to := range terminal {
		assert.True(t, InvitePending.CanTransition(to), "pending -> %s", to)
	}
	// Terminal states admit nothing, not even each other.
	for _, from := range terminal {
		for _, to := range append(terminal, InvitePending) {
			assert.False(t, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, InvitePending.CanTransition(InvitePending))
}

func TestInviteExpired(t *testing.T) {
	now := time.Now()
	invite := &TripInvite{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, invite.Expired(now))
	assert.True(t, invite.Expired(now.Add(2*time.Hour)))
	// Boundary: exactly at expiry is still valid.
	assert.False(t, invite.Expired(invite.ExpiresAt))
}
