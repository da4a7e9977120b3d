package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMigrationStatusTransitions(t *testing.T) {
	allowed := []struct {
		from, to MigrationStatus
	}{
		{MigrationStatusPendingApproval, MigrationStatusApproved},
		{MigrationStatusPendingApproval, MigrationStatusRejected},
		{MigrationStatusPendingApproval, MigrationStatusCancelled},
		{MigrationStatusApproved, MigrationStatusQueued},
		{MigrationStatusQueued, MigrationStatusExecuting},
		{MigrationStatusQueued, MigrationStatusPreparing},
		{MigrationStatusQueued, MigrationStatusCancelled},
		{MigrationStatusPreparing, MigrationStatusTransferring},
		{MigrationStatusPreparing, MigrationStatusFailed},
		{MigrationStatusPreparing, MigrationStatusCancelled},
		{MigrationStatusTransferring, MigrationStatusCompleted},
		{MigrationStatusTransferring, MigrationStatusFailed},
		{MigrationStatusTransferring, MigrationStatusCancelled},
		{MigrationStatusExecuting, MigrationStatusCompleted},
		{MigrationStatusExecuting, MigrationStatusFailed},
	}
	for _, edge := range allowed {
		assert.True(t, edge.from.CanTransitionTo(edge.to), "%s -> %s should be allowed", edge.from, edge.to)
	}

	denied := []struct {
		from, to MigrationStatus
	}{
		{MigrationStatusPendingApproval, MigrationStatusQueued},
		{MigrationStatusApproved, MigrationStatusExecuting},
		{MigrationStatusQueued, MigrationStatusCompleted},
		{MigrationStatusExecuting, MigrationStatusCancelled},
		{MigrationStatusCompleted, MigrationStatusExecuting},
		{MigrationStatusRejected, MigrationStatusApproved},
	}
	for _, edge := range denied {
		assert.False(t, edge.from.CanTransitionTo(edge.to), "%s -> %s should be denied", edge.from, edge.to)
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	all := []MigrationStatus{
		MigrationStatusPendingApproval, MigrationStatusApproved,
		MigrationStatusQueued, MigrationStatusPreparing,
		MigrationStatusTransferring, MigrationStatusExecuting,
		MigrationStatusCompleted, MigrationStatusFailed,
		MigrationStatusRejected, MigrationStatusCancelled,
	}

	for _, status := range all {
		if !status.IsTerminal() {
			continue
		}
		for _, target := range all {
			assert.False(t, status.CanTransitionTo(target), "terminal %s must not reach %s", status, target)
		}
	}
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, MigrationStatusPendingApproval.IsCancellable())
	assert.True(t, MigrationStatusQueued.IsCancellable())
	assert.True(t, MigrationStatusPreparing.IsCancellable())
	assert.True(t, MigrationStatusTransferring.IsCancellable())

	// Executing has side effects in flight, terminal states are final.
	assert.False(t, MigrationStatusExecuting.IsCancellable())
	assert.False(t, MigrationStatusApproved.IsCancellable())
	assert.False(t, MigrationStatusCompleted.IsCancellable())
	assert.False(t, MigrationStatusCancelled.IsCancellable())
}

func TestActiveStatusesAreNonTerminal(t *testing.T) {
	for _, status := range ActiveStatuses() {
		assert.False(t, status.IsTerminal(), "%s listed active but is terminal", status)
	}
	assert.Len(t, ActiveStatuses(), 6)
}

func TestHistoryAppendDoesNotMutateReceiver(t *testing.T) {
	base := History{{To: MigrationStatusPendingApproval, Actor: "u1", At: time.Now()}}

	next := base.Append(HistoryEntry{From: MigrationStatusPendingApproval, To: MigrationStatusApproved, Actor: "u2"})

	assert.Len(t, base, 1)
	assert.Len(t, next, 2)
	assert.Equal(t, MigrationStatusApproved, next[1].To)
}
