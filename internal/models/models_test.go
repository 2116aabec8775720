package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusPreparing))
	assert.True(t, ValidStatus(StatusReady))
	assert.True(t, ValidStatus(StatusDelivered))
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusPreparing))
	assert.True(t, CanTransition(StatusPending, StatusDelivered), "skipping forward is allowed")
	assert.True(t, CanTransition(StatusPreparing, StatusReady))

	assert.False(t, CanTransition(StatusReady, StatusPreparing))
	assert.False(t, CanTransition(StatusDelivered, StatusPending))
	assert.False(t, CanTransition(StatusPending, StatusPending))
	assert.False(t, CanTransition("shipped", StatusReady))
	assert.False(t, CanTransition(StatusPending, "shipped"))
}
