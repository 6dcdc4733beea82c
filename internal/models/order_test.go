package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aurastore_back_end/internal/models"
)

func TestStatusLifecycle(t *testing.T) {
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusConfirmed))
	assert.True(t, models.StatusPending.CanTransitionTo(models.StatusCancelled))
	assert.True(t, models.StatusConfirmed.CanTransitionTo(models.StatusShipped))
	assert.True(t, models.StatusShipped.CanTransitionTo(models.StatusOutForDelivery))
	assert.True(t, models.StatusOutForDelivery.CanTransitionTo(models.StatusDelivered))
}

func TestStatusForbiddenTransitions(t *testing.T) {
	assert.False(t, models.StatusPending.CanTransitionTo(models.StatusDelivered))
	assert.False(t, models.StatusShipped.CanTransitionTo(models.StatusCancelled))
	assert.False(t, models.StatusDelivered.CanTransitionTo(models.StatusPending))
	assert.False(t, models.StatusCancelled.CanTransitionTo(models.StatusConfirmed))
}
