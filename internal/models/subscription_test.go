package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewSubscription(t *testing.T) {
	before := time.Now().UTC()
	sub := NewSubscription("joe.smith@gmail.com", "joe smith")

	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.Equal(t, "joe.smith@gmail.com", sub.Email)
	assert.Equal(t, "joe smith", sub.Name)
	assert.False(t, sub.SubscribedAt.Before(before))
	assert.Equal(t, time.UTC, sub.SubscribedAt.Location())
}

func TestNewSubscriptionGeneratesDistinctIDs(t *testing.T) {
	first := NewSubscription("a@example.com", "a")
	second := NewSubscription("a@example.com", "a")

	assert.NotEqual(t, first.ID, second.ID)
}
