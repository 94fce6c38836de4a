package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// SubscribeForm is the url-encoded body of POST /subscriptions. Both fields
// must be present and non-empty; nothing else is checked.
type SubscribeForm struct {
	Email string `form:"email" binding:"required"`
	Name  string `form:"name" binding:"required"`
}

func NewSubscription(email, name string) *Subscription {
	return &Subscription{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		SubscribedAt: time.Now().UTC(),
	}
}
