package repository

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/models"
)

// SubscriptionRepository is an append-only store of subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *models.Subscription) error
}

type InMemorySubscriptionRepository struct {
	mu            sync.RWMutex
	subscriptions []*models.Subscription
	ids           map[string]struct{}
	tracer        trace.Tracer
}

func NewInMemorySubscriptionRepository() *InMemorySubscriptionRepository {
	return &InMemorySubscriptionRepository{
		ids:    make(map[string]struct{}),
		tracer: otel.Tracer("subscription-repository"),
	}
}

func (r *InMemorySubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	_, span := r.tracer.Start(ctx, "subscription.repository.create",
		trace.WithAttributes(
			attribute.String("subscription.id", subscription.ID.String()),
			attribute.String("operation", "database.write"),
			attribute.String("db.system", "memory"),
		))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	id := subscription.ID.String()
	if _, exists := r.ids[id]; exists {
		err := fmt.Errorf("subscription with ID %s already exists", id)
		span.RecordError(err)
		return err
	}

	stored := *subscription
	r.subscriptions = append(r.subscriptions, &stored)
	r.ids[id] = struct{}{}
	span.SetAttributes(attribute.Bool("success", true))
	return nil
}

// All returns copies of the stored subscriptions in insertion order.
func (r *InMemorySubscriptionRepository) All() []models.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Subscription, 0, len(r.subscriptions))
	for _, s := range r.subscriptions {
		all = append(all, *s)
	}
	return all
}
