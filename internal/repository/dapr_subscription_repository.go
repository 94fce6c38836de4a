package repository

import (
	"context"
	"encoding/json"
	"fmt"

	dapr "github.com/dapr/go-sdk/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/models"
)

// DaprSubscriptionRepository stores each subscription as a JSON document
// keyed by its id in a Dapr state store.
type DaprSubscriptionRepository struct {
	client    dapr.Client
	tracer    trace.Tracer
	storeName string
}

func NewDaprSubscriptionRepository(client dapr.Client, storeName string) *DaprSubscriptionRepository {
	return &DaprSubscriptionRepository{
		client:    client,
		tracer:    otel.Tracer("dapr.repository"),
		storeName: storeName,
	}
}

func (r *DaprSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	ctx, span := r.tracer.Start(ctx, "subscription.repository.create",
		trace.WithAttributes(
			attribute.String("subscription.id", subscription.ID.String()),
			attribute.String("operation", "database.write"),
			attribute.String("dapr.store", r.storeName),
		))
	defer span.End()

	data, err := json.Marshal(subscription)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	err = r.client.SaveState(ctx, r.storeName, subscription.ID.String(), data, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save subscription to dapr state store: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
