package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/models"
)

const insertSubscription = `
	INSERT INTO subscriptions (id, email, name, subscribed_at)
	VALUES ($1, $2, $3, $4)`

// PostgresSubscriptionRepository writes to the subscriptions table through
// a shared connection pool.
type PostgresSubscriptionRepository struct {
	db     *sql.DB
	tracer trace.Tracer
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{
		db:     db,
		tracer: otel.Tracer("postgres.repository"),
	}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	ctx, span := r.tracer.Start(ctx, "subscription.repository.create",
		trace.WithAttributes(
			attribute.String("subscription.id", subscription.ID.String()),
			attribute.String("operation", "database.write"),
			attribute.String("db.system", "postgresql"),
		))
	defer span.End()

	_, err := r.db.ExecContext(ctx, insertSubscription,
		subscription.ID, subscription.Email, subscription.Name, subscription.SubscribedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return nil
}
