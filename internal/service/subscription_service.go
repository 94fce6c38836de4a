package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/logging"
	"newsletter-go/internal/models"
	"newsletter-go/internal/repository"
)

type SubscriptionService struct {
	repo   repository.SubscriptionRepository
	logger *logging.ContextLogger
	tracer trace.Tracer
}

func NewSubscriptionService(repo repository.SubscriptionRepository, logger *logging.ContextLogger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		logger: logger,
		tracer: otel.Tracer("subscription-service"),
	}
}

// Subscribe stores a new subscription for the form. Every call inserts a
// fresh row, duplicates included. Failed inserts are not retried.
func (s *SubscriptionService) Subscribe(ctx context.Context, form *models.SubscribeForm) (*models.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "subscription.service.subscribe",
		trace.WithAttributes(
			attribute.String("subscription.email", form.Email),
			attribute.String("subscription.name", form.Name),
		))
	defer span.End()

	subscription := models.NewSubscription(form.Email, form.Name)

	s.logger.InfoWithTracing(ctx, "Saving new subscriber details in the database", logrus.Fields{
		"subscription_id": subscription.ID.String(),
		"email":           subscription.Email,
		"name":            subscription.Name,
	})

	if err := s.repo.Create(ctx, subscription); err != nil {
		s.logger.ErrorWithTracing(ctx, "Failed to save subscription", err, logrus.Fields{
			"subscription_id": subscription.ID.String(),
		})
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("subscription.id", subscription.ID.String()),
		attribute.Bool("success", true),
	)

	return subscription, nil
}
