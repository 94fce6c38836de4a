package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-go/internal/logging"
	"newsletter-go/internal/metrics"
	"newsletter-go/internal/models"
	"newsletter-go/internal/service"
)

type SubscriptionHandler struct {
	service *service.SubscriptionService
	logger  *logging.ContextLogger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

func NewSubscriptionHandler(service *service.SubscriptionService, logger *logging.ContextLogger, m *metrics.Metrics) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("subscription-handler"),
	}
}

// Subscribe handles POST /subscriptions with a url-encoded name and email.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "subscription.handler.subscribe")
	defer span.End()

	var form models.SubscribeForm
	if err := c.ShouldBindWith(&form, binding.FormPost); err != nil {
		h.logger.WarnWithTracing(ctx, "Rejected subscription form", logrus.Fields{
			"error":    err.Error(),
			"endpoint": "POST /subscriptions",
		})
		span.RecordError(err)
		h.metrics.SubscriptionsTotal.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.InfoWithTracing(ctx, "Adding a new subscriber", logrus.Fields{
		"email":    form.Email,
		"name":     form.Name,
		"endpoint": "POST /subscriptions",
	})

	subscription, err := h.service.Subscribe(ctx, &form)
	if err != nil {
		h.logger.ErrorWithTracing(ctx, "Failed to create subscription", err, logrus.Fields{
			"email":    form.Email,
			"endpoint": "POST /subscriptions",
		})
		span.RecordError(err)
		h.metrics.SubscriptionsTotal.WithLabelValues("failed").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	h.logger.InfoWithTracing(ctx, "New subscriber details have been saved", logrus.Fields{
		"subscription_id": subscription.ID.String(),
		"endpoint":        "POST /subscriptions",
	})

	span.SetAttributes(
		attribute.String("subscription.id", subscription.ID.String()),
		attribute.Bool("success", true),
	)
	h.metrics.SubscriptionsTotal.WithLabelValues("created").Inc()

	c.Status(http.StatusOK)
}
