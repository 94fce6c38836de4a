package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-go/internal/logging"
	"newsletter-go/internal/models"
	"newsletter-go/internal/repository"
)

type failingRepository struct {
	err error
}

func (f failingRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return f.err
}

func testLogger() *logging.ContextLogger {
	return logging.NewLogger("test", logrus.InfoLevel, io.Discard)
}

func TestSubscribeStoresSubscription(t *testing.T) {
	repo := repository.NewInMemorySubscriptionRepository()
	svc := NewSubscriptionService(repo, testLogger())

	sub, err := svc.Subscribe(context.Background(), &models.SubscribeForm{
		Email: "joe.smith@gmail.com",
		Name:  "joe smith",
	})
	require.NoError(t, err)

	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, sub.ID, all[0].ID)
	assert.Equal(t, "joe.smith@gmail.com", all[0].Email)
	assert.Equal(t, "joe smith", all[0].Name)
	assert.False(t, all[0].SubscribedAt.IsZero())
}

func TestSubscribeTwiceCreatesTwoRows(t *testing.T) {
	repo := repository.NewInMemorySubscriptionRepository()
	svc := NewSubscriptionService(repo, testLogger())
	form := &models.SubscribeForm{Email: "a@example.com", Name: "a"}

	first, err := svc.Subscribe(context.Background(), form)
	require.NoError(t, err)
	second, err := svc.Subscribe(context.Background(), form)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.All(), 2)
}

func TestSubscribeReturnsStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewSubscriptionService(failingRepository{err: storeErr}, testLogger())

	sub, err := svc.Subscribe(context.Background(), &models.SubscribeForm{Email: "a@example.com", Name: "a"})

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, storeErr)
}
