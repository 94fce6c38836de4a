package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	dapr "github.com/dapr/go-sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-go/internal/models"
)

// fakeDaprClient implements only SaveState; any other call panics on the
// nil embedded interface.
type fakeDaprClient struct {
	dapr.Client
	store string
	saved map[string][]byte
	err   error
}

func (f *fakeDaprClient) SaveState(ctx context.Context, storeName, key string, data []byte, meta map[string]string, so ...dapr.StateOption) error {
	if f.err != nil {
		return f.err
	}
	f.store = storeName
	f.saved[key] = data
	return nil
}

func TestDaprCreateSavesJSON(t *testing.T) {
	client := &fakeDaprClient{saved: make(map[string][]byte)}
	repo := NewDaprSubscriptionRepository(client, "statestore")
	sub := models.NewSubscription("joe.smith@gmail.com", "joe smith")

	require.NoError(t, repo.Create(context.Background(), sub))

	assert.Equal(t, "statestore", client.store)
	data, ok := client.saved[sub.ID.String()]
	require.True(t, ok)

	var stored models.Subscription
	require.NoError(t, json.Unmarshal(data, &stored))
	assert.Equal(t, sub.ID, stored.ID)
	assert.Equal(t, "joe.smith@gmail.com", stored.Email)
	assert.Equal(t, "joe smith", stored.Name)
}

func TestDaprCreateWrapsStoreError(t *testing.T) {
	storeErr := errors.New("sidecar unavailable")
	client := &fakeDaprClient{saved: make(map[string][]byte), err: storeErr}
	repo := NewDaprSubscriptionRepository(client, "statestore")

	err := repo.Create(context.Background(), models.NewSubscription("a@example.com", "a"))

	assert.ErrorIs(t, err, storeErr)
}
