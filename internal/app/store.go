package app

import (
	"context"
	"fmt"

	dapr "github.com/dapr/go-sdk/client"

	"newsletter-go/internal/config"
	"newsletter-go/internal/database"
	"newsletter-go/internal/repository"
)

// OpenRepository connects the store backend named in settings. The returned
// close function releases the pool or sidecar client.
func OpenRepository(ctx context.Context, settings *config.Settings) (repository.SubscriptionRepository, func() error, error) {
	switch settings.Store.Backend {
	case config.BackendPostgres:
		db, err := database.Open(ctx, settings.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresSubscriptionRepository(db), db.Close, nil

	case config.BackendDapr:
		client, err := dapr.NewClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create dapr client: %w", err)
		}
		closeFn := func() error {
			client.Close()
			return nil
		}
		return repository.NewDaprSubscriptionRepository(client, settings.Store.DaprStateStore), closeFn, nil

	case config.BackendMemory:
		return repository.NewInMemorySubscriptionRepository(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %q", settings.Store.Backend)
	}
}
