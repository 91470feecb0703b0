package handlers

import (
	"context"

	"static-video-server/internal/catalog"
	"static-video-server/internal/indexer"
	"static-video-server/internal/startup"
	"static-video-server/internal/streaming"
)

// CatalogIndexer is the part of the indexer the handlers depend on.
type CatalogIndexer interface {
	Reload(ctx context.Context) error
	IsReady() bool
	GetHealthStatus() indexer.HealthStatus
}

type Handlers struct {
	store        *catalog.Store
	indexer      CatalogIndexer
	streamConfig streaming.Config
}

func New(store *catalog.Store, idx CatalogIndexer, config *startup.Config) *Handlers {
	streamConfig := streaming.DefaultConfig()
	streamConfig.WriteTimeout = config.StreamWriteTimeout

	return &Handlers{
		store:        store,
		indexer:      idx,
		streamConfig: streamConfig,
	}
}
