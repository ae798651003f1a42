package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/qdrant-connector/v1/logger"
	"github.com/Aleph-Alpha/qdrant-connector/v1/observability"
	"github.com/Aleph-Alpha/qdrant-connector/v1/tracer"
)

// FXModule provides *QdrantClient, the VectorDbClient interface and an
// *Adapter, and registers the client lifecycle.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() *qdrant.Config { return qdrant.FromEndpoint("http://qdrant:6333") }),
//	    qdrant.FXModule,
//	)
//
// Logger, observability.Observer and *tracer.Tracer are picked up when the
// container has them.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		ProvideQdrantClient,
		func(c *QdrantClient) VectorDbClient { return c },
		NewAdapter,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies of ProvideQdrantClient.
type QdrantParams struct {
	fx.In

	Config   *Config
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
}

// ProvideQdrantClient builds a QdrantClient from injected dependencies.
func ProvideQdrantClient(p QdrantParams) (*QdrantClient, error) {
	opts := []ClientOption{WithObserver(p.Observer), WithTracer(p.Tracer)}
	if p.Logger != nil {
		opts = append(opts, WithLogger(p.Logger))
	}
	return NewQdrantClient(p.Config, opts...)
}

// RegisterQdrantLifecycle checks server health on start when
// Config.HealthCheckOnStart is set, and releases connections on stop.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !client.cfg.HealthCheckOnStart {
				return nil
			}
			if err := client.Health(ctx); err != nil {
				client.logger.Error("qdrant health check failed", err, map[string]interface{}{
					"endpoint": client.cfg.Endpoint,
				})
				return err
			}
			client.logger.Info("qdrant client started", nil, map[string]interface{}{
				"endpoint": client.cfg.Endpoint,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
