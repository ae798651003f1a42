// Package logger provides the structured zap logger used across the Qdrant
// connector.
//
// The package follows the "accept interfaces, return structs" pattern:
//   - Logger: the method set consumers depend on
//   - LoggerClient: the zap implementation returned by NewLoggerClient
//   - FXModule: provides both for fx applications
//
// # Direct Usage
//
//	import "github.com/Aleph-Alpha/qdrant-connector/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         logger.Debug,
//		ServiceName:   "qdrantctl",
//		EnableTracing: true,
//	})
//
//	log.Info("points upserted", nil, map[string]interface{}{
//		"collection": "docs",
//		"count":      128,
//	})
//
//	// Adds trace_id and span_id when ctx carries an active span
//	log.ErrorWithContext(ctx, "search failed", err, nil)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: logger.Info, ServiceName: "indexer"}
//		}),
//	)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=indexer
//	LOGGER_ENABLE_TRACING=true
//
// All methods are safe for concurrent use.
package logger
