package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/qdrant-connector/v1/logger"
	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

// app carries what every subcommand needs. client is built in the root's
// PersistentPreRunE, after flags and config are resolved.
type app struct {
	v      *viper.Viper
	log    *logger.LoggerClient
	cfg    *qdrant.Config
	client qdrant.VectorDbClient
	closer func() error
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "qdrantctl",
		Short:         "qdrantctl - manage Qdrant collections and points",
		Long:          `qdrantctl talks to the Qdrant REST API to create collections, index payload fields, write and read points and run similarity searches.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to config file (YAML)")
	flags.String("endpoint", qdrant.DefaultEndpoint, "Qdrant REST endpoint")
	flags.String("api-key", "", "Qdrant API key")
	flags.Duration("timeout", 0, "Per-request timeout (default 10s)")
	flags.String("log-level", logger.Warning, "Log level: debug, info, warning, error")

	bind := map[string]string{
		"endpoint":  "endpoint",
		"api_key":   "api-key",
		"timeout":   "timeout",
		"log_level": "log-level",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newCollectionsCommand(a),
		newIndexCommand(a),
		newPointsCommand(a),
		newSearchCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if err := readConfig(a.v, configPath); err != nil {
		return err
	}

	cfg, err := clientConfig(a.v)
	if err != nil {
		return err
	}

	a.log = logger.NewLoggerClient(logger.Config{
		Level:       strings.ToLower(a.v.GetString("log_level")),
		ServiceName: "qdrantctl",
	})

	client, err := qdrant.NewQdrantClient(cfg, qdrant.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.client = client
	a.closer = client.Close
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Zap.Sync()
	}
	if a.closer != nil {
		return a.closer()
	}
	return nil
}
