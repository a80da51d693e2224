package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/persondb/go-services/internal/config"
	"github.com/persondb/go-services/internal/database"
	"github.com/persondb/go-services/internal/person/service"
	"github.com/persondb/go-services/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	storeName  string
	uri        string
	dbName     string
	collection string
	timeout    time.Duration
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "persondemo",
	Short: "persondemo - create, query, update and delete people",
	Long: `persondemo runs person repository operations against MongoDB
(or an in-process store) and prints the results as JSON.

Flags fall back to the same environment variables as the HTTP service
(PERSON_STORE, MONGO_URI, MONGODB_DATABASE, PERSON_COLLECTION).

Example:
  persondemo create --name "John Doe" --age 25 --food pizza --food pasta
  persondemo find-by-name Mary
  persondemo query burritos --limit 2 --sort-by-name --exclude-age
  persondemo walkthrough --store memory`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// stdout carries the JSON results
		logger.SetOutput(cmd.ErrOrStderr())
		if logLevel != "" {
			logger.Init(logLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "Backing store: mongo or memory (or set PERSON_STORE)")
	rootCmd.PersistentFlags().StringVar(&uri, "uri", "", "MongoDB connection string (or set MONGO_URI)")
	rootCmd.PersistentFlags().StringVar(&dbName, "database", "", "MongoDB database (or set MONGODB_DATABASE)")
	rootCmd.PersistentFlags().StringVar(&collection, "collection", "", "Person collection (or set PERSON_COLLECTION)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Connect and per-command timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error")

	rootCmd.AddCommand(createCmd, createManyCmd, findByNameCmd, findByFoodCmd, findByIDCmd,
		addFoodCmd, setAgeCmd, deleteByIDCmd, deleteByNameCmd, queryCmd, walkthroughCmd)
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// openService resolves configuration (flags over environment) and returns a
// ready service plus a function releasing its connection.
func openService(ctx context.Context) (service.Service, func(), error) {
	cfg := config.Load()
	if storeName != "" {
		cfg.Store = storeName
	}
	if uri != "" {
		cfg.MongoDB.URI = uri
	}
	if dbName != "" {
		cfg.MongoDB.Database = dbName
	}
	if collection != "" {
		cfg.MongoDB.Collection = collection
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if cfg.Store == config.StoreMemory {
		return service.NewMemoryService(), func() {}, nil
	}

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, timeout)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}
	return service.NewMongoService(ctx, col), closeFn, nil
}

// withService runs fn against a freshly opened service bounded by --timeout.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc service.Service) (any, error)) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	svc, closeFn, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	out, err := fn(ctx, svc)
	if err != nil {
		return err
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
