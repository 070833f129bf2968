// Package ingest implements the command that runs the full pipeline and
// persists its output to the configured database.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aordonez-dev/unimarc-ingest/internal/conf"
	"github.com/aordonez-dev/unimarc-ingest/internal/datastore"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
	"github.com/aordonez-dev/unimarc-ingest/internal/pipeline"
)

// Command creates the ingest command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [corpus]",
		Short: "Transform hydration documents and store the records",
		Long:  "Load a corpus of hydration documents, transform them into relational records and persist the result to the configured database output.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				settings.Input.Path = args[0]
			}
			return runIngest(settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Output.SQLite.Path, "sqlite", settings.Output.SQLite.Path, "Path to the SQLite database file")
	cmd.Flags().BoolVar(&settings.Output.SQLite.Enabled, "sqlite-enabled", settings.Output.SQLite.Enabled, "Write output to SQLite")
	cmd.Flags().BoolVar(&settings.Output.MySQL.Enabled, "mysql-enabled", settings.Output.MySQL.Enabled, "Write output to MySQL")
}

func runIngest(settings *conf.Settings) error {
	logger := logging.ForService("ingest")

	if settings.Input.Path == "" {
		return fmt.Errorf("no input path configured, use --input or a positional argument")
	}

	corpus, err := payload.Load(settings.Input.Path)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	logger.Info("Corpus loaded", "documents", len(corpus), "path", settings.Input.Path)

	result := pipeline.Run(corpus)

	store := datastore.New(settings)
	if store == nil {
		logger.Warn("No database output enabled, discarding results")
		return nil
	}
	if err := store.Open(); err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close datastore", "error", err)
		}
	}()

	if err := store.SaveEntities(result.Entities); err != nil {
		return fmt.Errorf("saving entities: %w", err)
	}
	for _, bundle := range result.Products {
		if err := store.SaveProduct(bundle); err != nil {
			return fmt.Errorf("saving product %s: %w", bundle.Product.EAN, err)
		}
	}

	logger.Info("Ingestion complete",
		"products_saved", len(result.Products),
		"brands", len(result.Entities.Brands),
		"categories", len(result.Entities.Categories),
		"ingredients", len(result.Entities.Ingredients))
	return nil
}
