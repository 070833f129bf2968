// Package inspect implements the command that runs the pipeline without
// touching a database and prints the run summary.
package inspect

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aordonez-dev/unimarc-ingest/internal/conf"
	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
	"github.com/aordonez-dev/unimarc-ingest/internal/pipeline"
)

// Command creates the inspect command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [corpus]",
		Short: "Transform hydration documents and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				settings.Input.Path = args[0]
			}
			return runInspect(cmd, settings)
		},
	}
}

func runInspect(cmd *cobra.Command, settings *conf.Settings) error {
	if settings.Input.Path == "" {
		return fmt.Errorf("no input path configured, use --input or a positional argument")
	}

	corpus, err := payload.Load(settings.Input.Path)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	result := pipeline.Run(corpus)
	stats := result.Stats

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Documents seen:         %d\n", stats.DocumentsSeen)
	fmt.Fprintf(out, "Documents skipped:      %d\n", stats.DocumentsSkipped)
	fmt.Fprintf(out, "Documents processed:    %d\n", stats.DocumentsProcessed)
	fmt.Fprintf(out, "Products emitted:       %d\n", stats.ProductsEmitted)
	fmt.Fprintf(out, "Nameless products:      %d\n", stats.NamelessProducts)
	fmt.Fprintf(out, "Certifications dropped: %d\n", stats.CertificationsDropped)
	fmt.Fprintf(out, "Unparseable prices:     %d\n", stats.UnparseablePrices)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Brands:          %d\n", len(result.Entities.Brands))
	fmt.Fprintf(out, "Categories:      %d\n", len(result.Entities.Categories))
	fmt.Fprintf(out, "Ingredients:     %d\n", len(result.Entities.Ingredients))
	fmt.Fprintf(out, "Nutrient types:  %d\n", len(result.Entities.NutrientTypes))
	fmt.Fprintf(out, "Cert. types:     %d\n", len(result.Entities.CertTypes))
	fmt.Fprintf(out, "Certifiers:      %d\n", len(result.Entities.Certifiers))
	fmt.Fprintf(out, "Degrees:         %d\n", len(result.Entities.Degrees))
	fmt.Fprintf(out, "Countries:       %d\n", len(result.Entities.Countries))
	return nil
}
