// Package pipeline drives the corpus transformation: extract each document,
// fold entity sightings into the corpus-wide collector, emit one record
// bundle per distinct EAN and report run statistics.
package pipeline

import (
	"github.com/aordonez-dev/unimarc-ingest/internal/collect"
	"github.com/aordonez-dev/unimarc-ingest/internal/datastore"
	"github.com/aordonez-dev/unimarc-ingest/internal/emit"
	"github.com/aordonez-dev/unimarc-ingest/internal/extract"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
)

// Stats summarizes one run.
type Stats struct {
	DocumentsSeen         int
	DocumentsSkipped      int
	DocumentsProcessed    int
	ProductsEmitted       int
	NamelessProducts      int
	CertificationsDropped int
	UnparseablePrices     int
}

// Result is the complete output of a run: the corpus-wide lookup entities
// and one bundle per distinct EAN.
type Result struct {
	Entities *datastore.Entities
	Products []*datastore.ProductBundle
	Stats    Stats
}

// Run processes the corpus in its (sorted) document order. Duplicate EANs
// keep their first position in the output but the latest sighting's content.
func Run(corpus payload.Corpus) *Result {
	logger := logging.ForService("pipeline")
	extractor := extract.New()
	collector := collect.New()
	emitter := emit.New()

	var (
		stats    Stats
		products []*datastore.ProductBundle
		position = make(map[string]int)
	)

	for _, doc := range corpus {
		stats.DocumentsSeen++

		p, ok := extractor.Extract(doc)
		if !ok {
			stats.DocumentsSkipped++
			continue
		}
		stats.DocumentsProcessed++

		collector.Collect(p)
		bundle := emitter.Emit(p)

		if pos, seen := position[p.EAN]; seen {
			logger.Debug("Duplicate EAN, keeping latest sighting",
				"ean", p.EAN, "document", doc.Key)
			products[pos] = bundle
			continue
		}
		position[p.EAN] = len(products)
		products = append(products, bundle)
	}

	emitStats := emitter.Stats()
	stats.ProductsEmitted = len(products)
	stats.NamelessProducts = emitStats.NamelessProducts
	stats.CertificationsDropped = emitStats.CertificationsDropped
	stats.UnparseablePrices = emitStats.UnparseablePrices

	logger.Info("Pipeline run complete",
		"documents_seen", stats.DocumentsSeen,
		"documents_skipped", stats.DocumentsSkipped,
		"documents_processed", stats.DocumentsProcessed,
		"products_emitted", stats.ProductsEmitted,
		"nameless_products", stats.NamelessProducts,
		"certifications_dropped", stats.CertificationsDropped,
		"unparseable_prices", stats.UnparseablePrices)

	return &Result{
		Entities: collector.Entities(),
		Products: products,
		Stats:    stats,
	}
}
