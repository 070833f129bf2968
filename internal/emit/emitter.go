// Package emit turns extracted products into the relational records the
// datastore persists: one product bundle per EAN, with price, promotion,
// image, ingredient-like, nutrition, serving and certification rows.
package emit

import (
	"log/slog"

	"github.com/antonholmquist/jason"

	"github.com/aordonez-dev/unimarc-ingest/internal/collect"
	"github.com/aordonez-dev/unimarc-ingest/internal/datastore"
	"github.com/aordonez-dev/unimarc-ingest/internal/extract"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
)

// Stats counts the skippable conditions the emitter encountered. The
// pipeline folds these into its run summary.
type Stats struct {
	NamelessProducts      int
	CertificationsDropped int
	UnparseablePrices     int
}

// Emitter builds product bundles. Optional blocks that are absent or
// malformed are omitted; the product record itself is always emitted.
type Emitter struct {
	logger *slog.Logger
	stats  Stats
}

func New() *Emitter {
	return &Emitter{logger: logging.ForService("emit")}
}

// Stats returns the counters accumulated across all emitted products.
func (e *Emitter) Stats() Stats {
	return e.stats
}

// Emit builds the full record bundle for one extracted product.
func (e *Emitter) Emit(p *extract.RawProduct) *datastore.ProductBundle {
	bundle := &datastore.ProductBundle{
		Product: e.productRecord(p),
	}

	if p.Price != nil {
		bundle.Price = e.priceRecord(p)
	}
	if p.Promotion != nil {
		bundle.Promotion = e.promotionRecord(p)
	}
	bundle.Images = imageRows(p)
	bundle.Ingredients = ingredientRows(p.EAN, p.Ingredients())
	bundle.Allergens = allergenRows(p.EAN, p.Allergens())
	bundle.Traces = traceRows(p.EAN, p.Traces())
	bundle.Nutrition = nutritionRows(p)
	if tables, ok := p.NutritionTables(); ok {
		bundle.Serving = servingRecord(p.EAN, tables)
	}
	bundle.Certifications = e.certificationRows(p)

	return bundle
}

func (e *Emitter) productRecord(p *extract.RawProduct) datastore.Product {
	name := p.Name()
	if name == nil {
		e.stats.NamelessProducts++
		e.logger.Debug("Product has no resolvable name", "ean", p.EAN, "doc", p.DocKey)
	}
	return datastore.Product{
		EAN:               p.EAN,
		ProductID:         p.ProductID(),
		ItemID:            p.ItemID(),
		SKU:               p.SKU(),
		Name:              name,
		BrandID:           payload.Int64Ptr(p.Item, "brandId"),
		CategoryID:        payload.Int64Ptr(p.Item, "categoryId"),
		Description:       p.Description(),
		FullDescription:   payload.StringPtr(p.Detail, "full_description"),
		Flavor:            payload.StringPtr(p.Detail, "flavor"),
		NetContent:        p.NetContent(),
		SizeValue:         payload.Float64Ptr(p.Detail, "size_value"),
		SizeUnit:          payload.StringPtr(p.Detail, "size_unit_name"),
		DrainedSizeValue:  payload.Float64Ptr(p.Detail, "drained_size_value"),
		PackagingType:     payload.StringPtr(p.Detail, "packaging_type_name"),
		OriginCountryName: payload.StringPtr(p.Detail, "origin_country_name"),
		TimestampIn:       payload.Int64Ptr(p.Detail, "product_timestamp_in"),
		LastReview:        payload.Int64Ptr(p.Detail, "product_last_review"),
		LastUpdate:        payload.Int64Ptr(p.Detail, "product_last_update"),
	}
}

// monetary parses a price-like field that may arrive as a number or as a
// formatted string such as "$3.450" or "2 x $2.500".
func (e *Emitter) monetary(ean string, block *jason.Value, key string) *float64 {
	v, ok := payload.Lookup(block, key)
	if !ok {
		return nil
	}
	f, ok := extract.ParsePrice(v)
	if !ok {
		e.stats.UnparseablePrices++
		e.logger.Debug("Unparseable price field", "ean", ean, "field", key)
		return nil
	}
	return &f
}

func (e *Emitter) priceRecord(p *extract.RawProduct) *datastore.ProductPrice {
	return &datastore.ProductPrice{
		ProductEAN:           p.EAN,
		Price:                e.monetary(p.EAN, p.Price, "price"),
		ListPrice:            e.monetary(p.EAN, p.Price, "listPrice"),
		PriceWithoutDiscount: e.monetary(p.EAN, p.Price, "priceWithoutDiscount"),
		RewardValue:          e.monetary(p.EAN, p.Price, "rewardValue"),
		AvailableQuantity:    payload.Int64Ptr(p.Price, "availableQuantity"),
		InOffer:              payload.BoolPtr(p.Price, "inOffer"),
		PPUM:                 payload.StringPtr(p.Price, "ppum"),
		PPUMListPrice:        payload.StringPtr(p.Price, "ppumListPrice"),
		Saving:               payload.StringPtr(p.Price, "saving"),
	}
}

func (e *Emitter) promotionRecord(p *extract.RawProduct) *datastore.ProductPromotion {
	return &datastore.ProductPromotion{
		ProductEAN:         p.EAN,
		PromotionID:        payload.Stringish(p.Promotion, "id"),
		Name:               payload.StringPtr(p.Promotion, "name"),
		Type:               payload.StringPtr(p.Promotion, "type"),
		HasSavings:         payload.BoolPtr(p.Promotion, "hasSavings"),
		Saving:             e.monetary(p.EAN, p.Promotion, "saving"),
		OfferMessage:       payload.BoolPtr(p.Promotion, "offerMessage"),
		DescriptionMessage: payload.StringPtr(p.Promotion, "descriptionMessage"),
	}
}

// imageRows keeps the source image order as the stored position even when
// blank entries are dropped.
func imageRows(p *extract.RawProduct) []datastore.ProductImage {
	var rows []datastore.ProductImage
	for i, url := range p.Images() {
		if url == "" {
			continue
		}
		rows = append(rows, datastore.ProductImage{
			ProductEAN: p.EAN,
			URL:        url,
			Position:   i,
		})
	}
	return rows
}

// Names are normalized to the keys the corpus-wide ingredient set uses;
// entries that normalize to nothing are dropped but, as with images, keep
// their source index as the stored position.

func ingredientRows(ean string, sightings []extract.IngredientSighting) []datastore.ProductIngredient {
	var rows []datastore.ProductIngredient
	for i, s := range sightings {
		name := collect.NormalizeName(s.Name)
		if name == "" {
			continue
		}
		rows = append(rows, datastore.ProductIngredient{
			ProductEAN:     ean,
			IngredientName: name,
			Position:       i,
		})
	}
	return rows
}

func allergenRows(ean string, sightings []extract.IngredientSighting) []datastore.ProductAllergen {
	var rows []datastore.ProductAllergen
	for i, s := range sightings {
		name := collect.NormalizeName(s.Name)
		if name == "" {
			continue
		}
		rows = append(rows, datastore.ProductAllergen{
			ProductEAN:     ean,
			IngredientName: name,
			Position:       i,
		})
	}
	return rows
}

func traceRows(ean string, sightings []extract.IngredientSighting) []datastore.ProductTrace {
	var rows []datastore.ProductTrace
	for i, s := range sightings {
		name := collect.NormalizeName(s.Name)
		if name == "" {
			continue
		}
		rows = append(rows, datastore.ProductTrace{
			ProductEAN:     ean,
			IngredientName: name,
			Position:       i,
		})
	}
	return rows
}

func nutritionRows(p *extract.RawProduct) []datastore.ProductNutrition {
	values := extract.FlattenNutrients(p.NutrientNodes())
	if len(values) == 0 {
		return nil
	}
	rows := make([]datastore.ProductNutrition, 0, len(values))
	for _, v := range values {
		rows = append(rows, datastore.ProductNutrition{
			ProductEAN:      p.EAN,
			NutrientName:    v.Name,
			ValuePer100g:    v.ValuePer100g,
			ValuePerPortion: v.ValuePerPortion,
		})
	}
	return rows
}

func servingRecord(ean string, tables *jason.Value) *datastore.ProductServingInfo {
	return &datastore.ProductServingInfo{
		ProductEAN:   ean,
		PortionText:  payload.StringPtr(tables, "portionText"),
		PortionValue: payload.Float64Ptr(tables, "portionValue"),
		PortionUnit:  payload.StringPtr(tables, "portionUnit"),
		NumPortions:  payload.Float64Ptr(tables, "numPortions"),
		BasicUnit:    payload.StringPtr(tables, "basicUnit"),
	}
}

// certificationRows flattens the certificate blocks into association rows,
// dropping any instance that lacks its mandatory degree or country.
func (e *Emitter) certificationRows(p *extract.RawProduct) []datastore.ProductCertification {
	var rows []datastore.ProductCertification
	for _, cert := range p.Certificates() {
		if cert.TypeCode == "" {
			continue
		}
		for i := range cert.Instances {
			inst := &cert.Instances[i]
			if inst.DegreeID == nil || inst.CountryID == nil {
				e.stats.CertificationsDropped++
				e.logger.Warn("Certification instance missing degree or country, dropping",
					"ean", p.EAN,
					"certification_type", cert.TypeCode)
				continue
			}
			rows = append(rows, datastore.ProductCertification{
				ProductEAN:        p.EAN,
				TypeCode:          cert.TypeCode,
				CertifierName:     inst.CertifierName,
				CertifierSourceID: inst.CertifierSourceID,
				DegreeID:          *inst.DegreeID,
				CountryID:         *inst.CountryID,
				Start:             inst.Start,
				End:               inst.End,
				Comments:          inst.Comments,
				LastUpdate:        inst.LastUpdate,
			})
		}
	}
	return rows
}
