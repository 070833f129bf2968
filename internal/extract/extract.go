// Package extract locates and decomposes the product data embedded in one
// raw hydration document.
package extract

import (
	"log/slog"
	"strings"

	"github.com/antonholmquist/jason"

	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
)

// detailQueryKind tags the dehydrated query that carries the per-EAN detail
// fetch result.
const detailQueryKind = "getProductDetailByEan"

// RawProduct is the per-document intermediate record: the product summary
// blocks plus the matching detail document, when one was found. Detail is nil
// when the page carried no successful detail query for the EAN; all
// detail-only fields are then absent.
type RawProduct struct {
	DocKey    string
	EAN       string
	Item      *jason.Value
	Price     *jason.Value
	Promotion *jason.Value
	Detail    *jason.Value
}

// IngredientSighting is one ingredient-like entry (ingredient, allergen or
// trace) as observed in a detail document.
type IngredientSighting struct {
	SourceID *int64
	Name     string
}

// Certificate is one certification type block with its certifier instances.
type Certificate struct {
	TypeCode  string
	TypeName  string
	Instances []CertInstance
}

// CertInstance pairs one certifier with one degree, one country and the
// instance-level dates and comments.
type CertInstance struct {
	CertifierSourceID *int64
	CertifierName     *string
	CertifierLogoURL  *string
	DegreeID          *int64
	DegreeName        *string
	CountryID         *int64
	CountryName       *string
	Start             *int64
	End               *int64
	Comments          *string
	LastUpdate        *int64
}

// Extractor locates product records inside hydration documents.
type Extractor struct {
	logger *slog.Logger
}

func New() *Extractor {
	return &Extractor{logger: logging.ForService("extract")}
}

// Extract pulls the product record out of one document. It returns false
// when the document carries no product summary or no EAN; both conditions
// skip the document, they are not errors.
func (e *Extractor) Extract(doc payload.Document) (*RawProduct, bool) {
	summary, ok := payload.Lookup(doc.Root, "props", "pageProps", "product", "products", 0)
	if !ok {
		e.logger.Debug("Document has no product summary, skipping", "document", doc.Key)
		return nil, false
	}

	item, ok := payload.Lookup(summary, "item")
	if !ok {
		e.logger.Debug("Product summary has no item block, skipping", "document", doc.Key)
		return nil, false
	}

	ean := payload.Stringish(item, "ean")
	if ean == nil || strings.TrimSpace(*ean) == "" {
		e.logger.Warn("Product has no EAN, skipping document", "document", doc.Key)
		return nil, false
	}

	p := &RawProduct{
		DocKey: doc.Key,
		EAN:    strings.TrimSpace(*ean),
		Item:   item,
	}
	p.Price, _ = payload.Lookup(summary, "price")
	p.Promotion, _ = payload.Lookup(summary, "promotion")
	p.Detail = e.findDetail(doc, p.EAN)

	return p, true
}

// findDetail searches the dehydrated query list for the successful detail
// fetch keyed by this EAN and descends to its response payload.
func (e *Extractor) findDetail(doc payload.Document, ean string) *jason.Value {
	queries, ok := payload.Array(doc.Root, "props", "pageProps", "dehydratedState", "queries")
	if !ok {
		return nil
	}
	for _, query := range queries {
		kind := payload.String(query, "", "queryKey", 0)
		key := payload.Stringish(query, "queryKey", 1)
		if kind != detailQueryKind || key == nil || *key != ean {
			continue
		}
		if payload.String(query, "", "state", "status") != "success" {
			e.logger.Debug("Detail query did not succeed", "document", doc.Key, "ean", ean)
			return nil
		}
		if detail, ok := payload.Lookup(query, "state", "data", "data", "response"); ok {
			return detail
		}
		return nil
	}
	return nil
}

// --- item summary accessors ---

// BrandSighting returns the brand id and name from the item summary. ok is
// false when either is missing or the name is blank.
func (p *RawProduct) BrandSighting() (id int64, name string, ok bool) {
	idPtr := payload.Int64Ptr(p.Item, "brandId")
	namePtr := payload.StringPtr(p.Item, "brand")
	if idPtr == nil || namePtr == nil || strings.TrimSpace(*namePtr) == "" {
		return 0, "", false
	}
	return *idPtr, strings.TrimSpace(*namePtr), true
}

// CategoryID returns the category id from the item summary.
func (p *RawProduct) CategoryID() (int64, bool) {
	id := payload.Int64Ptr(p.Item, "categoryId")
	if id == nil {
		return 0, false
	}
	return *id, true
}

// CategorySlug returns the raw category slug from the item summary.
func (p *RawProduct) CategorySlug() *string {
	return payload.StringPtr(p.Item, "categorySlug")
}

// CategoryDetailName returns the category name reported by the detail
// document, if present.
func (p *RawProduct) CategoryDetailName() *string {
	return payload.StringPtr(p.Detail, "category_name")
}

// CategoryBreadcrumbName derives a category name from the item's breadcrumb
// paths: the last non-empty segment of the last path, split on "/".
func (p *RawProduct) CategoryBreadcrumbName() *string {
	paths, ok := payload.Array(p.Item, "categories")
	if !ok || len(paths) == 0 {
		return nil
	}
	last, err := paths[len(paths)-1].String()
	if err != nil {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(last, "/") {
		if s := strings.TrimSpace(seg); s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	name := segments[len(segments)-1]
	return &name
}

// Name returns the product display name, preferring the complete name.
func (p *RawProduct) Name() *string {
	if name := payload.StringPtr(p.Item, "nameComplete"); name != nil && strings.TrimSpace(*name) != "" {
		return name
	}
	if name := payload.StringPtr(p.Item, "name"); name != nil && strings.TrimSpace(*name) != "" {
		return name
	}
	return nil
}

// Description returns the short description, preferring descriptionShort.
func (p *RawProduct) Description() *string {
	if d := payload.StringPtr(p.Item, "descriptionShort"); d != nil {
		return d
	}
	return payload.StringPtr(p.Item, "description")
}

// ProductID returns the product identifier, falling back to the detail
// document when the item summary has none.
func (p *RawProduct) ProductID() *string {
	if id := payload.Stringish(p.Item, "productId"); id != nil {
		return id
	}
	return payload.Stringish(p.Detail, "product_id")
}

// ItemID returns the item identifier from the summary.
func (p *RawProduct) ItemID() *string {
	return payload.Stringish(p.Item, "itemId")
}

// SKU returns the stock keeping unit from the summary.
func (p *RawProduct) SKU() *string {
	return payload.Stringish(p.Item, "sku")
}

// NetContent returns the net content text, e.g. "270 g".
func (p *RawProduct) NetContent() *string {
	return payload.StringPtr(p.Item, "netContent")
}

// Images returns the ordered image URL list from the item summary. Entries
// that are not strings yield empty strings so positions stay aligned with
// the source order.
func (p *RawProduct) Images() []string {
	arr, ok := payload.Array(p.Item, "images")
	if !ok {
		return nil
	}
	urls := make([]string, len(arr))
	for i, v := range arr {
		if s, err := v.String(); err == nil {
			urls[i] = s
		}
	}
	return urls
}

// --- detail document accessors ---

// HasDetail reports whether a detail document was found for this product.
func (p *RawProduct) HasDetail() bool {
	return p.Detail != nil
}

// Ingredients returns the flattened ingredient list across all ingredient
// sets, in source order.
func (p *RawProduct) Ingredients() []IngredientSighting {
	sets, ok := payload.Array(p.Detail, "ingredients_sets")
	if !ok {
		return nil
	}
	var out []IngredientSighting
	for _, set := range sets {
		members, ok := payload.Array(set, "ingredients")
		if !ok {
			continue
		}
		out = append(out, ingredientSightings(members)...)
	}
	return out
}

// Allergens returns the allergen list from the detail document.
func (p *RawProduct) Allergens() []IngredientSighting {
	members, ok := payload.Array(p.Detail, "allergens")
	if !ok {
		return nil
	}
	return ingredientSightings(members)
}

// Traces returns the trace list from the detail document.
func (p *RawProduct) Traces() []IngredientSighting {
	members, ok := payload.Array(p.Detail, "traces")
	if !ok {
		return nil
	}
	return ingredientSightings(members)
}

func ingredientSightings(members []*jason.Value) []IngredientSighting {
	out := make([]IngredientSighting, 0, len(members))
	for _, m := range members {
		name := payload.String(m, "", "ingredient_name")
		out = append(out, IngredientSighting{
			SourceID: payload.Int64Ptr(m, "ingredient_id"),
			Name:     name,
		})
	}
	return out
}

// NutritionTables returns the nutritional tables block of the detail
// document, when present.
func (p *RawProduct) NutritionTables() (*jason.Value, bool) {
	return payload.Lookup(p.Detail, "nutritional_tables_sets")
}

// NutrientNodes returns the root nutrient node list of the detail document.
func (p *RawProduct) NutrientNodes() []*jason.Value {
	nodes, ok := payload.Array(p.Detail, "nutritional_tables_sets", "nutritionalInfo")
	if !ok {
		return nil
	}
	return nodes
}

// Certificates returns the certification blocks of the detail document.
func (p *RawProduct) Certificates() []Certificate {
	blocks, ok := payload.Array(p.Detail, "certificates")
	if !ok {
		return nil
	}
	certs := make([]Certificate, 0, len(blocks))
	for _, block := range blocks {
		cert := Certificate{
			TypeCode: strings.TrimSpace(payload.String(block, "", "certification_type_code")),
			TypeName: strings.TrimSpace(payload.String(block, "", "certification_type_name")),
		}
		if instances, ok := payload.Array(block, "certifiers"); ok {
			for _, inst := range instances {
				cert.Instances = append(cert.Instances, CertInstance{
					CertifierSourceID: payload.Int64Ptr(inst, "certifier_id"),
					CertifierName:     payload.StringPtr(inst, "certifier_name"),
					CertifierLogoURL:  payload.StringPtr(inst, "certifier_logo_url"),
					DegreeID:          payload.Int64Ptr(inst, "certification_degree_id"),
					DegreeName:        payload.StringPtr(inst, "certification_degree_name"),
					CountryID:         payload.Int64Ptr(inst, "certification_country_id"),
					CountryName:       payload.StringPtr(inst, "certification_country_name"),
					Start:             payload.Int64Ptr(inst, "certification_start"),
					End:               payload.Int64Ptr(inst, "certification_end"),
					Comments:          payload.StringPtr(inst, "certification_comments"),
					LastUpdate:        payload.Int64Ptr(inst, "certification_last_update"),
				})
			}
		}
		certs = append(certs, cert)
	}
	return certs
}

// OriginCountry returns the origin country id and name from the detail
// document. ok is false when either is missing or the name is blank.
func (p *RawProduct) OriginCountry() (id int64, name string, ok bool) {
	idPtr := payload.Int64Ptr(p.Detail, "origin_country_id")
	namePtr := payload.StringPtr(p.Detail, "origin_country_name")
	if idPtr == nil || namePtr == nil || strings.TrimSpace(*namePtr) == "" {
		return 0, "", false
	}
	return *idPtr, strings.TrimSpace(*namePtr), true
}
