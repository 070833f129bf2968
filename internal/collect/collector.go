// Package collect accumulates the corpus-wide lookup entities across all
// processed documents and resolves category display names once the whole
// corpus has been seen.
package collect

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/aordonez-dev/unimarc-ingest/internal/datastore"
	"github.com/aordonez-dev/unimarc-ingest/internal/extract"
	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
)

type certifierInfo struct {
	SourceID *int64
	LogoURL  *string
}

// Collector owns the corpus-wide entity maps. Processing is single-threaded,
// so no locking is needed; merge outcomes depend on document order, which the
// pipeline keeps deterministic by sorting document keys.
type Collector struct {
	logger *slog.Logger

	brands        map[int64]string
	categories    map[int64]*categoryCandidates
	ingredients   map[string]*int64
	nutrientTypes map[string]*string
	certTypes     map[string]string
	certifiers    map[string]*certifierInfo
	degrees       map[int64]string
	countries     map[int64]string
}

func New() *Collector {
	return &Collector{
		logger:        logging.ForService("collect"),
		brands:        make(map[int64]string),
		categories:    make(map[int64]*categoryCandidates),
		ingredients:   make(map[string]*int64),
		nutrientTypes: make(map[string]*string),
		certTypes:     make(map[string]string),
		certifiers:    make(map[string]*certifierInfo),
		degrees:       make(map[int64]string),
		countries:     make(map[int64]string),
	}
}

// NormalizeName collapses case and internal whitespace so that "  Gluten "
// and "gluten" merge into one ingredient entity.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Collect merges one product's entity sightings into the corpus-wide maps.
func (c *Collector) Collect(p *extract.RawProduct) {
	if id, name, ok := p.BrandSighting(); ok {
		c.brands[id] = name
	}

	if id, ok := p.CategoryID(); ok {
		cand, exists := c.categories[id]
		if !exists {
			cand = &categoryCandidates{}
			c.categories[id] = cand
		}
		if s := p.CategorySlug(); s != nil {
			cand.Slug = s
		}
		if n := p.CategoryDetailName(); n != nil {
			cand.DetailName = n
		}
		if n := p.CategoryBreadcrumbName(); n != nil {
			cand.BreadcrumbName = n
		}
	}

	for _, s := range p.Ingredients() {
		c.addIngredient(s)
	}
	for _, s := range p.Allergens() {
		c.addIngredient(s)
	}
	for _, s := range p.Traces() {
		c.addIngredient(s)
	}

	for _, sighting := range extract.CollectNutrientTypes(p.NutrientNodes()) {
		c.nutrientTypes[sighting.Name] = sighting.Unit
	}

	for _, cert := range p.Certificates() {
		if cert.TypeCode == "" || cert.TypeName == "" {
			continue
		}
		c.certTypes[cert.TypeCode] = cert.TypeName
		for i := range cert.Instances {
			c.collectInstance(&cert.Instances[i])
		}
	}

	if id, name, ok := p.OriginCountry(); ok {
		c.countries[id] = name
	}
}

func (c *Collector) addIngredient(s extract.IngredientSighting) {
	key := NormalizeName(s.Name)
	if key == "" {
		return
	}
	if _, ok := c.ingredients[key]; !ok {
		c.ingredients[key] = s.SourceID
		return
	}
	if s.SourceID != nil {
		c.ingredients[key] = s.SourceID
	}
}

func (c *Collector) collectInstance(inst *extract.CertInstance) {
	if inst.DegreeID != nil && inst.DegreeName != nil {
		if name := strings.TrimSpace(*inst.DegreeName); name != "" {
			c.degrees[*inst.DegreeID] = name
		}
	}
	if inst.CountryID != nil && inst.CountryName != nil {
		if name := strings.TrimSpace(*inst.CountryName); name != "" {
			c.countries[*inst.CountryID] = name
		}
	}

	// Certifiers without a name stay out of the corpus-wide set; the
	// association row still carries their numeric source id.
	if inst.CertifierName == nil {
		return
	}
	name := strings.TrimSpace(*inst.CertifierName)
	if name == "" {
		return
	}
	info, ok := c.certifiers[name]
	if !ok {
		info = &certifierInfo{}
		c.certifiers[name] = info
	}
	// A zero source id never replaces an id already on record; it is kept
	// only when no sighting has supplied anything better.
	if inst.CertifierSourceID != nil && (info.SourceID == nil || *inst.CertifierSourceID != 0) {
		info.SourceID = inst.CertifierSourceID
	}
	if inst.CertifierLogoURL != nil {
		info.LogoURL = inst.CertifierLogoURL
	}
}

// Entities resolves category names and exports every lookup map as a slice
// sorted by its natural key.
func (c *Collector) Entities() *datastore.Entities {
	out := &datastore.Entities{}

	for id, name := range c.brands {
		out.Brands = append(out.Brands, datastore.Brand{BrandID: id, Name: name})
	}
	sort.Slice(out.Brands, func(i, j int) bool { return out.Brands[i].BrandID < out.Brands[j].BrandID })

	for id, cand := range c.categories {
		name, ok := cand.resolve(id, c.logger)
		if !ok {
			c.logger.Warn("Category has no name candidates, omitting", "category_id", id)
			continue
		}
		out.Categories = append(out.Categories, datastore.Category{
			CategoryID: id,
			Name:       name,
			Slug:       cand.Slug,
		})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].CategoryID < out.Categories[j].CategoryID
	})

	for name, sourceID := range c.ingredients {
		out.Ingredients = append(out.Ingredients, datastore.Ingredient{Name: name, SourceID: sourceID})
	}
	sort.Slice(out.Ingredients, func(i, j int) bool {
		return out.Ingredients[i].Name < out.Ingredients[j].Name
	})

	for name, unit := range c.nutrientTypes {
		out.NutrientTypes = append(out.NutrientTypes, datastore.NutrientType{Name: name, Unit: unit})
	}
	sort.Slice(out.NutrientTypes, func(i, j int) bool {
		return out.NutrientTypes[i].Name < out.NutrientTypes[j].Name
	})

	for code, name := range c.certTypes {
		out.CertTypes = append(out.CertTypes, datastore.CertificationType{Code: code, Name: name})
	}
	sort.Slice(out.CertTypes, func(i, j int) bool { return out.CertTypes[i].Code < out.CertTypes[j].Code })

	for name, info := range c.certifiers {
		out.Certifiers = append(out.Certifiers, datastore.Certifier{
			Name:     name,
			SourceID: info.SourceID,
			LogoURL:  info.LogoURL,
		})
	}
	sort.Slice(out.Certifiers, func(i, j int) bool { return out.Certifiers[i].Name < out.Certifiers[j].Name })

	for id, name := range c.degrees {
		out.Degrees = append(out.Degrees, datastore.CertificationDegree{DegreeID: id, Name: name})
	}
	sort.Slice(out.Degrees, func(i, j int) bool { return out.Degrees[i].DegreeID < out.Degrees[j].DegreeID })

	for id, name := range c.countries {
		out.Countries = append(out.Countries, datastore.Country{CountryID: id, Name: name})
	}
	sort.Slice(out.Countries, func(i, j int) bool {
		return out.Countries[i].CountryID < out.Countries[j].CountryID
	})

	return out
}
