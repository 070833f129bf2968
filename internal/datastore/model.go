// model.go this code defines the data model for the ingestion output
package datastore

import "time"

// Brand is a deduplicated brand lookup entity keyed by its source id.
type Brand struct {
	BrandID int64  `gorm:"column:brand_id;primaryKey"`
	Name    string `gorm:"column:brand_name;size:255;not null"`
}

// Category is a category lookup entity. Name is resolved from up to three
// candidate sources after the whole corpus has been seen.
type Category struct {
	CategoryID int64   `gorm:"column:category_id;primaryKey"`
	Name       string  `gorm:"column:category_name;size:255;not null"`
	Slug       *string `gorm:"column:category_slug;size:255"`
}

// Ingredient is a shared lookup entity for ingredients, allergens and
// traces. Uniqueness is by normalized name; the source id is informational.
type Ingredient struct {
	ID       uint   `gorm:"primaryKey"`
	SourceID *int64 `gorm:"column:source_ingredient_id"`
	Name     string `gorm:"column:ingredient_name;size:255;uniqueIndex;not null"`
}

// NutrientType is one nutrient definition observed anywhere in the corpus.
type NutrientType struct {
	ID   uint    `gorm:"primaryKey"`
	Name string  `gorm:"size:255;uniqueIndex;not null"`
	Unit *string `gorm:"size:50"`
}

// CertificationType is a certification kind, keyed by its source code.
type CertificationType struct {
	Code string `gorm:"column:certification_type_code;size:255;primaryKey"`
	Name string `gorm:"column:certification_type_name;size:255;not null"`
}

// Certifier is an organization that issues certifications, keyed by name.
type Certifier struct {
	ID       uint    `gorm:"primaryKey"`
	SourceID *int64  `gorm:"column:source_certifier_id"`
	Name     string  `gorm:"column:certifier_name;size:255;uniqueIndex;not null"`
	LogoURL  *string `gorm:"column:certifier_logo_url;size:512"`
}

// CertificationDegree is the degree/status of a certification.
type CertificationDegree struct {
	DegreeID int64  `gorm:"column:certification_degree_id;primaryKey"`
	Name     string `gorm:"column:certification_degree_name;size:255;not null"`
}

// Country is a country lookup entity.
type Country struct {
	CountryID int64  `gorm:"column:country_id;primaryKey"`
	Name      string `gorm:"column:country_name;size:255;not null"`
}

// Product is the core product record, keyed by EAN. Name is nullable: a
// product sighted without any resolvable name is still recorded.
type Product struct {
	EAN               string   `gorm:"column:ean;size:13;primaryKey"`
	ProductID         *string  `gorm:"column:product_id;size:255"`
	ItemID            *string  `gorm:"column:item_id;size:255"`
	SKU               *string  `gorm:"column:sku;size:255"`
	Name              *string  `gorm:"size:255"`
	BrandID           *int64   `gorm:"column:brand_id"`
	CategoryID        *int64   `gorm:"column:category_id"`
	Description       *string  `gorm:"type:text"`
	FullDescription   *string  `gorm:"type:text"`
	Flavor            *string  `gorm:"size:255"`
	NetContent        *string  `gorm:"size:100"`
	SizeValue         *float64 `gorm:"column:size_value"`
	SizeUnit          *string  `gorm:"column:size_unit_name;size:50"`
	DrainedSizeValue  *float64 `gorm:"column:drained_size_value"`
	PackagingType     *string  `gorm:"column:packaging_type_name;size:100"`
	OriginCountryName *string  `gorm:"column:origin_country_name;size:255"`
	TimestampIn       *int64   `gorm:"column:product_timestamp_in"`
	LastReview        *int64   `gorm:"column:product_last_review"`
	LastUpdate        *int64   `gorm:"column:product_last_update"`
}

// ProductPrice is the latest price snapshot for a product, one row per EAN.
type ProductPrice struct {
	ProductEAN           string    `gorm:"column:product_ean;size:13;primaryKey"`
	Price                *float64  `gorm:"column:price"`
	ListPrice            *float64  `gorm:"column:list_price"`
	PriceWithoutDiscount *float64  `gorm:"column:price_without_discount"`
	RewardValue          *float64  `gorm:"column:reward_value"`
	AvailableQuantity    *int64    `gorm:"column:available_quantity"`
	InOffer              *bool     `gorm:"column:in_offer"`
	PPUM                 *string   `gorm:"column:ppum;size:100"`
	PPUMListPrice        *string   `gorm:"column:ppum_list_price;size:100"`
	Saving               *string   `gorm:"column:saving;size:100"`
	LastUpdated          time.Time `gorm:"column:last_updated;autoUpdateTime"`
}

// ProductPromotion is the latest promotion snapshot for a product.
type ProductPromotion struct {
	ProductEAN         string    `gorm:"column:product_ean;size:13;primaryKey"`
	PromotionID        *string   `gorm:"column:promotion_id;size:255"`
	Name               *string   `gorm:"column:promotion_name;size:255"`
	Type               *string   `gorm:"column:promotion_type;size:255"`
	HasSavings         *bool     `gorm:"column:has_savings"`
	Saving             *float64  `gorm:"column:saving"`
	OfferMessage       *bool     `gorm:"column:offer_message"`
	DescriptionMessage *string   `gorm:"column:description_message;size:255"`
	LastUpdated        time.Time `gorm:"column:last_updated;autoUpdateTime"`
}

// ProductImage is one entry of a product's ordered image list. The list is
// fully replaced on each ingestion pass.
type ProductImage struct {
	ID         uint   `gorm:"primaryKey"`
	ProductEAN string `gorm:"column:product_ean;size:13;index"`
	URL        string `gorm:"column:image_url;size:512"`
	Position   int    `gorm:"column:image_order"`
}

// ProductIngredient links a product to an ingredient by normalized name.
type ProductIngredient struct {
	ID             uint   `gorm:"primaryKey"`
	ProductEAN     string `gorm:"column:product_ean;size:13;index"`
	IngredientName string `gorm:"column:ingredient_name;size:255"`
	Position       int    `gorm:"column:ingredient_order"`
}

// ProductAllergen links a product to an allergen by normalized name.
type ProductAllergen struct {
	ID             uint   `gorm:"primaryKey"`
	ProductEAN     string `gorm:"column:product_ean;size:13;index"`
	IngredientName string `gorm:"column:ingredient_name;size:255"`
	Position       int    `gorm:"column:ingredient_order"`
}

// ProductTrace links a product to a trace by normalized name.
type ProductTrace struct {
	ID             uint   `gorm:"primaryKey"`
	ProductEAN     string `gorm:"column:product_ean;size:13;index"`
	IngredientName string `gorm:"column:ingredient_name;size:255"`
	Position       int    `gorm:"column:ingredient_order"`
}

// ProductNutrition is one flattened nutrient reading of a product,
// referencing a NutrientType by name.
type ProductNutrition struct {
	ID              uint     `gorm:"primaryKey"`
	ProductEAN      string   `gorm:"column:product_ean;size:13;index"`
	NutrientName    string   `gorm:"column:nutrient_name;size:255"`
	ValuePer100g    *float64 `gorm:"column:value_per_100g"`
	ValuePerPortion *float64 `gorm:"column:value_per_portion"`
}

// ProductServingInfo is the serving size block of a product's nutrition
// table, one row per EAN.
type ProductServingInfo struct {
	ProductEAN   string   `gorm:"column:product_ean;size:13;primaryKey"`
	PortionText  *string  `gorm:"column:portion_text;size:255"`
	PortionValue *float64 `gorm:"column:portion_value"`
	PortionUnit  *string  `gorm:"column:portion_unit;size:50"`
	NumPortions  *float64 `gorm:"column:num_portions"`
	BasicUnit    *string  `gorm:"column:basic_unit;size:50"`
}

// ProductCertification is one certification instance of a product. Degree
// and country references are mandatory; the certifier reference is by name
// when known, by source id otherwise.
type ProductCertification struct {
	ID                uint    `gorm:"primaryKey"`
	ProductEAN        string  `gorm:"column:product_ean;size:13;index"`
	TypeCode          string  `gorm:"column:certification_type_code;size:255"`
	CertifierName     *string `gorm:"column:certifier_name;size:255"`
	CertifierSourceID *int64  `gorm:"column:source_certifier_id"`
	DegreeID          int64   `gorm:"column:certification_degree_id;not null"`
	CountryID         int64   `gorm:"column:certification_country_id;not null"`
	Start             *int64  `gorm:"column:certification_start"`
	End               *int64  `gorm:"column:certification_end"`
	Comments          *string `gorm:"column:certification_comments;type:text"`
	LastUpdate        *int64  `gorm:"column:certification_last_update"`
}

// Entities is the corpus-wide set of deduplicated lookup entities, each
// slice sorted by its natural key.
type Entities struct {
	Brands        []Brand
	Categories    []Category
	Ingredients   []Ingredient
	NutrientTypes []NutrientType
	CertTypes     []CertificationType
	Certifiers    []Certifier
	Degrees       []CertificationDegree
	Countries     []Country
}

// ProductBundle is the full per-product output: the core record plus every
// dependent row set. Association slices are full-replace collections.
type ProductBundle struct {
	Product        Product
	Price          *ProductPrice
	Promotion      *ProductPromotion
	Images         []ProductImage
	Ingredients    []ProductIngredient
	Allergens      []ProductAllergen
	Traces         []ProductTrace
	Nutrition      []ProductNutrition
	Serving        *ProductServingInfo
	Certifications []ProductCertification
}
