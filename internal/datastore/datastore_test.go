package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aordonez-dev/unimarc-ingest/internal/conf"
)

// setupTestStore creates an in-memory SQLite store with the full schema.
func setupTestStore(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "opening in-memory database")
	require.NoError(t, performAutoMigration(db, false, "SQLite", ":memory:"))

	return &DataStore{DB: db}
}

func strPtr(s string) *string   { return &s }
func i64Ptr(i int64) *int64     { return &i }
func f64Ptr(f float64) *float64 { return &f }

func TestSaveEntities(t *testing.T) {
	t.Run("inserts all entity kinds", func(t *testing.T) {
		ds := setupTestStore(t)

		entities := &Entities{
			Brands:        []Brand{{BrandID: 10, Name: "Acme"}},
			Categories:    []Category{{CategoryID: 3, Name: "Bebidas", Slug: strPtr("bebidas")}},
			Ingredients:   []Ingredient{{Name: "azucar", SourceID: i64Ptr(7)}},
			NutrientTypes: []NutrientType{{Name: "Sodio", Unit: strPtr("mg")}},
			CertTypes:     []CertificationType{{Code: "ORG", Name: "Organic"}},
			Certifiers:    []Certifier{{Name: "CertCo", SourceID: i64Ptr(42)}},
			Degrees:       []CertificationDegree{{DegreeID: 1, Name: "Full"}},
			Countries:     []Country{{CountryID: 56, Name: "Chile"}},
		}
		require.NoError(t, ds.SaveEntities(entities))

		var brandCount, catCount, ingCount int64
		ds.DB.Model(&Brand{}).Count(&brandCount)
		ds.DB.Model(&Category{}).Count(&catCount)
		ds.DB.Model(&Ingredient{}).Count(&ingCount)
		assert.Equal(t, int64(1), brandCount)
		assert.Equal(t, int64(1), catCount)
		assert.Equal(t, int64(1), ingCount)
	})

	t.Run("resaving refreshes names in place", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveEntities(&Entities{
			Brands: []Brand{{BrandID: 10, Name: "Acme"}},
		}))
		require.NoError(t, ds.SaveEntities(&Entities{
			Brands: []Brand{{BrandID: 10, Name: "Acme Foods"}},
		}))

		var brands []Brand
		require.NoError(t, ds.DB.Find(&brands).Error)
		require.Len(t, brands, 1)
		assert.Equal(t, "Acme Foods", brands[0].Name)
	})

	t.Run("ingredient keeps source id when resave omits it", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveEntities(&Entities{
			Ingredients: []Ingredient{{Name: "azucar", SourceID: i64Ptr(7)}},
		}))
		require.NoError(t, ds.SaveEntities(&Entities{
			Ingredients: []Ingredient{{Name: "azucar"}},
		}))

		var ings []Ingredient
		require.NoError(t, ds.DB.Find(&ings).Error)
		require.Len(t, ings, 1)
		require.NotNil(t, ings[0].SourceID)
		assert.Equal(t, int64(7), *ings[0].SourceID)
	})

	t.Run("ingredient fills source id when resave provides it", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveEntities(&Entities{
			Ingredients: []Ingredient{{Name: "azucar"}},
		}))
		require.NoError(t, ds.SaveEntities(&Entities{
			Ingredients: []Ingredient{{Name: "azucar", SourceID: i64Ptr(9)}},
		}))

		var ings []Ingredient
		require.NoError(t, ds.DB.Find(&ings).Error)
		require.Len(t, ings, 1)
		require.NotNil(t, ings[0].SourceID)
		assert.Equal(t, int64(9), *ings[0].SourceID)
	})

	t.Run("certifier merges source id and logo across saves", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveEntities(&Entities{
			Certifiers: []Certifier{{Name: "CertCo", LogoURL: strPtr("https://x/logo.png")}},
		}))
		require.NoError(t, ds.SaveEntities(&Entities{
			Certifiers: []Certifier{{Name: "CertCo", SourceID: i64Ptr(42)}},
		}))

		var certs []Certifier
		require.NoError(t, ds.DB.Find(&certs).Error)
		require.Len(t, certs, 1)
		require.NotNil(t, certs[0].SourceID)
		require.NotNil(t, certs[0].LogoURL)
		assert.Equal(t, int64(42), *certs[0].SourceID)
		assert.Equal(t, "https://x/logo.png", *certs[0].LogoURL)
	})

	t.Run("empty entity set is a no-op", func(t *testing.T) {
		ds := setupTestStore(t)
		require.NoError(t, ds.SaveEntities(&Entities{}))
	})

	t.Run("nil database returns error", func(t *testing.T) {
		ds := &DataStore{}
		assert.Error(t, ds.SaveEntities(&Entities{}))
	})
}

func sampleBundle(ean string) *ProductBundle {
	return &ProductBundle{
		Product: Product{
			EAN:     ean,
			Name:    strPtr("Galletas de avena"),
			BrandID: i64Ptr(10),
		},
		Price: &ProductPrice{
			ProductEAN: ean,
			Price:      f64Ptr(1990),
			ListPrice:  f64Ptr(2490),
		},
		Promotion: &ProductPromotion{
			ProductEAN: ean,
			Name:       strPtr("2x1"),
		},
		Images: []ProductImage{
			{ProductEAN: ean, URL: "https://x/1.jpg", Position: 0},
			{ProductEAN: ean, URL: "https://x/2.jpg", Position: 1},
		},
		Ingredients: []ProductIngredient{
			{ProductEAN: ean, IngredientName: "avena", Position: 0},
			{ProductEAN: ean, IngredientName: "azucar", Position: 1},
		},
		Allergens: []ProductAllergen{
			{ProductEAN: ean, IngredientName: "gluten", Position: 0},
		},
		Nutrition: []ProductNutrition{
			{ProductEAN: ean, NutrientName: "Sodio", ValuePer100g: f64Ptr(120)},
		},
		Serving: &ProductServingInfo{
			ProductEAN:  ean,
			PortionText: strPtr("30 g"),
		},
		Certifications: []ProductCertification{
			{ProductEAN: ean, TypeCode: "ORG", CertifierName: strPtr("CertCo"), DegreeID: 1, CountryID: 56},
		},
	}
}

func TestSaveProduct(t *testing.T) {
	t.Run("persists full bundle", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveProduct(sampleBundle("7801234567890")))

		var product Product
		require.NoError(t, ds.DB.First(&product, "ean = ?", "7801234567890").Error)
		require.NotNil(t, product.Name)
		assert.Equal(t, "Galletas de avena", *product.Name)

		var imageCount, ingCount, certCount int64
		ds.DB.Model(&ProductImage{}).Count(&imageCount)
		ds.DB.Model(&ProductIngredient{}).Count(&ingCount)
		ds.DB.Model(&ProductCertification{}).Count(&certCount)
		assert.Equal(t, int64(2), imageCount)
		assert.Equal(t, int64(2), ingCount)
		assert.Equal(t, int64(1), certCount)

		var price ProductPrice
		require.NoError(t, ds.DB.First(&price, "product_ean = ?", "7801234567890").Error)
		require.NotNil(t, price.Price)
		assert.InDelta(t, 1990, *price.Price, 0.001)
	})

	t.Run("resave replaces association lists", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveProduct(sampleBundle("7801234567890")))

		updated := sampleBundle("7801234567890")
		updated.Images = []ProductImage{
			{ProductEAN: "7801234567890", URL: "https://x/new.jpg", Position: 0},
		}
		updated.Ingredients = nil
		require.NoError(t, ds.SaveProduct(updated))

		var images []ProductImage
		require.NoError(t, ds.DB.Find(&images).Error)
		require.Len(t, images, 1)
		assert.Equal(t, "https://x/new.jpg", images[0].URL)

		var ingCount int64
		ds.DB.Model(&ProductIngredient{}).Count(&ingCount)
		assert.Equal(t, int64(0), ingCount)
	})

	t.Run("resave updates price in place", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveProduct(sampleBundle("7801234567890")))

		updated := sampleBundle("7801234567890")
		updated.Price.Price = f64Ptr(1490)
		require.NoError(t, ds.SaveProduct(updated))

		var prices []ProductPrice
		require.NoError(t, ds.DB.Find(&prices).Error)
		require.Len(t, prices, 1)
		require.NotNil(t, prices[0].Price)
		assert.InDelta(t, 1490, *prices[0].Price, 0.001)
	})

	t.Run("optional blocks may be absent", func(t *testing.T) {
		ds := setupTestStore(t)

		bundle := &ProductBundle{Product: Product{EAN: "7800000000001"}}
		require.NoError(t, ds.SaveProduct(bundle))

		var priceCount, servingCount int64
		ds.DB.Model(&ProductPrice{}).Count(&priceCount)
		ds.DB.Model(&ProductServingInfo{}).Count(&servingCount)
		assert.Equal(t, int64(0), priceCount)
		assert.Equal(t, int64(0), servingCount)
	})

	t.Run("distinct products do not disturb each other", func(t *testing.T) {
		ds := setupTestStore(t)

		require.NoError(t, ds.SaveProduct(sampleBundle("7801234567890")))
		require.NoError(t, ds.SaveProduct(sampleBundle("7809876543210")))

		updated := sampleBundle("7801234567890")
		updated.Images = nil
		require.NoError(t, ds.SaveProduct(updated))

		var otherImages []ProductImage
		require.NoError(t, ds.DB.Where("product_ean = ?", "7809876543210").Find(&otherImages).Error)
		assert.Len(t, otherImages, 2)
	})
}

func TestNew(t *testing.T) {
	t.Run("no enabled output yields nil store", func(t *testing.T) {
		assert.Nil(t, New(&conf.Settings{}))
	})

	t.Run("sqlite settings yield sqlite store", func(t *testing.T) {
		settings := &conf.Settings{}
		settings.Output.SQLite.Enabled = true
		settings.Output.SQLite.Path = "x.db"
		store := New(settings)
		require.NotNil(t, store)
		assert.IsType(t, &SQLiteStore{}, store)
	})
}
