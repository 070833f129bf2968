package pipeline

import (
	"fmt"
	"testing"

	"github.com/antonholmquist/jason"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
)

func document(t *testing.T, key, src string) payload.Document {
	t.Helper()
	root, err := jason.NewValueFromBytes([]byte(src))
	require.NoError(t, err)
	return payload.Document{Key: key, Root: root}
}

// hydrationDoc builds a minimal but complete hydration payload: a product
// summary with a price block and a successful detail query for the EAN.
func hydrationDoc(t *testing.T, key, ean, name, brand string, brandID int64) payload.Document {
	t.Helper()
	src := fmt.Sprintf(`{
		"props": {"pageProps": {
			"product": {"products": [{
				"item": {
					"ean": %q,
					"name": %q,
					"brandId": %d,
					"brand": %q,
					"categoryId": 5,
					"categorySlug": "lacteos"
				},
				"price": {"price": "$1.990"}
			}]},
			"dehydratedState": {"queries": [{
				"queryKey": ["getProductDetailByEan", %q],
				"state": {"status": "success", "data": {"data": {"response": {
					"category_name": "Leches",
					"allergens": [{"ingredient_name": "Lactosa"}]
				}}}}
			}]}
		}}
	}`, ean, name, brandID, brand, ean)
	return document(t, key, src)
}

func TestRun(t *testing.T) {
	t.Run("processes documents and builds entities and products", func(t *testing.T) {
		corpus := payload.Corpus{
			hydrationDoc(t, "a", "7801111111111", "Leche Entera", "Lácteos Sur", 10),
			hydrationDoc(t, "b", "7802222222222", "Leche Descremada", "Lácteos Sur", 10),
		}

		result := Run(corpus)
		assert.Equal(t, 2, result.Stats.DocumentsSeen)
		assert.Equal(t, 2, result.Stats.DocumentsProcessed)
		assert.Equal(t, 0, result.Stats.DocumentsSkipped)
		assert.Equal(t, 2, result.Stats.ProductsEmitted)

		require.Len(t, result.Products, 2)
		assert.Equal(t, "7801111111111", result.Products[0].Product.EAN)
		require.NotNil(t, result.Products[0].Price)
		require.NotNil(t, result.Products[0].Price.Price)
		assert.InDelta(t, 1990, *result.Products[0].Price.Price, 0.001)

		require.Len(t, result.Entities.Brands, 1)
		assert.Equal(t, "Lácteos Sur", result.Entities.Brands[0].Name)
		require.Len(t, result.Entities.Categories, 1)
		assert.Equal(t, "Leches", result.Entities.Categories[0].Name)
		require.Len(t, result.Entities.Ingredients, 1)
		assert.Equal(t, "lactosa", result.Entities.Ingredients[0].Name)
	})

	t.Run("documents without a summary are skipped", func(t *testing.T) {
		corpus := payload.Corpus{
			document(t, "empty", `{"props": {"pageProps": {}}}`),
			hydrationDoc(t, "good", "7801111111111", "Leche", "Marca", 10),
		}

		result := Run(corpus)
		assert.Equal(t, 2, result.Stats.DocumentsSeen)
		assert.Equal(t, 1, result.Stats.DocumentsSkipped)
		assert.Equal(t, 1, result.Stats.ProductsEmitted)
		assert.Len(t, result.Products, 1)
	})

	t.Run("duplicate ean keeps position of first sighting and content of last", func(t *testing.T) {
		corpus := payload.Corpus{
			hydrationDoc(t, "a", "7801111111111", "Nombre Viejo", "Marca", 10),
			hydrationDoc(t, "b", "7802222222222", "Otro Producto", "Marca", 10),
			hydrationDoc(t, "c", "7801111111111", "Nombre Nuevo", "Marca", 10),
		}

		result := Run(corpus)
		assert.Equal(t, 2, result.Stats.ProductsEmitted)
		require.Len(t, result.Products, 2)
		assert.Equal(t, "7801111111111", result.Products[0].Product.EAN)
		require.NotNil(t, result.Products[0].Product.Name)
		assert.Equal(t, "Nombre Nuevo", *result.Products[0].Product.Name)
	})

	t.Run("running twice over the same corpus yields identical output", func(t *testing.T) {
		corpus := payload.Corpus{
			hydrationDoc(t, "a", "7801111111111", "Leche Entera", "Lácteos Sur", 10),
			hydrationDoc(t, "b", "7802222222222", "Leche Descremada", "Lácteos Sur", 10),
		}

		first := Run(corpus)
		second := Run(corpus)
		assert.Equal(t, first.Entities, second.Entities)
		assert.Equal(t, first.Products, second.Products)
		assert.Equal(t, first.Stats, second.Stats)
	})

	t.Run("empty corpus yields empty result", func(t *testing.T) {
		result := Run(nil)
		assert.Equal(t, 0, result.Stats.DocumentsSeen)
		assert.Empty(t, result.Products)
		assert.Empty(t, result.Entities.Brands)
	})
}
