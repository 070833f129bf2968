package payload

import (
	"testing"

	"github.com/antonholmquist/jason"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseValue(t *testing.T, raw string) *jason.Value {
	t.Helper()
	v, err := jason.NewValueFromBytes([]byte(raw))
	require.NoError(t, err)
	return v
}

func TestLookup(t *testing.T) {
	doc := parseValue(t, `{
		"props": {
			"pageProps": {
				"product": {
					"products": [
						{"item": {"ean": "7801234567890", "brandId": 42}}
					]
				}
			}
		}
	}`)

	t.Run("MixedKeyAndIndexPath", func(t *testing.T) {
		ean := String(doc, "", "props", "pageProps", "product", "products", 0, "item", "ean")
		assert.Equal(t, "7801234567890", ean)
	})

	t.Run("MissingKeyReturnsDefault", func(t *testing.T) {
		got := String(doc, "fallback", "props", "pageProps", "missing", "key")
		assert.Equal(t, "fallback", got)
	})

	t.Run("IndexOutOfBounds", func(t *testing.T) {
		_, ok := Lookup(doc, "props", "pageProps", "product", "products", 5)
		assert.False(t, ok)
	})

	t.Run("IndexIntoObjectFails", func(t *testing.T) {
		_, ok := Lookup(doc, "props", 0)
		assert.False(t, ok)
	})

	t.Run("KeyIntoScalarFails", func(t *testing.T) {
		_, ok := Lookup(doc, "props", "pageProps", "product", "products", 0, "item", "ean", "deeper")
		assert.False(t, ok)
	})

	t.Run("NilValue", func(t *testing.T) {
		_, ok := Lookup(nil, "anything")
		assert.False(t, ok)
	})

	t.Run("EmptyPathReturnsInput", func(t *testing.T) {
		v, ok := Lookup(doc)
		require.True(t, ok)
		assert.Equal(t, doc, v)
	})
}

func TestTypedAccessors(t *testing.T) {
	doc := parseValue(t, `{
		"name": "Fideos Spaghetti",
		"count": 7,
		"ratio": 2.5,
		"active": true,
		"empty": null,
		"tags": ["a", "b"]
	}`)

	t.Run("StringPtr", func(t *testing.T) {
		require.NotNil(t, StringPtr(doc, "name"))
		assert.Equal(t, "Fideos Spaghetti", *StringPtr(doc, "name"))
		assert.Nil(t, StringPtr(doc, "count"), "number is not a string")
		assert.Nil(t, StringPtr(doc, "empty"), "null is not a string")
		assert.Nil(t, StringPtr(doc, "missing"))
	})

	t.Run("Int64Ptr", func(t *testing.T) {
		require.NotNil(t, Int64Ptr(doc, "count"))
		assert.Equal(t, int64(7), *Int64Ptr(doc, "count"))
		assert.Nil(t, Int64Ptr(doc, "ratio"), "fractional number is not an int")
		assert.Nil(t, Int64Ptr(doc, "name"))
	})

	t.Run("Float64Ptr", func(t *testing.T) {
		require.NotNil(t, Float64Ptr(doc, "ratio"))
		assert.InDelta(t, 2.5, *Float64Ptr(doc, "ratio"), 1e-9)
		require.NotNil(t, Float64Ptr(doc, "count"), "integers are numbers too")
		assert.Nil(t, Float64Ptr(doc, "active"))
	})

	t.Run("Stringish", func(t *testing.T) {
		require.NotNil(t, Stringish(doc, "name"))
		require.NotNil(t, Stringish(doc, "count"))
		assert.Equal(t, "7", *Stringish(doc, "count"))
		require.NotNil(t, Stringish(doc, "ratio"))
		assert.Equal(t, "2.5", *Stringish(doc, "ratio"))
		assert.Nil(t, Stringish(doc, "active"))
		assert.Nil(t, Stringish(doc, "missing"))
	})

	t.Run("BoolPtr", func(t *testing.T) {
		require.NotNil(t, BoolPtr(doc, "active"))
		assert.True(t, *BoolPtr(doc, "active"))
		assert.Nil(t, BoolPtr(doc, "name"))
	})

	t.Run("Array", func(t *testing.T) {
		arr, ok := Array(doc, "tags")
		require.True(t, ok)
		assert.Len(t, arr, 2)

		_, ok = Array(doc, "name")
		assert.False(t, ok)
	})

	t.Run("Object", func(t *testing.T) {
		_, ok := Object(doc, "tags")
		assert.False(t, ok)

		obj, ok := Object(doc)
		require.True(t, ok)
		_, err := obj.GetString("name")
		assert.NoError(t, err)
	})
}
