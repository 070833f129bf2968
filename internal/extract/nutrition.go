// nutrition.go: flattening of the hierarchical nutrient tree.
//
// Nutrients nest to arbitrary depth (e.g. "Grasas" with a "Grasas saturadas"
// child). A parent with children still carries its own values, so every named
// node is emitted, parents before their children, in traversal order.
package extract

import (
	"github.com/antonholmquist/jason"

	"github.com/aordonez-dev/unimarc-ingest/internal/payload"
)

// NutrientValue is one flattened nutrient reading of a product.
type NutrientValue struct {
	Name            string
	Unit            *string
	ValuePer100g    *float64
	ValuePerPortion *float64
}

// NutrientTypeSighting is a distinct (name, unit) pair observed in a
// nutrient tree, used to build the corpus-wide nutrient type set.
type NutrientTypeSighting struct {
	Name string
	Unit *string
}

// FlattenNutrients walks the nutrient node list depth-first and returns one
// record per named node, including non-leaf nodes.
func FlattenNutrients(nodes []*jason.Value) []NutrientValue {
	var flat []NutrientValue
	for _, node := range nodes {
		name := payload.String(node, "", "name")
		if name != "" {
			flat = append(flat, NutrientValue{
				Name:            name,
				Unit:            payload.StringPtr(node, "energyUnit"),
				ValuePer100g:    payload.Float64Ptr(node, "energyValue"),
				ValuePerPortion: payload.Float64Ptr(node, "energyValuePortion"),
			})
		}
		if children, ok := payload.Array(node, "children"); ok {
			flat = append(flat, FlattenNutrients(children)...)
		}
	}
	return flat
}

// CollectNutrientTypes walks the nutrient node list depth-first and returns
// the distinct (name, unit) pairs in traversal order.
func CollectNutrientTypes(nodes []*jason.Value) []NutrientTypeSighting {
	seen := make(map[string]struct{})
	return collectNutrientTypes(nodes, seen, nil)
}

func collectNutrientTypes(nodes []*jason.Value, seen map[string]struct{}, acc []NutrientTypeSighting) []NutrientTypeSighting {
	for _, node := range nodes {
		name := payload.String(node, "", "name")
		if name != "" {
			unit := payload.StringPtr(node, "energyUnit")
			key := name
			if unit != nil {
				key += "\x00" + *unit
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				acc = append(acc, NutrientTypeSighting{Name: name, Unit: unit})
			}
		}
		if children, ok := payload.Array(node, "children"); ok {
			acc = collectNutrientTypes(children, seen, acc)
		}
	}
	return acc
}
