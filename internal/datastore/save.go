// save.go: upsert and full-replace persistence of the pipeline output.
//
// Lookup entities are upserted keeping their natural keys stable across
// runs; association lists are cleared and re-inserted because the source
// corpus is a snapshot, not a delta.
package datastore

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aordonez-dev/unimarc-ingest/internal/errors"
)

// SaveEntities upserts all lookup entities in one transaction.
func (ds *DataStore) SaveEntities(entities *Entities) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if len(entities.Brands) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "brand_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"brand_name"}),
			}).Create(&entities.Brands).Error; err != nil {
				return fmt.Errorf("saving brands: %w", err)
			}
		}
		if len(entities.Categories) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"category_name", "category_slug"}),
			}).Create(&entities.Categories).Error; err != nil {
				return fmt.Errorf("saving categories: %w", err)
			}
		}
		if len(entities.NutrientTypes) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"unit"}),
			}).Create(&entities.NutrientTypes).Error; err != nil {
				return fmt.Errorf("saving nutrient types: %w", err)
			}
		}
		if len(entities.CertTypes) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "certification_type_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"certification_type_name"}),
			}).Create(&entities.CertTypes).Error; err != nil {
				return fmt.Errorf("saving certification types: %w", err)
			}
		}
		if len(entities.Degrees) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "certification_degree_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"certification_degree_name"}),
			}).Create(&entities.Degrees).Error; err != nil {
				return fmt.Errorf("saving certification degrees: %w", err)
			}
		}
		if len(entities.Countries) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "country_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"country_name"}),
			}).Create(&entities.Countries).Error; err != nil {
				return fmt.Errorf("saving countries: %w", err)
			}
		}
		for i := range entities.Ingredients {
			if err := upsertIngredient(tx, &entities.Ingredients[i]); err != nil {
				return fmt.Errorf("saving ingredient %q: %w", entities.Ingredients[i].Name, err)
			}
		}
		for i := range entities.Certifiers {
			if err := upsertCertifier(tx, &entities.Certifiers[i]); err != nil {
				return fmt.Errorf("saving certifier %q: %w", entities.Certifiers[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_entities").
			Build()
	}
	return nil
}

// upsertIngredient keeps the name-keyed row and fills the source id when the
// new sighting provides one.
func upsertIngredient(tx *gorm.DB, ing *Ingredient) error {
	var existing Ingredient
	err := tx.Where("ingredient_name = ?", ing.Name).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(ing).Error
	case err != nil:
		return err
	}
	if ing.SourceID != nil {
		existing.SourceID = ing.SourceID
	}
	return tx.Save(&existing).Error
}

// upsertCertifier keeps the name-keyed row, filling source id and logo from
// the new sighting when present.
func upsertCertifier(tx *gorm.DB, c *Certifier) error {
	var existing Certifier
	err := tx.Where("certifier_name = ?", c.Name).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(c).Error
	case err != nil:
		return err
	}
	if c.SourceID != nil {
		existing.SourceID = c.SourceID
	}
	if c.LogoURL != nil {
		existing.LogoURL = c.LogoURL
	}
	return tx.Save(&existing).Error
}

// SaveProduct upserts the core record and its 1:1 rows and fully replaces
// the association lists, all in one transaction.
func (ds *DataStore) SaveProduct(bundle *ProductBundle) error {
	if ds.DB == nil {
		return errors.Newf("database connection is not initialized").
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
	ean := bundle.Product.EAN
	err := ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ean"}},
			UpdateAll: true,
		}).Create(&bundle.Product).Error; err != nil {
			return fmt.Errorf("saving product: %w", err)
		}

		if bundle.Price != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_ean"}},
				UpdateAll: true,
			}).Create(bundle.Price).Error; err != nil {
				return fmt.Errorf("saving price: %w", err)
			}
		}
		if bundle.Promotion != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_ean"}},
				UpdateAll: true,
			}).Create(bundle.Promotion).Error; err != nil {
				return fmt.Errorf("saving promotion: %w", err)
			}
		}
		if bundle.Serving != nil {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "product_ean"}},
				UpdateAll: true,
			}).Create(bundle.Serving).Error; err != nil {
				return fmt.Errorf("saving serving info: %w", err)
			}
		}

		if err := replaceList(tx, ean, &ProductImage{}, bundle.Images); err != nil {
			return fmt.Errorf("replacing images: %w", err)
		}
		if err := replaceList(tx, ean, &ProductIngredient{}, bundle.Ingredients); err != nil {
			return fmt.Errorf("replacing ingredients: %w", err)
		}
		if err := replaceList(tx, ean, &ProductAllergen{}, bundle.Allergens); err != nil {
			return fmt.Errorf("replacing allergens: %w", err)
		}
		if err := replaceList(tx, ean, &ProductTrace{}, bundle.Traces); err != nil {
			return fmt.Errorf("replacing traces: %w", err)
		}
		if err := replaceList(tx, ean, &ProductNutrition{}, bundle.Nutrition); err != nil {
			return fmt.Errorf("replacing nutrition values: %w", err)
		}
		if err := replaceList(tx, ean, &ProductCertification{}, bundle.Certifications); err != nil {
			return fmt.Errorf("replacing certifications: %w", err)
		}
		return nil
	})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("ean", ean).
			Build()
	}
	return nil
}

// replaceList deletes all rows of a product's association list and inserts
// the new set.
func replaceList[T any](tx *gorm.DB, ean string, model *T, rows []T) error {
	if err := tx.Where("product_ean = ?", ean).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
