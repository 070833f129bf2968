package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aordonez-dev/unimarc-ingest/internal/logging"
)

// allModels lists every table the ingestion pipeline writes, in dependency
// order so foreign-key targets migrate first.
func allModels() []any {
	return []any{
		&Brand{},
		&Category{},
		&Ingredient{},
		&NutrientType{},
		&CertificationType{},
		&Certifier{},
		&CertificationDegree{},
		&Country{},
		&Product{},
		&ProductPrice{},
		&ProductPromotion{},
		&ProductImage{},
		&ProductIngredient{},
		&ProductAllergen{},
		&ProductTrace{},
		&ProductNutrition{},
		&ProductServingInfo{},
		&ProductCertification{},
	}
}

// performAutoMigration runs gorm's auto-migration for all tables.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	migrationStart := time.Now()
	migrationLogger := logging.ForService("datastore").With("db_type", dbType)

	migrationLogger.Debug("Starting database migration")

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate %s database: %w", dbType, err)
	}

	if debug {
		migrationLogger.Debug("Database connection details", "connection", connectionInfo)
	}
	migrationLogger.Debug("Database migration completed",
		"duration", time.Since(migrationStart),
		"tables", len(allModels()))

	return nil
}
