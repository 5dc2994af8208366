package models

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the binary. For every wardrobe table
the report lists database columns that no field of the Go model maps to, e.g.

	--- Table: clothing_items ---
	Found 1 columns not accounted for in model:
	  - legacy_category

Set GENERATE_MODELS=true to migrate the schema, print the report and write
typed query helpers to ./generated.
*/

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&ClothingItem{},
		&ClothingTag{},
		&ItemTag{},
		&CalendarOutfit{},
		&UserPreferences{},
	}
}

// Migrate creates or updates the wardrobe tables.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		ClothingItem{},
		ClothingTag{},
		ItemTag{},
		CalendarOutfit{},
		UserPreferences{},
	)

	log.Info().Msg("migrating wardrobe models")
	if err := Migrate(db); err != nil {
		return err
	}

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	log.Info().Msg("model generation complete")
	return nil
}

// GenerateColumnMismatchReport prints, per table, the columns with no matching model field.
// It returns the total number of unmatched columns.
func GenerateColumnMismatchReport(db *gorm.DB) (int, error) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	cache := &sync.Map{}
	total := 0
	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return total, fmt.Errorf("parse schema for %T: %w", model, err)
		}

		fmt.Printf("\n--- Table: %s ---\n", s.Table)
		dbColumns, err := getTableColumns(db, s.Table)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				fmt.Println("Table does not exist yet (will be created during migration)")
				continue
			}
			return total, err
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}
	return columns, nil
}

// findColumnMismatches returns the database columns that are missing from modelColumns.
func findColumnMismatches(dbColumns, modelColumns []string) []string {
	var mismatches []string
	for _, col := range dbColumns {
		if !slices.Contains(modelColumns, col) {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
