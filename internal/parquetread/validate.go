package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimstats/internal/model"
)

// MissingColumns returns the required claim columns absent from the schema.
func MissingColumns(schema *parquet.Schema) []string {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range model.RequiredColumns() {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// ValidateSchema checks that the Parquet schema contains all required columns.
func ValidateSchema(schema *parquet.Schema) error {
	if missing := MissingColumns(schema); len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
