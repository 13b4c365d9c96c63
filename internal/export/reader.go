package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
)

// snapshotColumns maps accepted CSV headers to document keys. Both the export headers and
// the camelCase document keys are accepted.
var snapshotColumns = map[string]string{
	"sku id":         "id",
	"id":             "id",
	"product name":   "name",
	"name":           "name",
	"category":       "category",
	"brand":          "brand",
	"ad spend":       "adSpend",
	"adspend":        "adSpend",
	"revenue":        "revenue",
	"clicks":         "clicks",
	"impressions":    "impressions",
	"conversions":    "conversions",
	"inventory":      "inventory",
	"cost of goods":  "costOfGoods",
	"costofgoods":    "costOfGoods",
	"selling price":  "sellingPrice",
	"sellingprice":   "sellingPrice",
	"gross margin":   "grossMargin",
	"grossmargin":    "grossMargin",
	"margin percent": "marginPercent",
	"marginpercent":  "marginPercent",
	"last updated":   "lastUpdated",
	"lastupdated":    "lastUpdated",
}

// ReadSKUs parses a SKU snapshot. Unknown columns are ignored, empty cells count as missing,
// and derived columns (ROAS, stock status) are recomputed rather than read.
func ReadSKUs(r io.Reader) ([]domain.SKU, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Create a map of column indices
	colMap := make(map[int]string)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if field, ok := snapshotColumns[key]; ok {
			colMap[i] = field
		}
	}
	if _, ok := findColumn(colMap, "id"); !ok {
		return nil, errors.New("snapshot has no SKU id column")
	}

	var skus []domain.SKU
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record on line %d: %w", line, err)
		}

		doc := make(map[string]any, len(colMap))
		for i, field := range colMap {
			if i >= len(record) {
				continue
			}
			if v := strings.TrimSpace(record[i]); v != "" {
				doc[field] = v
			}
		}
		if doc["id"] == nil {
			continue
		}
		skus = append(skus, repository.SKUFromDocument("", doc))
	}

	return skus, nil
}

func findColumn(colMap map[int]string, field string) (int, bool) {
	for i, f := range colMap {
		if f == field {
			return i, true
		}
	}
	return 0, false
}
