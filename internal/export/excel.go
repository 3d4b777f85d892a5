// Package export produces downloadable XLSX snapshots of a user's inventory.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/freshtrack/backend/internal/domain"
)

const sheetName = "Inventory"

// inventoryHeaders are the export columns, in order
var inventoryHeaders = []string{
	"Name",
	"Barcode",
	"Category",
	"Quantity",
	"Expiry Date",
	"Days Left",
	"Status",
	"Destination",
	"Added On",
}

// BuildInventoryWorkbook renders the items into an XLSX workbook and returns
// its bytes. Status and days-left columns use the shared classification rule,
// evaluated against today.
func BuildInventoryWorkbook(items []domain.FoodItem, today time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range inventoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, item := range items {
		values := []any{
			item.Name,
			item.Barcode,
			item.Category,
			item.Quantity,
			item.ExpiryDate.Format("2006-01-02"),
			domain.DaysUntil(item.ExpiryDate, today),
			string(domain.StatusFor(item.ExpiryDate, today)),
			string(item.Destination),
			item.CreatedAt.Format("2006-01-02"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
