package steps

import (
	"fmt"
	"strconv"

	"github.com/andrescamacho/cargoplanner-go/internal/domain/shared"
	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// getCellValue returns the cell of row under the named header column
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}

	return ""
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseCoord(s string) (shared.Coordinate, error) {
	c, err := shared.ParseCoordinate(s)
	if err != nil {
		return shared.Coordinate{}, fmt.Errorf("bad coordinate %q in step: %w", s, err)
	}
	return c, nil
}
