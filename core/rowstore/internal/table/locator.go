package table

import (
	"fmt"

	"github.com/FocuswithJustin/rowstore/core/rowstore/internal/layout"
)

// Position is the physical location of a row.
type Position struct {
	Page   int // page index
	Offset int // byte offset of the row within the page
}

// Locate maps a row index to its page and byte offset. Callers bound row.
func Locate(row int) Position {
	return Position{
		Page:   row / layout.RowsPerPage,
		Offset: (row % layout.RowsPerPage) * layout.RecordSize,
	}
}

// FileOffset returns the absolute byte offset of the position in the file.
func (p Position) FileOffset() int64 {
	return int64(p.Page)*layout.PageSize + int64(p.Offset)
}

func (p Position) String() string {
	return fmt.Sprintf("page %d offset %d", p.Page, p.Offset)
}
