package export

import "fmt"

// Table is a captioned block of rows sharing the document headers.
type Table struct {
	Caption string
	Rows    [][]string
}

// Document defines tabular export content grouped into tables.
type Document struct {
	Title   string
	Headers []string
	Tables  []Table
}

func (d Document) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("document requires at least one header")
	}
	for ti, table := range d.Tables {
		for ri, row := range table.Rows {
			if len(row) != len(d.Headers) {
				return fmt.Errorf("table %d row %d has %d cells, want %d", ti, ri, len(row), len(d.Headers))
			}
		}
	}
	return nil
}
