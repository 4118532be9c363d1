package export

import "fmt"

// Dataset is one titled table of an export.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Document is an ordered set of tables rendered into a single file.
type Document struct {
	Title    string
	Sections []Dataset
}

func (d Document) validate() error {
	if len(d.Sections) == 0 {
		return fmt.Errorf("export requires at least one section")
	}
	for i, section := range d.Sections {
		if len(section.Headers) == 0 {
			return fmt.Errorf("section %d requires at least one header", i)
		}
		for j, row := range section.Rows {
			if len(row) > len(section.Headers) {
				return fmt.Errorf("section %d row %d has %d cells for %d headers", i, j, len(row), len(section.Headers))
			}
		}
	}
	return nil
}

// cell returns the value of column i, padding short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
