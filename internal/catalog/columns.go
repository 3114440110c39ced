package catalog

import (
	"strings"

	"showfinder/internal/domain"
)

// FromColumns builds a row from named column values. Column names are matched
// case-insensitively; unknown columns with a value are kept as extra fields.
func FromColumns(names []string, vals []*string) domain.Row {
	var row domain.Row
	for i, name := range names {
		var val *string
		if i < len(vals) {
			val = vals[i]
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			row.Title = val
		case "type":
			row.Type = val
		case "director":
			row.Director = val
		case "cast":
			row.Cast = val
		case "description":
			row.Description = val
		default:
			if val != nil {
				row.Extra = append(row.Extra, domain.Field{Name: name, Value: *val})
			}
		}
	}
	return row
}
