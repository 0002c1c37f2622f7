package noaa

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Record is a single upstream table row keyed by column name. Values keep
// their decoded JSON form until a caller projects them.
type Record map[string]gjson.Result

// ExtractRows decodes the ERDDAP tabular envelope: a top-level "table"
// object carrying a "columnNames" list and positional "rows" arrays. Each
// row is zipped with the column names; rows shorter than the header simply
// omit the trailing columns, and row entries that are not arrays are
// skipped. A payload without the expected shape yields no records; only
// malformed JSON is an error.
func ExtractRows(payload []byte) ([]Record, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errors.New("invalid JSON payload")
	}

	table := gjson.GetBytes(payload, "table")
	if !table.IsObject() {
		return nil, nil
	}

	columns := table.Get("columnNames")
	rows := table.Get("rows")
	if !columns.IsArray() || !rows.IsArray() {
		return nil, nil
	}

	names := columns.Array()
	rowList := rows.Array()

	records := make([]Record, 0, len(rowList))
	for _, raw := range rowList {
		if !raw.IsArray() {
			continue
		}
		values := raw.Array()

		record := make(Record, len(names))
		for i, name := range names {
			if i >= len(values) {
				break
			}
			record[name.String()] = values[i]
		}
		records = append(records, record)
	}

	return records, nil
}
