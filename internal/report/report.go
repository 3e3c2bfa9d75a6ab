// Package report renders query results and run summaries for people.
//
// Stored and queried values keep full precision; this package is where
// monetary numbers get rounded to two decimal places.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/xelora/retailstream/internal/query"
)

// Render writes one result set as an aligned text table.
func Render(w io.Writer, rs *query.ResultSet) {
	fmt.Fprintf(w, "== %s ==\n", rs.Name)

	if rs.Len() == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(rs.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	for _, row := range rs.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		tw.Append(cells)
	}

	tw.Render()
}

// RenderAll writes every result set in order.
func RenderAll(w io.Writer, results []*query.ResultSet) {
	for i, rs := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		Render(w, rs)
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', 2, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
