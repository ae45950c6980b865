package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes a header line and one line per row, separated by "\n".
// Quoted cells are always wrapped in double quotes with embedded quotes doubled.
func WriteCSV(w io.Writer, table Table) error {
	bw := bufio.NewWriter(w)

	headers := make([]Cell, 0, len(layouts[table.Kind].csvHeaders))
	for _, h := range layouts[table.Kind].csvHeaders {
		headers = append(headers, text(h))
	}
	writeRecord(bw, headers)

	for _, row := range table.Rows {
		bw.WriteByte('\n')
		writeRecord(bw, row.CSV())
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, cells []Cell) {
	for i, c := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		if c.Quoted {
			w.WriteByte('"')
			w.WriteString(strings.ReplaceAll(c.Text, `"`, `""`))
			w.WriteByte('"')
			continue
		}
		w.WriteString(c.Text)
	}
}
