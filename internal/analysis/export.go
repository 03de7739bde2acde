package analysis

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
)

// ToCSV serializes t as comma-separated values with a header row.
func ToCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV streams t to w as CSV.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := writeRecord(cw, w, t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.Rows {
		if err := writeRecord(cw, w, r); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// writeRecord writes rec through cw. encoding/csv emits a lone empty field as
// a blank line, which readers skip, so that record is written quoted.
func writeRecord(cw *csv.Writer, w io.Writer, rec []string) error {
	if len(rec) != 1 || rec[0] != "" {
		return cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\"\"\n")
	return err
}

// ReadCSV parses CSV produced by ToCSV back into a Table.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Column: "", Reason: "csv has no header row"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, append([]string(nil), rec...))
	}
	return NewTable(header, rows), nil
}

// DataURI encodes a CSV payload as a base64 data URI.
func DataURI(csvData []byte) string {
	return "data:file/csv;base64," + base64.StdEncoding.EncodeToString(csvData)
}

// DownloadLink renders an HTML anchor that downloads csvData as filename.
func DownloadLink(csvData []byte, filename string) string {
	if filename == "" {
		filename = "playerstats.csv"
	}
	return fmt.Sprintf(`<a href="%s" download="%s">Download CSV File</a>`, DataURI(csvData), html.EscapeString(filename))
}
