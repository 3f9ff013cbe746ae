package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	ColumnCode    = "Code"
	ColumnName    = "Name"
	ColumnCompany = "Company"
)

// LoadCSV reads a comma separated file with a header row containing Code, Name and Company.
func LoadCSV(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Warn("failed to close data file", "path", path, "error", cerr)
		}
	}()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	slog.Info("records loaded", "path", path, "count", len(rows))
	return NewStore(rows), nil
}

// ReadCSV parses records from r. Extra columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Record{
			Code:    fields[columns[ColumnCode]],
			Name:    fields[columns[ColumnName]],
			Company: fields[columns[ColumnCompany]],
		})
	}
	return rows, nil
}

// resolveColumns maps the required column names to their index in the header
func resolveColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, 3)
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	for _, required := range []string{ColumnCode, ColumnName, ColumnCompany} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}
	return columns, nil
}
