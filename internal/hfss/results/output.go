package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/cavity.report/internal/hfss/variables"
)

// Columns returns the report columns for a result list: variable display
// names first, then result field names, each group sorted.
func Columns(results []SimulationResult) []string {
	varCols := make(map[string]bool)
	fieldCols := make(map[string]bool)
	for _, r := range results {
		for _, v := range r.Snapshot {
			varCols[v.DisplayName()] = true
		}
		for k := range r.Result {
			fieldCols[k] = true
		}
	}
	return append(sortedKeys(varCols), sortedKeys(fieldCols)...)
}

// WriteCSV writes one row per result with columns as returned by Columns.
func WriteCSV(w io.Writer, results []SimulationResult) error {
	cw := csv.NewWriter(w)
	cols := Columns(results)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range results {
		cells := make(map[string]string, len(cols))
		for _, v := range r.Snapshot {
			cells[v.DisplayName()] = variables.FormatValue(v.Value)
		}
		for k, v := range r.Result {
			cells[k] = formatCell(v)
		}
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = cells[c]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to path and the factored-out constants to a
// companion "<stem>_constants.json" next to it.
func (j JointResults) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, j.Results); err != nil {
		return err
	}

	constants := j.ConstantVariables.DisplayMap()
	data, err := json.MarshalIndent(constants, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding constants: %w", err)
	}

	constantsPath := constantsPathFor(path)
	if err := os.WriteFile(constantsPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", constantsPath, err)
	}
	return nil
}

// constantsPathFor derives the companion constants filename, keeping the
// report's directory.
func constantsPathFor(path string) string {
	dir := filepath.Dir(path)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, stem+"_constants.json")
}

func formatCell(v any) string {
	switch val := v.(type) {
	case float64:
		return variables.FormatValue(val)
	case float32:
		return variables.FormatValue(float64(val))
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
