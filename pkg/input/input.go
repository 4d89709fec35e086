package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/types"
)

// Probability converts v from unit to a decimal in [0, 1].
// An empty unit is treated as decimal.
func Probability(v float64, unit types.Unit) (float64, error) {
	switch unit {
	case types.UnitDecimal, "":
		if math.IsNaN(v) || v < 0 || v > 1 {
			return 0, &compute.ValidationError{Field: "reliability", Value: v, Reason: fmt.Sprintf("%g is outside [0, 1]", v)}
		}
		return v, nil
	case types.UnitPercent:
		if math.IsNaN(v) || v < 0 || v > 100 {
			return 0, &compute.ValidationError{Field: "reliability", Value: v, Reason: fmt.Sprintf("%g%% is outside [0, 100]", v)}
		}
		return v / 100, nil
	default:
		return 0, &compute.ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q: want decimal|percent", unit)}
	}
}

// Components converts every reliability in cs from unit to decimal.
// The returned slice is a copy; cs is not modified.
func Components(cs []types.Component, unit types.Unit) ([]types.Component, error) {
	out := make([]types.Component, len(cs))
	for i, c := range cs {
		r, err := Probability(c.Reliability, unit)
		if err != nil {
			var ve *compute.ValidationError
			if errors.As(err, &ve) && ve.Field == "reliability" {
				ve.Field = fmt.Sprintf("components[%d] %q", i, c.Name)
			}
			return nil, err
		}
		out[i] = types.Component{Name: strings.TrimSpace(c.Name), Reliability: r}
	}
	return out, nil
}

// ParseList parses a comma-separated list of numbers. Whitespace around
// tokens is ignored; an empty token (",,") is a ParseError.
func ParseList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &compute.ValidationError{Field: "data", Reason: "no values entered"}
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := parseToken(p, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadColumn reads a CSV document whose first row is a header and returns the
// values of the named column. With column == "" it returns the first column
// in which every cell is numeric.
func ReadColumn(r io.Reader, column string) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Short rows are fine as long as they carry the column being read.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &compute.ValidationError{Field: "file", Reason: "file is empty"}
	}
	if err != nil {
		return nil, csvError(err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, csvError(err)
	}
	if len(rows) == 0 {
		return nil, &compute.ValidationError{Field: "file", Reason: "file has a header but no data rows"}
	}

	if column != "" {
		idx := -1
		for i, h := range header {
			if strings.TrimSpace(h) == column {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &compute.ValidationError{Field: "column", Reason: fmt.Sprintf("column %q not found in header %v", column, header)}
		}
		return columnValues(rows, idx, column)
	}

	for idx := range header {
		if vs, err := columnValues(rows, idx, strings.TrimSpace(header[idx])); err == nil {
			return vs, nil
		}
	}
	return nil, &compute.ParseError{Token: strings.Join(header, ","), Reason: "no column contains only numeric values"}
}

// columnValues parses column idx, headed name, of every row. Data rows are
// numbered from 2 in errors because row 1 is the header.
func columnValues(rows [][]string, idx int, name string) ([]float64, error) {
	out := make([]float64, 0, len(rows))
	for i, row := range rows {
		if idx >= len(row) {
			return nil, &compute.ParseError{Token: name, Position: i + 2,
				Reason: fmt.Sprintf("row has %d fields, column %d missing", len(row), idx+1)}
		}
		v, err := parseToken(row[idx], i+2)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseToken parses one trimmed numeric token. pos is reported in errors.
func parseToken(tok string, pos int) (float64, error) {
	t := strings.TrimSpace(tok)
	if t == "" {
		return 0, &compute.ParseError{Token: tok, Position: pos, Reason: "empty value"}
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &compute.ParseError{Token: t, Position: pos, Reason: "not a finite number"}
	}
	return v, nil
}

// csvError wraps an encoding/csv failure as a ParseError.
func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &compute.ParseError{Position: pe.Line, Reason: fmt.Sprintf("malformed csv: %v", pe.Err)}
	}
	return &compute.ParseError{Reason: fmt.Sprintf("malformed csv: %v", err)}
}
