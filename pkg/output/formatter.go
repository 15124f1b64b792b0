package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Formatter renders command results
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// Formats lists the accepted --output values
var Formats = []string{"table", "json", "yaml", "csv"}

var headerCaser = cases.Title(language.English)

// NewFormatter returns the formatter for name. precision limits float digits
// in table and csv output; negative means shortest representation.
func NewFormatter(name string, precision int) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return &JSONFormatter{}, nil
	case "yaml", "yml":
		return &YAMLFormatter{}, nil
	case "csv":
		return &CSVFormatter{Precision: precision}, nil
	case "table", "":
		return &TableFormatter{Precision: precision}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}

// JSONFormatter emits JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(sanitize(data)); err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// YAMLFormatter emits YAML using the json field names
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, pretty bool) ([]byte, error) {
	generic, err := normalize(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFormatter emits one row per record. A single object becomes key,value rows.
type CSVFormatter struct {
	Precision int
}

func (f *CSVFormatter) Format(data any, pretty bool) ([]byte, error) {
	header, rows, err := tabulate(data, f.Precision)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// TableFormatter emits aligned columns with title-cased headers
type TableFormatter struct {
	Precision int
}

func (f *TableFormatter) Format(data any, pretty bool) ([]byte, error) {
	header, rows, err := tabulate(data, f.Precision)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	titles := make([]string, len(header))
	rules := make([]string, len(header))
	for i, h := range header {
		titles[i] = headerCaser.String(strings.ReplaceAll(h, "_", " "))
		rules[i] = strings.Repeat("-", len(titles[i]))
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	if pretty {
		fmt.Fprintln(tw, strings.Join(rules, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize converts data into maps, slices and scalars keyed by json names
func normalize(data any) (any, error) {
	raw, err := json.Marshal(sanitize(data))
	if err != nil {
		return nil, fmt.Errorf("failed to normalize output: %w", err)
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to normalize output: %w", err)
	}
	return numbersToNative(generic), nil
}

func numbersToNative(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, val := range t {
			t[k] = numbersToNative(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = numbersToNative(val)
		}
		return t
	default:
		return v
	}
}

// tabulate flattens data into a header and string rows. A list of objects
// yields one row each with the union of keys as columns; any other object
// yields key,value rows.
func tabulate(data any, precision int) ([]string, [][]string, error) {
	generic, err := normalize(data)
	if err != nil {
		return nil, nil, err
	}

	switch v := generic.(type) {
	case []any:
		if records, ok := asRecords(v); ok {
			header := unionKeys(records)
			rows := make([][]string, len(records))
			for i, rec := range records {
				rows[i] = make([]string, len(header))
				for j, k := range header {
					rows[i][j] = cell(rec[k], precision)
				}
			}
			return header, rows, nil
		}
		rows := make([][]string, len(v))
		for i, val := range v {
			rows[i] = []string{cell(val, precision)}
		}
		return []string{"value"}, rows, nil

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([][]string, len(keys))
		for i, k := range keys {
			rows[i] = []string{k, cell(v[k], precision)}
		}
		return []string{"key", "value"}, rows, nil

	default:
		return []string{"value"}, [][]string{{cell(v, precision)}}, nil
	}
}

func asRecords(list []any) ([]map[string]any, bool) {
	if len(list) == 0 {
		return nil, false
	}
	records := make([]map[string]any, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		records[i] = m
	}
	return records, true
}

// unionKeys returns the first record's keys sorted, then keys only later records have
func unionKeys(records []map[string]any) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rec := range records {
		var extra []string
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		keys = append(keys, extra...)
	}
	return keys
}

func cell(v any, precision int) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', precision, 64)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = cell(item, precision)
		}
		return strings.Join(parts, " ")
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}

// sanitize replaces NaN and infinities, which encoding/json rejects, with zero
func sanitize(data any) any {
	switch v := data.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0.0
		}
		return v
	case []float64:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = sanitize(f).(float64)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = sanitize(val)
		}
		return out
	default:
		return data
	}
}
