// Package report renders a finished analysis into its export forms: a JSON
// snapshot and a markdown deal memo.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"

	"github.com/shopspring/decimal"
)

// nonFiniteCap replaces +/-Inf in exported numbers. NaN exports as zero.
// encoding/json rejects non-finite floats outright; degenerate ratios
// (leverage on negative EBITDA, P/E on losses) are capped instead of failing
// the whole export.
const nonFiniteCap = 1e12

// capNonFinite walks the value and replaces non-finite float64 fields in
// place. The root must be a pointer for the replacements to stick.
func capNonFinite(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			capNonFinite(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			capNonFinite(v.Field(i))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			capNonFinite(v.Index(i))
		}
	case reflect.Map:
		// Map values are not addressable; recurse on a copy and store it back.
		for _, key := range v.MapKeys() {
			cp := reflect.New(v.Type().Elem()).Elem()
			cp.Set(v.MapIndex(key))
			capNonFinite(cp)
			v.SetMapIndex(key, cp)
		}
	case reflect.Float64:
		if v.CanSet() {
			v.SetFloat(capFloat(v.Float()))
		}
	}
}

func capFloat(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case math.IsInf(f, 1):
		return nonFiniteCap
	case math.IsInf(f, -1):
		return -nonFiniteCap
	}
	return f
}

// MarshalJSON serializes any analysis record with indentation, capping
// non-finite numbers first. The record is modified in place; callers that
// need the raw infinities keep their own copy.
func MarshalJSON(record any) ([]byte, error) {
	rv := reflect.ValueOf(record)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return nil, fmt.Errorf("marshal target must be a non-nil pointer, got %T", record)
	}
	capNonFinite(rv)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	return data, nil
}

// ExportJSON writes the record to path as indented JSON.
func ExportJSON(record any, path string) error {
	data, err := MarshalJSON(record)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Currency renders an amount as a fixed two-decimal string. Exact decimal
// arithmetic keeps exported monetary figures free of float formatting noise.
func Currency(amount float64) string {
	return decimal.NewFromFloat(amount).Round(2).StringFixed(2)
}

// Millions renders an amount in millions with one decimal, e.g. "15300.0".
func Millions(amount float64) string {
	return decimal.NewFromFloat(amount / 1e6).Round(1).StringFixed(1)
}

// Percent renders a fraction as a percentage with one decimal.
func Percent(fraction float64) string {
	return decimal.NewFromFloat(fraction * 100).Round(1).StringFixed(1)
}
