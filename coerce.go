// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a coerced cell.
//
// Null values render as the null sentinel. Text holds string, gdscript and
// translate payloads; Items holds array elements and vector/color components.
type Value struct {
	Type  TypeTag
	Null  bool
	Int   int64
	Float float64
	Bool  bool
	Text  string
	Items []string
}

// Coerce converts a raw cell into a Value of type t.
//
// Empty cells coerce to null for every type. A non-empty cell whose kind
// cannot hold t is ErrTypeMismatch; vector and color cells with the wrong
// number of components degrade to null.
func Coerce(c Cell, t TypeTag) (Value, error) {
	v := Value{Type: t}
	if !t.valueType() {
		return v, fmt.Errorf("coerce %s: %w", t, ErrUnknownType)
	}
	if c.IsEmpty() {
		v.Null = true
		return v, nil
	}

	var err error
	switch t {
	case TypeInt:
		var f float64
		if f, err = numberOf(c, t); err == nil {
			v.Int = int64(f)
		}
	case TypeFloat:
		v.Float, err = numberOf(c, t)
	case TypeString:
		v.Text = formatStr(stringOf(c))
	case TypeBool:
		if c.Kind != CellBool {
			return v, mismatch(c, t)
		}
		v.Bool = isTrue(c.Value)
	case TypeIntArray, TypeFloatArray, TypeBoolArray:
		if !c.holdsText() {
			return v, mismatch(c, t)
		}
		v.Items, err = scalarList(c.Value, t)
	case TypeStringArray:
		for _, s := range strings.Split(formatStr(stringOf(c)), ",") {
			if s != "" {
				v.Items = append(v.Items, s)
			}
		}
	case TypeVector2, TypeVector3, TypeColor:
		if !c.holdsText() {
			return v, mismatch(c, t)
		}
		if v.Items = components(c.Value, t.componentCount()); v.Items == nil {
			v.Null = true
		}
	case TypeScript:
		v.Text = stringOf(c)
	case TypeTranslate:
		if !c.holdsText() {
			return v, mismatch(c, t)
		}
		v.Text = c.Value
	default:
		return v, fmt.Errorf("coerce %s: %w", t, ErrUnknownType)
	}
	return v, err
}

func mismatch(c Cell, t TypeTag) error {
	return fmt.Errorf("%s cell %q in %s column: %w", c.Kind, c.Value, t, ErrTypeMismatch)
}

func numberOf(c Cell, t TypeTag) (float64, error) {
	if c.Kind != CellNumber {
		return 0, mismatch(c, t)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, mismatch(c, t)
	}
	return f, nil
}

func stringOf(c Cell) string {
	if c.Kind == CellBool && !c.Inferred {
		if isTrue(c.Value) {
			return "true"
		}
		return "false"
	}
	return c.Value
}

func isTrue(s string) bool { return s == "1" || strings.EqualFold(s, "true") }

// formatStr keeps s valid inside a double-quoted GDScript literal.
func formatStr(s string) string { return strings.ReplaceAll(s, `"`, `'`) }

// scalarList splits a comma separated list of numbers or booleans,
// skipping empty elements.
func scalarList(s string, t TypeTag) ([]string, error) {
	var items []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e == "" {
			continue
		}
		switch t {
		case TypeIntArray:
			if _, err := strconv.ParseInt(e, 10, 64); err != nil {
				return nil, fmt.Errorf("element %q: %w", e, mismatch(Text(s), t))
			}
		case TypeFloatArray:
			if _, err := strconv.ParseFloat(e, 64); err != nil {
				return nil, fmt.Errorf("element %q: %w", e, mismatch(Text(s), t))
			}
		case TypeBoolArray:
			if e = strings.ToLower(e); e != "true" && e != "false" {
				return nil, fmt.Errorf("element %q: %w", e, mismatch(Text(s), t))
			}
		}
		items = append(items, e)
	}
	return items, nil
}

// components returns exactly n numeric components of s, or nil.
func components(s string, n int) []string {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil
	}
	for i, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			return nil
		}
		parts[i] = p
	}
	return parts
}

// Key is the comparable form of a key column value.
type Key struct {
	Type  TypeTag
	Int   int64
	Float float64
	Text  string
}

func keyOf(v Value) (Key, bool) {
	if v.Null {
		return Key{}, false
	}
	switch v.Type {
	case TypeInt:
		return Key{Type: v.Type, Int: v.Int}, true
	case TypeFloat:
		return Key{Type: v.Type, Float: v.Float}, true
	case TypeString:
		return Key{Type: v.Type, Text: v.Text}, true
	}
	return Key{}, false
}

// String returns the key as used inside translation identifiers.
func (k Key) String() string {
	switch k.Type {
	case TypeInt:
		return strconv.FormatInt(k.Int, 10)
	case TypeFloat:
		return formatFloat(k.Float)
	default:
		return k.Text
	}
}

// formatFloat always keeps a decimal point, so GDScript reads a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
