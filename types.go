// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import "strings"

// TypeTag is the declared type of a column.
type TypeTag uint8

const (
	TypeUnknown TypeTag = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeIntArray
	TypeFloatArray
	TypeStringArray
	TypeBoolArray
	TypeVector2
	TypeVector3
	TypeColor
	TypeComment
	TypeScript
	TypeTranslate
)

var typeNames = [...]string{
	TypeUnknown:     "unknown",
	TypeInt:         "int",
	TypeFloat:       "float",
	TypeString:      "string",
	TypeBool:        "bool",
	TypeIntArray:    "int[]",
	TypeFloatArray:  "float[]",
	TypeStringArray: "string[]",
	TypeBoolArray:   "bool[]",
	TypeVector2:     "vector2",
	TypeVector3:     "vector3",
	TypeColor:       "color",
	TypeComment:     "comment",
	TypeScript:      "gdscript",
	TypeTranslate:   "translate",
}

// ParseTypeTag returns the TypeTag named by s, case-insensitively.
func ParseTypeTag(s string) (TypeTag, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if t != int(TypeUnknown) && name == s {
			return TypeTag(t), true
		}
	}
	return TypeUnknown, false
}

func (t TypeTag) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeUnknown]
}

// IsNumeric reports whether keys of this type render unquoted.
func (t TypeTag) IsNumeric() bool { return t == TypeInt || t == TypeFloat }

// IsKeyType reports whether a column of this type may be a key column.
func (t TypeTag) IsKeyType() bool { return t == TypeInt || t == TypeFloat || t == TypeString }

// valueType reports whether cells of this type carry a value.
func (t TypeTag) valueType() bool {
	return t != TypeUnknown && t != TypeComment && int(t) < len(typeNames)
}

// componentCount returns the number of components of geometry and color types.
func (t TypeTag) componentCount() int {
	switch t {
	case TypeVector2:
		return 2
	case TypeVector3:
		return 3
	case TypeColor:
		return 4
	}
	return 0
}
