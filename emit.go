// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/quicktemplate"
)

// NullLiteral is written for absent values.
const NullLiteral = "null"

const eol = "\r\n"

// WriteScript writes t as a GDScript file. source names the workbook in
// the banner.
//
// The script is rendered into memory first, so nothing is written to w
// when rendering fails.
func WriteScript(w io.Writer, t *Table, source string) error {
	bb := quicktemplate.AcquireByteBuffer()
	defer quicktemplate.ReleaseByteBuffer(bb)
	qw := quicktemplate.AcquireWriter(bb)
	err := streamScript(qw.N(), t, source)
	quicktemplate.ReleaseWriter(qw)
	if err != nil {
		return err
	}
	_, err = w.Write(bb.B)
	return err
}

// ScriptString returns t as GDScript source.
func ScriptString(t *Table, source string) (string, error) {
	var buf strings.Builder
	if err := WriteScript(&buf, t, source); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func streamScript(qw *quicktemplate.QWriter, t *Table, source string) error {
	qw.S("# source file: ")
	qw.S(source)
	qw.S(eol + "# THIS FILE IS GENERATED BY xls2gd." + eol +
		"# DO NOT CHANGE IT MANUALLY." + eol + eol)
	qw.S("var ")
	qw.S(t.Schema.Table)
	qw.S(" = {" + eol)
	var err error
	if t.Schema.KeyValue {
		err = streamKeyValues(qw, t)
	} else {
		err = streamNode(qw, t, t.Root, 1)
	}
	if err != nil {
		return err
	}
	qw.S("}" + eol)
	return nil
}

func streamNode(qw *quicktemplate.QWriter, t *Table, n *Node, depth int) error {
	indent := strings.Repeat("\t", depth)
	keyType := t.Schema.KeyColumn(depth).Type
	for i, c := range n.children {
		qw.S(indent)
		streamKey(qw, c.Key, keyType)
		qw.S(":" + eol)
		qw.S(indent)
		qw.S("{" + eol)
		var err error
		if c.Row != nil {
			err = streamRow(qw, t, c.Row, depth+1)
		} else {
			err = streamNode(qw, t, c, depth+1)
		}
		if err != nil {
			return err
		}
		qw.S(indent)
		if i == len(n.children)-1 {
			qw.S("}" + eol)
		} else {
			qw.S("}," + eol)
		}
	}
	return nil
}

func streamKey(qw *quicktemplate.QWriter, k Key, t TypeTag) {
	switch t {
	case TypeInt:
		qw.DL(k.Int)
	case TypeFloat:
		qw.S(formatFloat(k.Float))
	default:
		qw.S(`"`)
		qw.S(k.Text)
		qw.S(`"`)
	}
}

func streamRow(qw *quicktemplate.QWriter, t *Table, r *Row, depth int) error {
	indent := strings.Repeat("\t", depth)
	for i, f := range r.Fields {
		qw.S(indent)
		qw.S(`"`)
		qw.S(f.Name)
		qw.S(`": `)
		if err := streamLiteral(qw, f.Value); err != nil {
			return &SheetError{Sheet: t.Schema.Table, Column: f.Name, Err: err}
		}
		if i == len(r.Fields)-1 {
			qw.S(eol)
		} else {
			qw.S("," + eol)
		}
	}
	return nil
}

func streamKeyValues(qw *quicktemplate.QWriter, t *Table) error {
	keyCol, _ := t.Schema.Column(t.kv.Key)
	bracket := keyCol.Type.IsNumeric()
	for i, c := range t.Root.children {
		key, _ := c.Row.Get(t.kv.Key)
		value, _ := c.Row.Get(t.kv.Value)
		if key.Null || value.Null {
			return &SheetError{Sheet: t.Schema.Table, Column: t.kv.Key,
				Err: fmt.Errorf("key %q: %w", c.Key.String(), ErrMalformedKeyValueRow)}
		}
		qw.S("\t")
		if bracket {
			qw.S("[")
		}
		if err := streamLiteral(qw, key); err != nil {
			return &SheetError{Sheet: t.Schema.Table, Column: t.kv.Key, Err: err}
		}
		if bracket {
			qw.S("]")
		}
		qw.S(": ")
		if err := streamLiteral(qw, value); err != nil {
			return &SheetError{Sheet: t.Schema.Table, Column: t.kv.Value, Err: err}
		}
		if i == len(t.Root.children)-1 {
			qw.S(eol)
		} else {
			qw.S("," + eol)
		}
	}
	return nil
}

// streamLiteral writes v as a GDScript literal.
func streamLiteral(qw *quicktemplate.QWriter, v Value) error {
	if !v.Type.valueType() {
		return fmt.Errorf("emit %s: %w", v.Type, ErrUnknownType)
	}
	if v.Null {
		qw.S(NullLiteral)
		return nil
	}
	switch v.Type {
	case TypeInt:
		qw.DL(v.Int)
	case TypeFloat:
		qw.S(formatFloat(v.Float))
	case TypeString, TypeTranslate:
		qw.S(`"`)
		qw.S(v.Text)
		qw.S(`"`)
	case TypeBool:
		qw.S(strconv.FormatBool(v.Bool))
	case TypeIntArray, TypeFloatArray, TypeBoolArray:
		qw.S("[")
		qw.S(strings.Join(v.Items, ", "))
		qw.S("]")
	case TypeStringArray:
		qw.S("[")
		for i, s := range v.Items {
			if i != 0 {
				qw.S(", ")
			}
			qw.S(`"`)
			qw.S(s)
			qw.S(`"`)
		}
		qw.S("]")
	case TypeVector2:
		qw.S("Vector2(" + strings.Join(v.Items, ", ") + ")")
	case TypeVector3:
		qw.S("Vector3(" + strings.Join(v.Items, ", ") + ")")
	case TypeColor:
		qw.S("Color(" + strings.Join(v.Items, ", ") + ")")
	case TypeScript:
		qw.S(v.Text)
	default:
		return fmt.Errorf("emit %s: %w", v.Type, ErrUnknownType)
	}
	return nil
}
