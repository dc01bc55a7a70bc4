// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"fmt"
	"strings"
	"unicode"
)

// Field is one column value of a Row.
type Field struct {
	Name  string
	Value Value
}

// Row is a data row without its comment columns, in column order.
type Row struct {
	Fields []Field
}

// Get returns the value of the named column.
func (r *Row) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Node is one level of a Table. Inner nodes have children in insertion
// order, leaves carry a Row.
type Node struct {
	Key      Key
	Row      *Row
	children []*Node
	index    map[Key]int
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node { return n.children }

// Child returns the child with key k.
func (n *Node) Child(k Key) (*Node, bool) {
	i, ok := n.index[k]
	if !ok {
		return nil, false
	}
	return n.children[i], true
}

// child returns the child with key k, creating it if needed.
func (n *Node) child(k Key) *Node {
	if c, ok := n.Child(k); ok {
		return c
	}
	c := &Node{Key: k}
	n.add(c)
	return c
}

// insert adds a leaf, reporting false if k is already taken.
func (n *Node) insert(k Key, r *Row) bool {
	if _, ok := n.index[k]; ok {
		return false
	}
	n.add(&Node{Key: k, Row: r})
	return true
}

func (n *Node) add(c *Node) {
	if n.index == nil {
		n.index = make(map[Key]int)
	}
	n.index[c.Key] = len(n.children)
	n.children = append(n.children, c)
}

// TranslationEntry is a translatable source string and its identifier.
type TranslationEntry struct {
	ID   string
	Text string
}

// Table is a sheet grouped by its key columns.
type Table struct {
	Schema *Schema
	Root   *Node
	// Translations are in first-seen order.
	Translations []TranslationEntry

	translationIndex map[string]int
	kv               keyValueColumns
}

// Depth returns the number of key levels of the table.
func (t *Table) Depth() int {
	if t.Schema.KeyValue {
		return 1
	}
	return t.Schema.KeyLevels
}

// Len returns the number of rows.
func (t *Table) Len() int { return countRows(t.Root) }

func countRows(n *Node) int {
	if n.Row != nil {
		return 1
	}
	var c int
	for _, ch := range n.children {
		c += countRows(ch)
	}
	return c
}

func (t *Table) addTranslation(id, text string) {
	if i, ok := t.translationIndex[id]; ok {
		t.Translations[i].Text = text
		return
	}
	if t.translationIndex == nil {
		t.translationIndex = make(map[string]int)
	}
	t.translationIndex[id] = len(t.Translations)
	t.Translations = append(t.Translations, TranslationEntry{ID: id, Text: text})
}

type keyValueColumns struct {
	Key, Value string
}

// BuildTable groups the data rows of a sheet by its key columns.
func BuildTable(s *Schema, rows [][]Cell) (*Table, error) {
	if s.KeyLevels == 0 {
		return nil, &SheetError{Sheet: s.Table, Err: ErrMissingKeyConfiguration}
	}
	t := &Table{Schema: s, Root: &Node{}}
	if s.KeyValue {
		var err error
		if t.kv, err = checkKeyValueColumns(s); err != nil {
			return nil, err
		}
	}
	depth := t.Depth()
	// Keys of the key column of a key-value sheet keyed by a separate key1.
	var kvKeys map[Key]struct{}
	if s.KeyValue && s.KeyColumn(1).Title != t.kv.Key {
		kvKeys = make(map[Key]struct{})
	}

	for ri := DataRow; ri < len(rows); ri++ {
		if isBlank(rows[ri]) {
			continue
		}
		rowNum := ri + 1
		r := &Row{Fields: make([]Field, 0, len(s.Columns))}
		var keys [MaxKeyLevels]Key
		var present [MaxKeyLevels]bool
		var translated []int
		for i, c := range s.Columns {
			if c.Type == TypeComment {
				continue
			}
			v, err := Coerce(cellAt(rows[ri], c.Index), c.Type)
			if err != nil {
				return nil, &SheetError{Sheet: s.Table, Row: rowNum, Column: c.Title, Err: err}
			}
			r.Fields = append(r.Fields, Field{Name: c.Title, Value: v})
			if c.Type == TypeTranslate && !v.Null {
				translated = append(translated, len(r.Fields)-1)
			}
			for level := range depth {
				if s.Keys[level] == i {
					keys[level], present[level] = keyOf(v)
				}
			}
		}

		for level := range depth {
			if !present[level] {
				return nil, &SheetError{Sheet: s.Table, Row: rowNum, Level: level + 1,
					Column: s.KeyColumn(level + 1).Title, Err: ErrMissingKeyValue}
			}
		}

		for _, fi := range translated {
			f := &r.Fields[fi]
			id := translationID(s.Table, f.Name, keys[:depth])
			t.addTranslation(id, f.Value.Text)
			f.Value.Text = id
		}

		if kvKeys != nil {
			v, _ := r.Get(t.kv.Key)
			if k, ok := keyOf(v); ok {
				if _, dup := kvKeys[k]; dup {
					return nil, &SheetError{Sheet: s.Table, Row: rowNum, Column: t.kv.Key,
						Err: fmt.Errorf("%q: %w", k.String(), ErrDuplicateKeyValue)}
				}
				kvKeys[k] = struct{}{}
			}
		}

		node := t.Root
		for level := range depth - 1 {
			node = node.child(keys[level])
		}
		if !node.insert(keys[depth-1], r) {
			return nil, &SheetError{Sheet: s.Table, Row: rowNum, Level: depth,
				Column: s.KeyColumn(depth).Title,
				Err:    fmt.Errorf("%q: %w", keys[depth-1].String(), ErrDuplicateKeyValue)}
		}
	}
	return t, nil
}

// checkKeyValueColumns returns the key and value columns of a key-value
// sheet. The key1 column counts as one of them only if it is named so.
func checkKeyValueColumns(s *Schema) (keyValueColumns, error) {
	var kv keyValueColumns
	var names []string
	key1 := s.Keys[0]
	for i, c := range s.Columns {
		if c.Type == TypeComment {
			continue
		}
		switch {
		case strings.EqualFold(c.Title, "key"):
			if !c.Type.IsKeyType() {
				return kv, &SheetError{Sheet: s.Table, Column: c.Title,
					Err: fmt.Errorf("key type %s: %w", c.Type, ErrInvalidKeyValueRow)}
			}
			kv.Key = c.Title
		case strings.EqualFold(c.Title, "value"):
			if c.Type != TypeString {
				return kv, &SheetError{Sheet: s.Table, Column: c.Title,
					Err: fmt.Errorf("value type %s: %w", c.Type, ErrInvalidKeyValueRow)}
			}
			kv.Value = c.Title
		case i == key1:
			continue
		}
		names = append(names, c.Title)
	}
	if len(names) != 2 || kv.Key == "" || kv.Value == "" {
		return kv, &SheetError{Sheet: s.Table,
			Err: fmt.Errorf("columns %q: %w", names, ErrInvalidKeyValueRow)}
	}
	return kv, nil
}

func translationID(table, column string, keys []Key) string {
	parts := make([]string, 0, 2+len(keys))
	parts = append(parts, table, column)
	for _, k := range keys {
		parts = append(parts, k.String())
	}
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.Join(parts, "_")))
}

func isBlank(row []Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
