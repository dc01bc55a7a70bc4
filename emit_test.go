package xls2gd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crlf(lines ...string) string {
	return strings.Join(lines, "\r\n") + "\r\n"
}

const banner = "# THIS FILE IS GENERATED BY xls2gd.\r\n# DO NOT CHANGE IT MANUALLY.\r\n\r\n"

func TestWriteScriptSingleKey(t *testing.T) {
	tbl := mustTable(t, "o-items", sheetRows(
		header([]string{"id", "name", "price", "note", "tags"},
			[]string{"int", "string", "float", "comment", "string[]"},
			[]string{"key1", "", "", "", ""}),
		[]Cell{Number(1), Text("Sword"), Number(2.5), Text("x"), Text("a,b")},
		[]Cell{Number(2), Text(`Big "Axe"`), Number(3)},
	))
	got, err := ScriptString(tbl, "items.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "# source file: items.xlsx\r\n"+banner+crlf(
		"var items = {",
		"\t1:",
		"\t{",
		"\t\t\"id\": 1,",
		"\t\t\"name\": \"Sword\",",
		"\t\t\"price\": 2.5,",
		"\t\t\"tags\": [\"a\", \"b\"]",
		"\t},",
		"\t2:",
		"\t{",
		"\t\t\"id\": 2,",
		"\t\t\"name\": \"Big 'Axe'\",",
		"\t\t\"price\": 3.0,",
		"\t\t\"tags\": null",
		"\t}",
		"}",
	), got)
}

func TestWriteScriptNested(t *testing.T) {
	tbl := mustTable(t, "o-drops", sheetRows(
		header([]string{"zone", "rate", "item"}, []string{"string", "float", "string"}, []string{"key1", "key2", ""}),
		[]Cell{Text("cave"), Number(0.5), Text("gem")},
		[]Cell{Text("cave"), Number(1), Text("rock")},
	))
	got, err := ScriptString(tbl, "drops.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "# source file: drops.xlsx\r\n"+banner+crlf(
		"var drops = {",
		"\t\"cave\":",
		"\t{",
		"\t\t0.5:",
		"\t\t{",
		"\t\t\t\"zone\": \"cave\",",
		"\t\t\t\"rate\": 0.5,",
		"\t\t\t\"item\": \"gem\"",
		"\t\t},",
		"\t\t1.0:",
		"\t\t{",
		"\t\t\t\"zone\": \"cave\",",
		"\t\t\t\"rate\": 1.0,",
		"\t\t\t\"item\": \"rock\"",
		"\t\t}",
		"\t}",
		"}",
	), got)
}

func TestWriteScriptKeyValue(t *testing.T) {
	tbl := mustTable(t, "o-kv-consts", sheetRows(
		header([]string{"key", "value"}, []string{"string", "string"}, []string{"key1", ""}),
		texts("hp", "100"),
		texts("name", "hero"),
	))
	got, err := ScriptString(tbl, "consts.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "# source file: consts.xlsx\r\n"+banner+crlf(
		"var consts = {",
		"\t\"hp\": \"100\",",
		"\t\"name\": \"hero\"",
		"}",
	), got)

	tbl = mustTable(t, "o-kv-levels", sheetRows(
		header([]string{"key", "value"}, []string{"int", "string"}, []string{"key1", ""}),
		[]Cell{Number(1), Text("novice")},
		[]Cell{Number(10), Text("master")},
	))
	got, err = ScriptString(tbl, "levels.xls")
	require.NoError(t, err)
	assert.Equal(t, "# source file: levels.xls\r\n"+banner+crlf(
		"var levels = {",
		"\t[1]: \"novice\",",
		"\t[10]: \"master\"",
		"}",
	), got)
}

func TestWriteScriptKeyValueSeparateKey1(t *testing.T) {
	// Brackets follow the type of the key column, not of key1.
	tbl := mustTable(t, "o-kv-consts", sheetRows(
		header([]string{"id", "key", "value"}, []string{"int", "string", "string"}, []string{"key1", "", ""}),
		[]Cell{Number(1), Text("hp"), Text("100")},
		[]Cell{Number(2), Text("mp"), Text("50")},
	))
	got, err := ScriptString(tbl, "consts.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "# source file: consts.xlsx\r\n"+banner+crlf(
		"var consts = {",
		"\t\"hp\": \"100\",",
		"\t\"mp\": \"50\"",
		"}",
	), got)

	tbl = mustTable(t, "o-kv-levels", sheetRows(
		header([]string{"name", "key", "value"}, []string{"string", "int", "string"}, []string{"key1", "", ""}),
		[]Cell{Text("novice"), Number(1), Text("a")},
		[]Cell{Text("master"), Number(10), Text("b")},
	))
	got, err = ScriptString(tbl, "levels.xls")
	require.NoError(t, err)
	assert.Contains(t, got, "\t[1]: \"a\",\r\n\t[10]: \"b\"\r\n")
}

func TestWriteScriptMalformedKeyValue(t *testing.T) {
	rows := sheetRows(
		header([]string{"id", "key", "value"}, []string{"int", "string", "string"}, []string{"key1", "", ""}),
		[]Cell{Number(1), Text("hp"), Text("100")},
		[]Cell{Number(2), Text("mp"), {}},
	)
	tbl := mustTable(t, "o-kv-consts", rows)
	var buf bytes.Buffer
	err := WriteScript(&buf, tbl, "consts.xlsx")
	assert.ErrorIs(t, err, ErrMalformedKeyValueRow)
	assert.Zero(t, buf.Len())
}

func TestWriteScriptTranslate(t *testing.T) {
	tbl := mustTable(t, "o-texts", sheetRows(
		header([]string{"id", "text"}, []string{"string", "translate"}, []string{"key1", ""}),
		texts("intro", "Welcome"),
	))
	got, err := ScriptString(tbl, "texts.xlsx")
	require.NoError(t, err)
	assert.Contains(t, got, "\t\t\"text\": \"TEXTS_TEXT_INTRO\"\r\n")
}

func TestWriteScriptEmpty(t *testing.T) {
	tbl := mustTable(t, "o-none", header([]string{"id"}, []string{"int"}, []string{"key1"}))
	got, err := ScriptString(tbl, "none.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "# source file: none.xlsx\r\n"+banner+"var none = {\r\n}\r\n", got)
}
