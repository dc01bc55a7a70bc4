package xls2gd

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// CharsetAuto makes OpenCsv guess the charset of the file.
const CharsetAuto = "auto"

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// GetEncoding returns the named encoding, nil for UTF-8.
func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

// DetectEncoding guesses the encoding of b, nil for UTF-8.
func DetectEncoding(b []byte) (encoding.Encoding, error) {
	// A read buffer may end inside a multi-byte rune.
	valid := b
	for j := len(valid) - 1; j >= max(0, len(valid)-utf8.UTFMax); j-- {
		if utf8.RuneStart(valid[j]) {
			if !utf8.FullRune(valid[j:]) {
				valid = valid[:j]
			}
			break
		}
	}
	if utf8.Valid(valid) {
		return nil, nil
	}
	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil {
		return nil, err
	}
	enc, err := GetEncoding(res.Charset)
	if err != nil {
		var err2 error
		if enc, err2 = GetEncoding(strings.ReplaceAll(res.Charset, "-", "")); err2 == nil {
			err = nil
		}
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens a comma separated file, decoding it from encName
// (or the detected charset for CharsetAuto). A UTF-8 BOM is skipped.
func OpenCsv(fn, encName string) (csvReadCloser, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return csvReadCloser{}, err
	}
	br := bufio.NewReaderSize(fh, 1<<16)
	var enc encoding.Encoding
	if strings.EqualFold(encName, CharsetAuto) {
		b, _ := br.Peek(4096)
		enc, err = DetectEncoding(b)
	} else {
		enc, err = GetEncoding(encName)
	}
	if err != nil {
		fh.Close()
		return csvReadCloser{}, fmt.Errorf("%s: %w", fn, err)
	}
	rb := br
	if enc != nil {
		rb = bufio.NewReader(enc.NewDecoder().Reader(br))
	}
	if b, _ := rb.Peek(len(utf8BOM)); bytes.Equal(b, utf8BOM) {
		_, _ = rb.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(rb)
	cr.FieldsPerRecord = -1
	return csvReadCloser{cr, fh}, nil
}
