// Package arith provides lossless compression of character streams using
// static order-0 arithmetic coding.
// The whole input is scanned once to build a frequency model, and the message
// is then represented as a single arbitrary-precision fraction lying inside
// the cumulative-probability interval unique to that exact symbol sequence.
//
// Below is an example of compressing and restoring a text file:
//
//	go run cmd/arith/main.go compress gettysburg.txt gettys.ac
//	go run cmd/arith/main.go decompress gettys.ac gettys.txt
//	diff gettysburg.txt gettys.txt
//
// The model is static: it is computed from the complete input before any
// coding begins, and a copy of it is persisted alongside the encoded value so
// that decompression can replay the identical interval narrowing.
package arith

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPrecision is the number of decimal digits carried through the
// interval arithmetic when no precision is configured.
// Longer inputs need more digits to keep adjacent sub-intervals distinguishable.
const DefaultPrecision = 1000

// Compress encodes the contents of the file name and writes the persisted
// record to w: the encoded value on the first line, the frequency table on the
// second. precision is the number of decimal digits carried through the
// interval arithmetic.
// ErrEmptyInput is returned for an empty file, and nothing is written to w.
func Compress(w io.Writer, name string, precision int) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	ft, err := ScanFreqTable(bytes.NewReader(data))
	if err != nil {
		return err
	}
	pt := Probabilities(ft, precision)
	value, err := Encode([]rune(string(data)), pt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n%s\n", formatValue(value, precision), ft.Serialize()); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Decompress reads a persisted record from r and writes the reconstructed
// symbol stream to w. The number of symbols to reconstruct is the sum of the
// table's counts.
// Everything after the first line is table text, so a newline symbol embedded
// in the table still parses.
func Decompress(w io.Writer, r io.Reader, precision int) error {
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "")
	}
	line = strings.TrimSuffix(line, "\n")
	value, _, err := big.ParseFloat(line, 10, mantissaBits(precision), big.ToNearestEven)
	if err != nil {
		return errors.Wrapf(err, "parse encoded value %q", line)
	}
	tableText, err := io.ReadAll(br)
	if err != nil {
		return errors.Wrap(err, "")
	}
	ft, err := ParseFreqTable(strings.TrimSuffix(string(tableText), "\n"))
	if err != nil {
		return err
	}
	pt := Probabilities(ft, precision)
	return Decode(w, value, pt, ft.Total())
}

// formatValue renders value with at most digits decimal places, trimming
// trailing zeros so that short values persist compactly.
func formatValue(value *big.Float, digits int) string {
	s := value.Text('f', digits)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
