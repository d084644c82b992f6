package arith

import (
	"bufio"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned when the input contains no symbols.
// A probability table cannot be derived from an empty input.
var ErrEmptyInput = errors.New("input contains no symbols")

// ErrMalformedTable is returned when a persisted frequency table cannot be parsed.
var ErrMalformedTable = errors.New("malformed frequency table")

// A FreqTable maps symbols to their occurrence counts.
// Its iteration order is the order in which symbols were first added.
// This order determines how the coder lays out sub-intervals,
// so encoding and decoding must work from tables with the identical order.
type FreqTable struct {
	counts  map[rune]int64
	symbols []rune
	total   int64
}

// NewFreqTable returns an empty frequency table.
func NewFreqTable() *FreqTable {
	return &FreqTable{counts: make(map[rune]int64)}
}

// Add records one occurrence of sym.
func (ft *FreqTable) Add(sym rune) {
	ft.addN(sym, 1)
}

func (ft *FreqTable) addN(sym rune, n int64) {
	if _, ok := ft.counts[sym]; !ok {
		ft.symbols = append(ft.symbols, sym)
	}
	ft.counts[sym] += n
	ft.total += n
}

// Symbols returns the symbols in table order.
func (ft *FreqTable) Symbols() []rune {
	return ft.symbols
}

// Count returns the occurrence count of sym, or zero if sym is absent.
func (ft *FreqTable) Count(sym rune) int64 {
	return ft.counts[sym]
}

// Total returns the number of symbols added, counting repeats.
func (ft *FreqTable) Total() int64 {
	return ft.total
}

// Len returns the number of distinct symbols.
func (ft *FreqTable) Len() int {
	return len(ft.symbols)
}

// ScanFreqTable builds a frequency table from a single pass over r.
// ErrEmptyInput is returned if r yields no symbols.
func ScanFreqTable(r io.Reader) (*FreqTable, error) {
	ft := NewFreqTable()
	br := bufio.NewReader(r)
	for {
		sym, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		ft.Add(sym)
	}
	if ft.total == 0 {
		return nil, ErrEmptyInput
	}
	return ft, nil
}

// Serialize renders the table as sym:count pairs joined by commas, in table order.
// A symbol that is itself a comma or a colon produces text that ParseFreqTable
// cannot round-trip; such symbols are unsupported by the persisted format.
func (ft *FreqTable) Serialize() string {
	var b strings.Builder
	for i, sym := range ft.symbols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteRune(sym)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(ft.counts[sym], 10))
	}
	return b.String()
}

// ParseFreqTable rebuilds a frequency table from its serialized form.
// The order entries appear in text becomes the table order.
// Each segment is split on its last colon, so a colon symbol itself still parses.
// Empty segments are skipped.
func ParseFreqTable(text string) (*FreqTable, error) {
	ft := NewFreqTable()
	for _, seg := range strings.Split(text, ",") {
		if seg == "" {
			continue
		}
		i := strings.LastIndex(seg, ":")
		if i < 0 {
			return nil, errors.Wrapf(ErrMalformedTable, "no colon in segment %q", seg)
		}
		symField, countField := seg[:i], seg[i+1:]
		if utf8.RuneCountInString(symField) != 1 {
			return nil, errors.Wrapf(ErrMalformedTable, "symbol %q is not a single character", symField)
		}
		count, err := strconv.ParseInt(countField, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedTable, "count %q in segment %q", countField, seg)
		}
		if count <= 0 {
			return nil, errors.Wrapf(ErrMalformedTable, "count %d in segment %q", count, seg)
		}
		sym, _ := utf8.DecodeRuneInString(symField)
		ft.addN(sym, count)
	}
	if ft.total == 0 {
		return nil, errors.Wrap(ErrMalformedTable, "no entries")
	}
	return ft, nil
}

// A ProbTable holds each symbol's probability as an arbitrary-precision float.
// It preserves the frequency table's symbol order and is immutable once built.
type ProbTable struct {
	symbols []rune
	probs   map[rune]*big.Float
	prec    uint
}

// Probabilities derives a probability table from ft,
// carrying digits decimal digits through the arithmetic.
func Probabilities(ft *FreqTable, digits int) *ProbTable {
	prec := mantissaBits(digits)
	total := new(big.Float).SetPrec(prec).SetInt64(ft.Total())
	pt := &ProbTable{
		symbols: ft.Symbols(),
		probs:   make(map[rune]*big.Float, ft.Len()),
		prec:    prec,
	}
	for _, sym := range pt.symbols {
		p := new(big.Float).SetPrec(prec).SetInt64(ft.Count(sym))
		pt.probs[sym] = p.Quo(p, total)
	}
	return pt
}

// Prob returns the probability of sym, or nil if sym is absent.
func (pt *ProbTable) Prob(sym rune) *big.Float {
	return pt.probs[sym]
}

// Symbols returns the symbols in table order.
func (pt *ProbTable) Symbols() []rune {
	return pt.symbols
}

// mantissaBits converts a decimal digit count to big.Float mantissa bits,
// with headroom so rounding stays below the requested digit count.
func mantissaBits(digits int) uint {
	return uint(math.Ceil(float64(digits)*math.Log2(10))) + 32
}
