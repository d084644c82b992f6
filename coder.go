package arith

import (
	"bufio"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ErrDecodeMismatch is returned when the encoded value falls outside every
// symbol's sub-interval at some decoding step.
// It indicates a corrupted record, or a precision too low for the message length.
var ErrDecodeMismatch = errors.New("encoded value outside every sub-interval")

// An Interval is the coder's current range, with 0 <= Low < High <= 1.
type Interval struct {
	Low  *big.Float
	High *big.Float
}

// A SubInterval is one symbol's share of a partitioned Interval.
type SubInterval struct {
	Sym rune
	Interval
}

// unit returns the starting interval (0, 1) at the table's precision.
func (pt *ProbTable) unit() Interval {
	return Interval{
		Low:  new(big.Float).SetPrec(pt.prec),
		High: new(big.Float).SetPrec(pt.prec).SetInt64(1),
	}
}

// Partition splits iv into one contiguous sub-interval per symbol, in table
// order, each with width proportional to the symbol's probability.
// Each sub-interval's upper bound is the next one's lower bound, and the last
// upper bound is pinned to iv.High, so the partition reconstitutes iv without
// gaps regardless of rounding.
// Partition has no side effects and may be called with any interval.
func (pt *ProbTable) Partition(iv Interval) []SubInterval {
	width := new(big.Float).SetPrec(pt.prec).Sub(iv.High, iv.Low)
	parts := make([]SubInterval, 0, len(pt.symbols))
	cursor := iv.Low
	for i, sym := range pt.symbols {
		var high *big.Float
		if i == len(pt.symbols)-1 {
			high = iv.High
		} else {
			high = new(big.Float).SetPrec(pt.prec).Mul(pt.probs[sym], width)
			high.Add(high, cursor)
		}
		parts = append(parts, SubInterval{Sym: sym, Interval: Interval{Low: cursor, High: high}})
		cursor = high
	}
	return parts
}

// Encode narrows the unit interval once per input symbol, selecting each
// symbol's sub-interval in turn, and returns the midpoint of the final
// interval. The final interval identifies the symbol sequence uniquely under
// the table, so any value strictly inside it can stand for the sequence.
// Every symbol must be present in the table.
func Encode(symbols []rune, pt *ProbTable) (*big.Float, error) {
	iv := pt.unit()
	for _, sym := range symbols {
		found := false
		for _, sub := range pt.Partition(iv) {
			if sub.Sym == sym {
				iv = sub.Interval
				found = true
				break
			}
		}
		if !found {
			return nil, errors.Errorf("symbol %q not in table", sym)
		}
	}
	mid := new(big.Float).SetPrec(pt.prec).Add(iv.Low, iv.High)
	return mid.Quo(mid, big.NewFloat(2)), nil
}

// Decode replays the interval narrowing for exactly n steps, at each step
// emitting the first symbol in table order whose sub-interval contains value.
// Both bounds are inclusive, so a value lying exactly on a shared boundary
// resolves to the earlier symbol.
// ErrDecodeMismatch is returned if no sub-interval contains value at some step.
func Decode(w io.Writer, value *big.Float, pt *ProbTable, n int64) error {
	bw := bufio.NewWriter(w)
	iv := pt.unit()
	for i := int64(0); i < n; i++ {
		matched := false
		for _, sub := range pt.Partition(iv) {
			if value.Cmp(sub.Low) >= 0 && value.Cmp(sub.High) <= 0 {
				if _, err := bw.WriteRune(sub.Sym); err != nil {
					return errors.Wrap(err, "")
				}
				iv = sub.Interval
				matched = true
				break
			}
		}
		if !matched {
			return errors.Wrapf(ErrDecodeMismatch, "symbol %d of %d", i, n)
		}
	}
	return errors.Wrap(bw.Flush(), "")
}
