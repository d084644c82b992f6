package arith

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreqTableOrder(t *testing.T) {
	ft, err := ScanFreqTable(strings.NewReader("banana"))
	require.NoError(t, err)

	assert.Equal(t, []rune{'b', 'a', 'n'}, ft.Symbols())
	assert.Equal(t, int64(1), ft.Count('b'))
	assert.Equal(t, int64(3), ft.Count('a'))
	assert.Equal(t, int64(2), ft.Count('n'))
	assert.Equal(t, int64(6), ft.Total())
	assert.Equal(t, 3, ft.Len())
}

func TestScanFreqTableEmpty(t *testing.T) {
	_, err := ScanFreqTable(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestScanFreqTableIdempotent(t *testing.T) {
	const input = "the quick brown fox"
	ft1, err := ScanFreqTable(strings.NewReader(input))
	require.NoError(t, err)
	ft2, err := ScanFreqTable(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, ft1.Symbols(), ft2.Symbols())
	for _, sym := range ft1.Symbols() {
		assert.Equal(t, ft1.Count(sym), ft2.Count(sym))
	}
	assert.Equal(t, ft1.Total(), ft2.Total())
}

func TestSerialize(t *testing.T) {
	ft, err := ScanFreqTable(strings.NewReader("ab"))
	require.NoError(t, err)
	assert.Equal(t, "a:1,b:1", ft.Serialize())

	ft, err = ScanFreqTable(strings.NewReader("aaa"))
	require.NoError(t, err)
	assert.Equal(t, "a:3", ft.Serialize())
}

func TestTableRoundTrip(t *testing.T) {
	ft, err := ScanFreqTable(strings.NewReader("mississippi river"))
	require.NoError(t, err)

	parsed, err := ParseFreqTable(ft.Serialize())
	require.NoError(t, err)

	assert.Equal(t, ft.Symbols(), parsed.Symbols())
	for _, sym := range ft.Symbols() {
		assert.Equal(t, ft.Count(sym), parsed.Count(sym))
	}
	assert.Equal(t, ft.Total(), parsed.Total())
}

func TestParseFreqTable(t *testing.T) {
	// The order entries appear in becomes the table order.
	ft, err := ParseFreqTable("z:2,a:5, :1")
	require.NoError(t, err)
	assert.Equal(t, []rune{'z', 'a', ' '}, ft.Symbols())
	assert.Equal(t, int64(8), ft.Total())

	// Trailing and doubled commas are skipped.
	ft, err = ParseFreqTable("a:1,b:2,")
	require.NoError(t, err)
	assert.Equal(t, int64(3), ft.Total())

	// A colon symbol parses because segments split on the last colon.
	ft, err = ParseFreqTable("::4")
	require.NoError(t, err)
	assert.Equal(t, []rune{':'}, ft.Symbols())
	assert.Equal(t, int64(4), ft.Count(':'))
}

func TestParseFreqTableMalformed(t *testing.T) {
	for _, text := range []string{
		"a3",     // no colon
		"a:x",    // count not an integer
		"a:0",    // count not positive
		"a:-2",   // count not positive
		"ab:3",   // symbol wider than one character
		":3",     // empty symbol
		"",       // no entries
		"a:1,b2", // malformed later segment
	} {
		_, err := ParseFreqTable(text)
		assert.ErrorIs(t, err, ErrMalformedTable, "text %q", text)
	}
}

func TestProbabilitiesSumToOne(t *testing.T) {
	ft, err := ScanFreqTable(strings.NewReader("abracadabra"))
	require.NoError(t, err)
	pt := Probabilities(ft, 50)

	sum := new(big.Float).SetPrec(mantissaBits(50))
	for _, sym := range pt.Symbols() {
		sum.Add(sum, pt.Prob(sym))
	}
	diff, _ := new(big.Float).Sub(sum, big.NewFloat(1)).Float64()
	assert.InDelta(t, 0, diff, 1e-40)
}

func TestProbabilitiesOrder(t *testing.T) {
	ft, err := ScanFreqTable(strings.NewReader("cba"))
	require.NoError(t, err)
	pt := Probabilities(ft, 50)
	assert.Equal(t, []rune{'c', 'b', 'a'}, pt.Symbols())
}
