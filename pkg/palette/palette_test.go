package palette

import (
	"image/color"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestGenerateBounds(t *testing.T) {
	rng := NewSource(42)
	for i := 0; i < 1000; i++ {
		colors := Generate(rng)
		require.GreaterOrEqual(t, len(colors), MinSize)
		require.LessOrEqual(t, len(colors), MaxSize)
		for _, c := range colors {
			require.Regexp(t, hexPattern, c)
		}
	}
}

func TestGenerateCoversAllSizes(t *testing.T) {
	rng := NewSource(7)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		seen[len(Generate(rng))] = true
	}
	for n := MinSize; n <= MaxSize; n++ {
		require.True(t, seen[n], "size %d never generated", n)
	}
}

func TestGenerateConstantZero(t *testing.T) {
	colors := Generate(Constant(0))
	require.Equal(t, Colors{"#000000", "#000000"}, colors)
}

func TestGenerateConstantHigh(t *testing.T) {
	colors := Generate(Constant(0.9999))
	require.Len(t, colors, MaxSize)
	for _, c := range colors {
		require.Equal(t, "#FFFFFF", c)
	}
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	require.Equal(t, Generate(NewSource(99)), Generate(NewSource(99)))
}

func TestPickClamps(t *testing.T) {
	require.Equal(t, 0, Pick(Constant(-0.5), 4))
	require.Equal(t, 3, Pick(Constant(1), 4))
	require.Equal(t, 2, Pick(Constant(0.5), 4))
}

func TestDefaultAndClone(t *testing.T) {
	d := Default()
	require.Equal(t, Colors{"#ffffff"}, d)

	c := d.Clone()
	c[0] = "#000000"
	require.Equal(t, "#ffffff", d[0])
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#12abEF")
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 0x12, G: 0xab, B: 0xef, A: 255}, c)

	for _, bad := range []string{"", "123456", "#12345", "#1234567", "#GGGGGG", "#+12345"} {
		_, err := ParseHex(bad)
		require.ErrorIs(t, err, ErrInvalidColor, bad)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Colors{"#ffffff", "#ABCDEF"}.Validate())
	require.ErrorIs(t, Colors{}.Validate(), ErrInvalidColor)
	require.ErrorIs(t, Colors{"#ffffff", "red"}.Validate(), ErrInvalidColor)
}
