package colors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLuminanceBounds(t *testing.T) {
	black, err := Luminance("000000")
	require.NoError(t, err)
	assert.Equal(t, 0.0, black)

	white, err := Luminance("ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, white, 1e-9)
}

func TestLuminanceAcceptsHashAndUppercase(t *testing.T) {
	a, err := Luminance("#FA2D48")
	require.NoError(t, err)
	b, err := Luminance("fa2d48")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLuminanceMonotonicPerChannel(t *testing.T) {
	shifts := []int{16, 8, 0}
	for _, shift := range shifts {
		prev := -1.0
		for c := 0; c <= 255; c += 5 {
			l, err := Luminance(FormatHex(c << shift))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, l, prev, "channel shift %d value %d", shift, c)
			prev = l
		}
	}
}

func TestLuminanceInvalidFormat(t *testing.T) {
	tests := []string{"", "fff", "gggggg", "1234567", "#12345"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Luminance(in)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestContrastRatio(t *testing.T) {
	r, err := ContrastRatio("000000", "ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 21.0, r, 1e-9)

	for _, c := range []string{"000000", "ffffff", "fa2d48", "123456"} {
		same, err := ContrastRatio(c, c)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, same, 1e-12)
	}

	ab, err := ContrastRatio("fa2d48", "1c1c1e")
	require.NoError(t, err)
	ba, err := ContrastRatio("1c1c1e", "fa2d48")
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	_, err = ContrastRatio("zzzzzz", "000000")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAdjustForContrastAlreadySatisfied(t *testing.T) {
	adj, err := AdjustForContrast("ffffff", "000000", DefaultMinContrast, DefaultMaxAttempts)
	require.NoError(t, err)
	assert.Equal(t, "ffffff", adj.Color)
	assert.Equal(t, 0, adj.Attempts)
}

func TestAdjustForContrastWhiteOnWhiteDarkens(t *testing.T) {
	adj, err := AdjustForContrast("ffffff", "ffffff", DefaultMinContrast, DefaultMaxAttempts)
	require.NoError(t, err)
	assert.LessOrEqual(t, adj.Attempts, DefaultMaxAttempts)

	ratio, err := ContrastRatio(adj.Color, "ffffff")
	require.NoError(t, err)
	assert.True(t, ratio >= DefaultMinContrast || adj.Attempts == DefaultMaxAttempts)

	// darkening lowers luminance on every step while the current color is
	// above 0.5; bbbbbb drops below it and the loop oscillates with cccccc
	// until the cap.
	prev, _ := Luminance("ffffff")
	for n, want := range []string{"eeeeee", "dddddd", "cccccc", "bbbbbb"} {
		step, err := AdjustForContrast("ffffff", "ffffff", DefaultMinContrast, n+1)
		require.NoError(t, err)
		assert.Equal(t, want, step.Color)
		l, err := Luminance(step.Color)
		require.NoError(t, err)
		assert.Less(t, l, prev, "step %d", n+1)
		prev = l
	}

	assert.Equal(t, DefaultMaxAttempts, adj.Attempts)
	assert.Equal(t, "bbbbbb", adj.Color)
}

func TestAdjustForContrastExactSteps(t *testing.T) {
	// ffffff -> eeeeee -> dddddd ... each step subtracts 0x111111
	adj, err := AdjustForContrast("ffffff", "ffffff", math.Inf(1), 3)
	require.NoError(t, err)
	assert.Equal(t, "cccccc", adj.Color)
	assert.Equal(t, 3, adj.Attempts)

	adj, err = AdjustForContrast("000000", "000000", math.Inf(1), 2)
	require.NoError(t, err)
	assert.Equal(t, "222222", adj.Color)
}

func TestAdjustForContrastRespectsCap(t *testing.T) {
	adj, err := AdjustForContrast("777777", "777777", 22, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, adj.Attempts)
}

func TestAdjustForContrastClampsAtBoundaries(t *testing.T) {
	// the value never leaves the 24-bit range
	adj, err := AdjustForContrast("050505", "050505", math.Inf(1), DefaultMaxAttempts)
	require.NoError(t, err)
	v, err := ParseHex(adj.Color)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 0)
	assert.LessOrEqual(t, v, 0xFFFFFF)

	adj, err = AdjustForContrast("18ffff", "ffffff", math.Inf(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "07eeee", adj.Color)

	// 08ffff - 111111 would go negative
	adj, err = AdjustForContrast("08ffff", "ffffff", math.Inf(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "000000", adj.Color)
}

func TestAdjustForContrastDirectionFollowsCurrentColor(t *testing.T) {
	// 888888 has luminance ~0.25 so it lightens, even against a light background
	adj, err := AdjustForContrast("888888", "ffffff", math.Inf(1), 1)
	require.NoError(t, err)
	assert.Equal(t, "999999", adj.Color)
}

func TestAdjustForContrastInvalid(t *testing.T) {
	_, err := AdjustForContrast("nothex", "000000", DefaultMinContrast, DefaultMaxAttempts)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	_, err = AdjustForContrast("ffffff", "#00", DefaultMinContrast, DefaultMaxAttempts)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("#ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "abcdef", got)
	assert.Equal(t, "0a0b0c", RGBToHex(10, 11, 12))
}

func TestRenderSwatch(t *testing.T) {
	out := RenderSwatch("#ABCDEF", "keyColor")
	assert.Contains(t, out, "#abcdef")
	assert.Contains(t, out, "keyColor")

	assert.Equal(t, "bad (invalid)", RenderSwatch("zz", "bad"))
}
