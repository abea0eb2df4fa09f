package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "CAFE CHICO", Normalize("  cafe  chico  "))
	require.Equal(t, "CAFÉ CHICO", Normalize("Café  Chico"), "accents are preserved")
	require.Equal(t, "A B C", Normalize("a\t b\n  c"))
	require.Equal(t, "", Normalize("   "))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"  Café  Chico  ",
		"(1063) CANJE CAFE + ALFAJOR",
		"egreso   por\tventa",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once))
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"1.234", 1234},
		{"1,234", 1234},
		{"1.234.567", 1234567},
		{"42", 42},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"12x", 0},
	}
	for _, c := range cases {
		require.Equal(t, c.want, ParseCount(c.in), "input %q", c.in)
	}
}
