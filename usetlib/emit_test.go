package usetlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexClassZs(t *testing.T) {
	got, err := ToRegexClass(`\p{Zs}`)
	require.NoError(t, err)
	assert.Equal(t, `[\x{20}\x{A0}\x{1680}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]`, got)
}

func TestRegexClassSimple(t *testing.T) {
	got, err := ToRegexClass(`[abc1-9]`)
	require.NoError(t, err)
	assert.Equal(t, `[\x{31}-\x{39}\x{61}-\x{63}]`, got)
}

func TestRegexClassEmpty(t *testing.T) {
	got, err := ToRegexClass(`[[a]&[b]]`)
	require.NoError(t, err)
	assert.Equal(t, `[^\x{0}-\x{10FFFF}]`, got)
}

// emitting the class and re-parsing it must resolve to the same set
func TestRegexClassRoundTrip(t *testing.T) {
	for _, pat := range []string{`[a-z0-9]`, `\p{Zs}`, `[[:Lu:]-[A]]`, `[^\p{L}]`, `[\x{10000}-\x{10010}]`} {
		res := mustResolve(t, pat)
		cls, err := ToRegexClass(pat)
		require.NoError(t, err, "emit %q", pat)
		back := mustResolve(t, cls)
		diffResolved(t, Resolved{Intervals: res.Intervals}, back)
	}
}

func TestRewriteRegex(t *testing.T) {
	got, err := RewriteRegex(`foo\p{Zs}+[abc]*`)
	require.NoError(t, err)
	assert.Equal(t, `foo[\x{20}\x{A0}\x{1680}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000}]+[\x{61}-\x{63}]*`, got)
}

func TestRewriteRegexNested(t *testing.T) {
	got, err := RewriteRegex(`^[[:digit:][a-c]]$`)
	require.NoError(t, err)
	assert.Equal(t, `^`+MustCompile(`[[:digit:][a-c]]`).RegexClass()+`$`, got)
}

func TestRewriteRegexPassthrough(t *testing.T) {
	got, err := RewriteRegex(`a\d+\\b`)
	require.NoError(t, err)
	assert.Equal(t, `a\d+\\b`, got)
}

func TestRewriteRegexErrorOffset(t *testing.T) {
	_, err := RewriteRegex(`xx[z-a]`)
	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrEmptyRange, pe.Kind)
	assert.Equal(t, 4, pe.Offset)
}

func TestRewriteRegexUnbalanced(t *testing.T) {
	_, err := RewriteRegex(`a[bc`)
	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrUnbalancedBracket, pe.Kind)
}
