package usetlib

import "testing"

// ------------------------------------------------------------------- helpers

func lexAll(t *testing.T, pat string) []token {
	t.Helper()
	toks, err := tokenize(pat)
	if err != nil {
		t.Fatalf("tokenize %q: %v", pat, err)
	}
	return toks
}

func wantTypes(t *testing.T, pat string, want []tokenType) {
	t.Helper()
	toks := lexAll(t, pat)
	if len(toks) != len(want) {
		t.Fatalf("lex %q: want %d tokens got %d", pat, len(want), len(toks))
	}
	for i, typ := range want {
		if toks[i].typ != typ {
			t.Fatalf("lex %q tok %d: want %v got %v", pat, i, typ, toks[i].typ)
		}
	}
}

// ------------------------------------------------------------------- tokens

func TestLexerTokens(t *testing.T) {
	wantTypes(t, `[a-z&{ab}]`, []tokenType{
		tLBracket, tChar, tDash, tChar, tAmp,
		tLBrace, tChar, tChar, tRBrace, tRBracket, tEOF,
	})
}

func TestLexerPosix(t *testing.T) {
	toks := lexAll(t, `[:^Lu:]`)
	want := []tokenType{tPosixOpen, tChar, tChar, tPosixClose, tEOF}
	for i, typ := range want {
		if toks[i].typ != typ {
			t.Fatalf("tok %d: want %v got %v", i, typ, toks[i].typ)
		}
	}
	if !toks[0].neg {
		t.Fatal("expected negated posix open")
	}
}

func TestLexerWhitespaceDropped(t *testing.T) {
	wantTypes(t, "[ a\tb ]", []tokenType{tLBracket, tChar, tChar, tRBracket, tEOF})
}

func TestLexerQuoteRun(t *testing.T) {
	toks := lexAll(t, `['a-z']`)
	want := []rune{'a', '-', 'z'}
	for i, r := range want {
		tok := toks[i+1]
		if tok.typ != tChar || tok.ch != r || !tok.lit {
			t.Fatalf("tok %d: want literal %q got %+v", i+1, r, tok)
		}
	}
}

func TestLexerEscapedQuote(t *testing.T) {
	toks := lexAll(t, `[''['it''s']`)
	// '' -> ', then [, then quoted run it's
	if toks[1].ch != '\'' || !toks[1].lit {
		t.Fatalf("want escaped quote, got %+v", toks[1])
	}
	if toks[2].typ != tLBracket {
		t.Fatalf("want [, got %+v", toks[2])
	}
	got := ""
	for _, tok := range toks[3:7] {
		got += string(tok.ch)
	}
	if got != "it's" {
		t.Fatalf("quoted run: want it's got %q", got)
	}
}

func TestLexerEscapes(t *testing.T) {
	cases := []struct {
		pat  string
		want rune
	}{
		{`\u0041`, 0x41},
		{`\U0001F600`, 0x1F600},
		{`\x41`, 0x41},
		{`\x{1F600}`, 0x1F600},
		{`\n`, 0x0A},
		{`\t`, 0x09},
		{`\a`, 0x07},
		{`\\`, '\\'},
		{`\$`, '$'},
		{`\]`, ']'},
	}
	for _, c := range cases {
		toks := lexAll(t, c.pat)
		if toks[0].typ != tChar || toks[0].ch != c.want || !toks[0].lit {
			t.Fatalf("%q: want literal U+%04X got %+v", c.pat, c.want, toks[0])
		}
	}
}

func TestLexerPropCapture(t *testing.T) {
	toks := lexAll(t, `\p{gc=Lu}\P{Thai}`)
	if toks[0].typ != tProp || toks[0].body != "gc=Lu" || toks[0].neg {
		t.Fatalf("bad \\p token: %+v", toks[0])
	}
	if toks[1].typ != tProp || toks[1].body != "Thai" || !toks[1].neg {
		t.Fatalf("bad \\P token: %+v", toks[1])
	}
}

// ------------------------------------------------------------------- errors

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		pat  string
		kind ErrorKind
	}{
		{`[\u004]`, ErrBadEscape},
		{`[\U00110000]`, ErrBadEscape},
		{`[\x{}]`, ErrBadEscape},
		{`[\xG]`, ErrBadEscape},
		{`['abc]`, ErrUnterminatedQuote},
		{`[\p{Lu]`, ErrUnbalancedBrace},
		{`[\pLu]`, ErrBadEscape},
	}
	for _, c := range cases {
		_, err := tokenize(c.pat)
		pe, ok := err.(*PatternError)
		if !ok {
			t.Fatalf("%q: want *PatternError, got %v", c.pat, err)
		}
		if pe.Kind != c.kind {
			t.Fatalf("%q: want %v got %v", c.pat, c.kind, pe.Kind)
		}
	}
}
