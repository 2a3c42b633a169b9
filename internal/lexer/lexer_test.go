package lexer

import "testing"

func tokenTypes(src string) []TokenType {
	l := New(src, "test")
	var out []TokenType
	for {
		tok := l.NextToken()
		out = append(out, tok.Type)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestLexerRecognizesQuantifierAndApplication(t *testing.T) {
	toks := tokenTypes("forall ?x:Individual. Mortal(?x)")
	want := []TokenType{FORALL, VARID, COLON, IDENT, DOT, IDENT, LPAREN, VARID, RPAREN, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i] != tt {
			t.Fatalf("token %d: got %s, want %s", i, toks[i], tt)
		}
	}
}

func TestLexerAcceptsUnicodeAndASCIIConnectiveSpellings(t *testing.T) {
	unicode := tokenTypes("¬P ∧ Q ⇒ R ≡ S")
	ascii := tokenTypes("not P and Q implies R iff S")
	if len(unicode) != len(ascii) {
		t.Fatalf("spelling mismatch: %v vs %v", unicode, ascii)
	}
	for i := range unicode {
		if unicode[i] != ascii[i] {
			t.Fatalf("token %d differs: %s vs %s", i, unicode[i], ascii[i])
		}
	}
}

func TestLexerSplitsModalAgentSubscript(t *testing.T) {
	toks := tokenTypes("K_a(Believes)")
	want := []TokenType{KNOWS, UNDERSCORE, IDENT, LPAREN, IDENT, RPAREN, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, tt := range want {
		if toks[i] != tt {
			t.Fatalf("token %d: got %s, want %s", i, toks[i], tt)
		}
	}
}

func TestLexerReadsDefinition(t *testing.T) {
	toks := tokenTypes(`def Foo : Boolean = true`)
	if toks[0] != DEF || toks[1] != IDENT || toks[2] != COLON {
		t.Fatalf("unexpected prefix: %v", toks)
	}
}
