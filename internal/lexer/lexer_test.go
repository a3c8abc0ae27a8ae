package lexer

import "testing"

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123", "123"},
		{"1.23", "1.23"},
		{"-0.5", "-0.5"},
		{"1e3", "1e3"},
		{"1E+3", "1E+3"},
		{"1e-3", "1e-3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := tokenize(t, tt.input)
			if len(toks) != 2 || toks[0].Kind != NUMBER || toks[0].Literal != tt.want {
				t.Fatalf("got %+v, want single NUMBER(%q)", toks, tt.want)
			}
		})
	}
}

func TestSignIsOperatorAfterOperand(t *testing.T) {
	toks := tokenize(t, "a - 1")
	kinds := []Kind{IDENT, OP, NUMBER, EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
	if toks[1].Literal != "-" {
		t.Fatalf("expected binary '-', got %q", toks[1].Literal)
	}
}

func TestBooleanLiterals(t *testing.T) {
	for _, word := range []string{"true", "True", "false", "False"} {
		toks := tokenize(t, word)
		if toks[0].Kind != BOOL {
			t.Fatalf("%s: got %s, want BOOL", word, toks[0].Kind)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks := tokenize(t, `"line1\nline2\t\"q\""`)
	if toks[0].Kind != STRING {
		t.Fatalf("got %s, want STRING", toks[0].Kind)
	}
	want := "line1\nline2\t\"q\""
	if toks[0].Literal != want {
		t.Fatalf("got %q, want %q", toks[0].Literal, want)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected lex error for unterminated string")
	}
}

func TestWordOperatorPromotion(t *testing.T) {
	// "in" as a bare reference at the start of a statement stays IDENT.
	toks := tokenize(t, "in = 1")
	if toks[0].Kind != IDENT {
		t.Fatalf("leading 'in': got %s, want IDENT", toks[0].Kind)
	}

	// "in" after a complete operand is the membership operator.
	toks = tokenize(t, "x in y")
	if toks[1].Kind != OP || toks[1].Literal != "in" {
		t.Fatalf("infix 'in': got %+v", toks[1])
	}
}

func TestNotIsAlwaysOperator(t *testing.T) {
	toks := tokenize(t, "not true")
	if toks[0].Kind != OP || toks[0].Literal != "not" {
		t.Fatalf("got %+v, want OP(not)", toks[0])
	}
}

func TestLongestMatchOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"<<=", []string{"<<="}},
		{"<<", []string{"<<"}},
		{"<", []string{"<"}},
		{"&&", []string{"&&"}},
		{"&=", []string{"&="}},
		{"&", []string{"&"}},
	}
	for _, tt := range tests {
		toks := tokenize(t, tt.input)
		if len(toks) != len(tt.want)+1 {
			t.Fatalf("%s: got %+v", tt.input, toks)
		}
		for i, w := range tt.want {
			if toks[i].Literal != w {
				t.Fatalf("%s: token %d got %q want %q", tt.input, i, toks[i].Literal, w)
			}
		}
	}
}

func TestBracketsAndPunctuation(t *testing.T) {
	toks := tokenize(t, "[1, 2]; {1:2} ? :")
	kinds := []Kind{LBRACK, NUMBER, COMMA, NUMBER, RBRACK, SEMI, LBRACE, NUMBER, COLON, NUMBER, RBRACE, QUESTION, COLON, EOF}
	if len(toks) != len(kinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(kinds), toks)
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestPositions(t *testing.T) {
	l := New("ab\ncd")
	tok, _ := l.NextToken() // ab
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("got %+v", tok.Pos)
	}
	tok, _ = l.NextToken() // cd
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("got %+v", tok.Pos)
	}
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	l := New("a b")
	p1, _ := l.PeekToken()
	p2, _ := l.PeekToken()
	if p1 != p2 {
		t.Fatalf("peek not idempotent: %+v vs %+v", p1, p2)
	}
	n, _ := l.NextToken()
	if n != p1 {
		t.Fatalf("next after peek mismatch: %+v vs %+v", n, p1)
	}
}
