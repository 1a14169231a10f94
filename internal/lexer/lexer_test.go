package lexer

import "testing"

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	input := `=+-*/% > >= < <= == != & | ( ) [ ] { } , ; :`
	want := []TokenType{
		ASSIGN, PLUS, MINUS, STAR, SLASH, PERCENT,
		GT, GE, LT, LE, EQ, NEQ, BIT_AND, BIT_OR,
		LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE,
		COMMA, SEMI, COLON, EOF,
	}
	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("token[%d] type = %s, want %s (literal %q)", i, tok.Type, tt, tok.Literal)
		}
	}
}

func TestNextTokenKeywordsAndTypes(t *testing.T) {
	input := "если иначе пока делать цикл вернуть ИСТИНА ЛОЖЬ И ИЛИ пустота целый вещественный логический строка"
	want := []TokenType{
		IF, ELSE, WHILE, DO, FOR, RETURN, TRUE, FALSE, AND, OR,
		TYPE_VOID, TYPE_INT, TYPE_FLOAT, TYPE_BOOL, TYPE_STR, EOF,
	}
	l := New(input)
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("token[%d] type = %s, want %s (literal %q)", i, tok.Type, tt, tok.Literal)
		}
	}
}

func TestNextTokenIdentifierCyrillic(t *testing.T) {
	l := New("переменная_1")
	tok := l.NextToken()
	if tok.Type != IDENT || tok.Literal != "переменная_1" {
		t.Fatalf("got %s(%q), want IDENT(переменная_1)", tok.Type, tok.Literal)
	}
}

func TestNextTokenNumbers(t *testing.T) {
	l := New("42 3.14 7")
	cases := []struct {
		typ TokenType
		lit string
	}{
		{INT, "42"}, {FLOAT, "3.14"}, {INT, "7"}, {EOF, ""},
	}
	for _, c := range cases {
		tok := l.NextToken()
		if tok.Type != c.typ || tok.Literal != c.lit {
			t.Fatalf("got %s(%q), want %s(%q)", tok.Type, tok.Literal, c.typ, c.lit)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"привет\nмир\t\"!\\"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("type = %s, want STRING", tok.Type)
	}
	want := "привет\nмир\t\"!\\"
	if tok.Literal != want {
		t.Fatalf("literal = %q, want %q", tok.Literal, want)
	}
}

func TestNextTokenSkipsLineAndBlockComments(t *testing.T) {
	l := New("а # комментарий до конца строки\nб /* блочный\nкомментарий */ в")
	var idents []string
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		idents = append(idents, tok.Literal)
	}
	want := []string{"а", "б", "в"}
	if len(idents) != len(want) {
		t.Fatalf("idents = %v, want %v", idents, want)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Fatalf("idents[%d] = %q, want %q", i, idents[i], want[i])
		}
	}
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Literal != "@" {
		t.Fatalf("got %s(%q), want ILLEGAL(@)", tok.Type, tok.Literal)
	}
}

func TestNextTokenBangAloneIsIllegal(t *testing.T) {
	l := New("!")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL (bare ! is not a valid operator)", tok.Type)
	}
}

func TestNextTokenTracksLineAndColumn(t *testing.T) {
	l := New("а\nб")
	first := l.NextToken()
	if first.Pos.Line != 1 {
		t.Fatalf("first token line = %d, want 1", first.Pos.Line)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 {
		t.Fatalf("second token line = %d, want 2", second.Pos.Line)
	}
}
