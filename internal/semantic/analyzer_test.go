package semantic

import (
	"strings"
	"testing"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/parser"
	"github.com/proskuryakov/rupc/internal/scope"
)

func mustParse(t *testing.T, src string) *parser.Parser {
	t.Helper()
	p := parser.New(lexer.New(src))
	return p
}

func TestAnalyzeValidProgram(t *testing.T) {
	src := `целый главный() { целый а = 5; вывод_целый(а); вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	an := New(src, "test.ru")
	if _, err := an.Analyze(prog); err != nil {
		t.Fatalf("unexpected analysis error: %v", err)
	}
}

func TestAnalyzeMissingEntryPoint(t *testing.T) {
	src := `целый удвоить(целый x) { вернуть x * 2; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if err == nil {
		t.Fatal("expected an error for a program with no главный function")
	}
}

func TestAnalyzeUndeclaredIdentifier(t *testing.T) {
	src := `целый главный() { вывод_целый(незнакомый); вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if err == nil {
		t.Fatal("expected an error for an undeclared identifier")
	}
}

func TestAnalyzeAggregatesMultipleTopLevelErrors(t *testing.T) {
	src := `целый первый() { вернуть незнакомая_а; }
целый второй() { вернуть незнакомая_б; }
целый главный() { вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if err == nil {
		t.Fatal("expected an error: both первый and второй reference undeclared identifiers")
	}
	ae, ok := err.(*AnalysisError)
	if !ok {
		t.Fatalf("err = %T, want *AnalysisError when multiple top-level declarations fail", err)
	}
	if len(ae.Errors) != 2 {
		t.Fatalf("AnalysisError.Errors len = %d, want 2", len(ae.Errors))
	}
}

func TestAnalyzeSingleErrorIsNotWrapped(t *testing.T) {
	src := `целый главный() { вывод_целый(незнакомый); вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if _, ok := err.(*AnalysisError); ok {
		t.Fatal("a single failing declaration should return its error directly, not wrapped in *AnalysisError")
	}
}

func TestAnalyzeImplicitIntToFloatConversion(t *testing.T) {
	src := `вещественный главный_помощник() { вещественный ф = 1; вернуть ф; }
целый главный() { вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	if _, err := an.Analyze(prog); err != nil {
		t.Fatalf("int-to-float should implicitly convert: %v", err)
	}
}

func TestAnalyzeRejectsIncompatibleConversion(t *testing.T) {
	src := `целый главный() { целый ц = "текст"; вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if err == nil {
		t.Fatal("STR should not convert to INT as an initializer (no such relation exists)")
	}
}

func TestAnalyzeCallReportsCombinedFormalAndActualSignatureOnMismatch(t *testing.T) {
	src := `целый сложить(целый а, целый б) { вернуть а + б; }
целый главный() { сложить("раз", ИСТИНА); вернуть 0; }`
	p := mustParse(t, src)
	prog := p.ParseProgram()
	an := New(src, "test.ru")
	_, err := an.Analyze(prog)
	if err == nil {
		t.Fatal("expected an error: neither argument converts to the declared целый parameters")
	}
	msg := err.Error()
	if !strings.Contains(msg, "целый, целый") {
		t.Fatalf("error should list the full declared parameter signature: %q", msg)
	}
	if !strings.Contains(msg, "строка") || !strings.Contains(msg, "логический") {
		t.Fatalf("error should list the full actual argument signature: %q", msg)
	}
}

func TestAnalyzeStatementAgainstPersistentScope(t *testing.T) {
	g := scope.NewGlobal()
	an := New("", "")

	p1 := parser.New(lexer.New("целый а = 5;"))
	prog1 := p1.ParseProgram()
	if err := an.AnalyzeStatement(prog1.Statements[0], g); err != nil {
		t.Fatalf("unexpected error analyzing first statement: %v", err)
	}

	p2 := parser.New(lexer.New("а = а + 1;"))
	prog2 := p2.ParseProgram()
	if err := an.AnalyzeStatement(prog2.Statements[0], g); err != nil {
		t.Fatalf("second statement should see а from the first: %v", err)
	}
}

func TestAnalyzeStatementDoesNotRequireEntryPoint(t *testing.T) {
	g := scope.NewGlobal()
	an := New("", "")
	p := parser.New(lexer.New("вывод_целый(1);"))
	prog := p.ParseProgram()
	if err := an.AnalyzeStatement(prog.Statements[0], g); err != nil {
		t.Fatalf("a bare statement should analyze without a главный function: %v", err)
	}
}

func TestAnalysisErrorMessageFormat(t *testing.T) {
	err := &AnalysisError{Errors: []error{
		&scope.DuplicateError{Name: "а"},
		&scope.DuplicateError{Name: "б"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2") {
		t.Fatalf("aggregated message should mention the error count: %q", msg)
	}
	if !strings.Contains(msg, "а") || !strings.Contains(msg, "б") {
		t.Fatalf("aggregated message should include both underlying errors: %q", msg)
	}
}
