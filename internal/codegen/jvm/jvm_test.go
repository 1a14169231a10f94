package jvm

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/proskuryakov/rupc/internal/lexer"
	"github.com/proskuryakov/rupc/internal/parser"
	"github.com/proskuryakov/rupc/internal/semantic"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(lexer.New(src))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "unexpected parse errors")

	an := semantic.New(src, "test.ru")
	_, err := an.Analyze(prog)
	require.NoError(t, err)

	out, err := New("rupc_prog").Generate(prog)
	require.NoError(t, err)
	return out
}

func TestGenerateArithmeticAndPrint(t *testing.T) {
	src := `целый главный() {
    целый а = 2 + 3 * 4;
    вывод_целый(а);
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateIfElse(t *testing.T) {
	src := `целый главный() {
    целый а = 5;
    если (а > 3) {
        вывод_целый(1);
    } иначе {
        вывод_целый(0);
    }
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateWhileLoop(t *testing.T) {
	src := `целый главный() {
    целый а = 0;
    пока (а < 5) {
        а = а + 1;
    }
    вывод_целый(а);
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateForLoop(t *testing.T) {
	src := `целый главный() {
    цикл (целый i = 0; i < 10; i = i + 1) {
        вывод_целый(i);
    }
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateShortCircuitLogicalOperators(t *testing.T) {
	src := `целый главный() {
    целый а = 5;
    если (а > 0 И а < 10) {
        вывод_целый(1);
    }
    если (а < 0 ИЛИ а > 3) {
        вывод_целый(2);
    }
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateFunctionCallWithConversion(t *testing.T) {
	src := `вещественный квадрат(вещественный x) {
    вернуть x * x;
}
целый главный() {
    вещественный р = квадрат(3);
    вывод_вещ(р);
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}

func TestGenerateStringPrint(t *testing.T) {
	src := `целый главный() {
    строка с = "привет";
    вывод(с);
    вывод_перенос("мир");
    вернуть 0;
}`
	snaps.MatchSnapshot(t, compile(t, src))
}
