package types

import "testing"

func TestConvertibleTo(t *testing.T) {
	cases := []struct {
		from, to BaseType
		want     bool
	}{
		{INT, FLOAT, true},
		{INT, BOOL, true},
		{INT, STR, true},
		{FLOAT, STR, true},
		{FLOAT, INT, false},
		{BOOL, STR, true},
		{BOOL, INT, false},
		{STR, INT, false},
	}
	for _, c := range cases {
		if got := ConvertibleTo(c.from, c.to); got != c.want {
			t.Errorf("ConvertibleTo(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestConversionTargetsOrder(t *testing.T) {
	targets := ConversionTargets(INT)
	want := []BaseType{FLOAT, BOOL, STR}
	if len(targets) != len(want) {
		t.Fatalf("ConversionTargets(INT) = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("ConversionTargets(INT)[%d] = %s, want %s", i, targets[i], want[i])
		}
	}
}

func TestBinOpResult(t *testing.T) {
	if r, ok := BinOpResult(ADD, INT, INT); !ok || r != INT {
		t.Fatalf("ADD(INT,INT) = %s, %v, want INT, true", r, ok)
	}
	if r, ok := BinOpResult(ADD, STR, STR); !ok || r != STR {
		t.Fatalf("ADD(STR,STR) = %s, %v, want STR, true", r, ok)
	}
	if r, ok := BinOpResult(GT, FLOAT, FLOAT); !ok || r != BOOL {
		t.Fatalf("GT(FLOAT,FLOAT) = %s, %v, want BOOL, true", r, ok)
	}
	if _, ok := BinOpResult(ADD, INT, STR); ok {
		t.Fatal("ADD(INT,STR) should be undefined")
	}
	if _, ok := BinOpResult(AND, INT, INT); ok {
		t.Fatal("AND(INT,INT) should be undefined, only BOOL,BOOL")
	}
}

func TestInvertComparison(t *testing.T) {
	cases := map[BinOp]BinOp{
		GT: LE, LE: GT,
		LT: GE, GE: LT,
		EQ: NEQ, NEQ: EQ,
	}
	for op, want := range cases {
		if got := InvertComparison(op); got != want {
			t.Errorf("InvertComparison(%s) = %s, want %s", op, got, want)
		}
	}
}

func TestInvertComparisonPanicsOnNonComparison(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-comparison operator")
		}
	}()
	InvertComparison(ADD)
}

func TestIsComparison(t *testing.T) {
	for _, op := range []BinOp{GT, GE, LT, LE, EQ, NEQ} {
		if !IsComparison(op) {
			t.Errorf("IsComparison(%s) = false, want true", op)
		}
	}
	for _, op := range []BinOp{ADD, SUB, AND, OR, BIT_AND, BIT_OR} {
		if IsComparison(op) {
			t.Errorf("IsComparison(%s) = true, want false", op)
		}
	}
}

func TestTypeDescEqual(t *testing.T) {
	if !Int.Equal(Simple(INT)) {
		t.Fatal("Int should equal a freshly built Simple(INT)")
	}
	if Int.Equal(Float) {
		t.Fatal("Int should not equal Float")
	}
	f1 := Func(Int, Int, Str)
	f2 := Func(Int, Int, Str)
	if !f1.Equal(f2) {
		t.Fatal("structurally identical function types should be equal")
	}
	f3 := Func(Int, Str, Int)
	if f1.Equal(f3) {
		t.Fatal("function types with reordered params should not be equal")
	}
	if Int.Equal(Func(Int)) {
		t.Fatal("a simple type should never equal a function type")
	}
}

func TestFromStr(t *testing.T) {
	td, err := FromStr("целый")
	if err != nil || !td.Equal(Int) {
		t.Fatalf("FromStr(целый) = %v, %v, want Int, nil", td, err)
	}
	if _, err := FromStr("неизвестный"); err == nil {
		t.Fatal("expected UnknownTypeError for an unrecognized type name")
	}
}
