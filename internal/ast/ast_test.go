package ast

import (
	"strings"
	"testing"

	"github.com/kievzenit/kscope/internal/lexer"
)

func num(v float64) Expr          { return &NumberExpr{Value: v} }
func ref(name string) Expr        { return &VariableExpr{Name: name} }
func bin(op byte, l, r Expr) Expr { return &BinaryExpr{Op: op, Left: l, Right: r} }
func call(name string, args ...Expr) Expr {
	return &CallExpr{Callee: name, Args: args}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Expr
		want bool
	}{
		{"numbers", num(1), num(1), true},
		{"numbers_differ", num(1), num(2), false},
		{"variables", ref("x"), ref("x"), true},
		{"variables_differ", ref("x"), ref("y"), false},
		{"variant_mismatch", num(1), ref("x"), false},
		{"binary", bin('+', num(1), ref("a")), bin('+', num(1), ref("a")), true},
		{"binary_op_differs", bin('+', num(1), num(2)), bin('-', num(1), num(2)), false},
		{"binary_shape_differs", bin('+', bin('+', num(1), num(2)), num(3)), bin('+', num(1), bin('+', num(2), num(3))), false},
		{"call", call("f", num(1), ref("x")), call("f", num(1), ref("x")), true},
		{"call_no_args", call("f"), call("f"), true},
		{"call_arity_differs", call("f", num(1)), call("f"), false},
		{"call_callee_differs", call("f"), call("g"), false},
		{"nil_both", nil, nil, true},
		{"nil_one", nil, num(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal(%s, %s) = %v, want %v", String(tt.a), String(tt.b), got, tt.want)
			}
		})
	}
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := &NumberExpr{StartToken: &lexer.Token{Metadata: lexer.TokenMetadata{Line: 1, Column: 1}}, Value: 3}
	b := &NumberExpr{StartToken: &lexer.Token{Metadata: lexer.TokenMetadata{Line: 9, Column: 4}}, Value: 3}

	if !Equal(a, b) {
		t.Fatal("positions should not take part in equality")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{num(42), "42"},
		{num(0.5), "0.5"},
		{num(1e21), "1000000000000000000000"},
		{ref("x"), "x"},
		{bin('+', num(1), bin('*', num(2), num(3))), "(1 + (2 * 3))"},
		{call("f"), "f()"},
		{call("f", num(1), bin('<', ref("a"), ref("b"))), "f(1, (a < b))"},
	}

	for _, tt := range tests {
		if got := String(tt.expr); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFuncDeclString(t *testing.T) {
	def := &FuncDecl{
		Proto: &Prototype{Name: "foo", Params: []string{"a", "b"}},
		Body:  bin('+', ref("a"), ref("b")),
	}
	if got, want := def.String(), "def foo(a b) (a + b)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	ext := &FuncDecl{Proto: &Prototype{Name: "sin", Params: []string{"x"}}}
	if got, want := ext.String(), "extern sin(x)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	anon := &FuncDecl{Proto: &Prototype{}, Body: num(4)}
	if got, want := anon.String(), "4"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEqualFuncDecl(t *testing.T) {
	a := &FuncDecl{Proto: &Prototype{Name: "f", Params: []string{"x"}}, Body: ref("x")}
	b := &FuncDecl{Proto: &Prototype{Name: "f", Params: []string{"x"}}, Body: ref("x")}
	c := &FuncDecl{Proto: &Prototype{Name: "f", Params: []string{"y"}}, Body: ref("x")}
	ext := &FuncDecl{Proto: &Prototype{Name: "f", Params: []string{"x"}}}

	if !EqualFuncDecl(a, b) {
		t.Error("identical declarations should be equal")
	}
	if EqualFuncDecl(a, c) {
		t.Error("parameter names should matter")
	}
	if EqualFuncDecl(a, ext) {
		t.Error("definition and extern should differ")
	}
}

func TestDumpHidesStartToken(t *testing.T) {
	e := &BinaryExpr{
		StartToken: &lexer.Token{Kind: lexer.NUMBER, Value: "1"},
		Op:         '+',
		Left:       &NumberExpr{Value: 1},
		Right:      &VariableExpr{Name: "x"},
	}

	out := Dump(e)
	if strings.Contains(out, "StartToken") {
		t.Fatalf("dump should not include StartToken:\n%s", out)
	}
	if !strings.Contains(out, "VariableExpr") || !strings.Contains(out, `"x"`) {
		t.Fatalf("dump is missing the tree:\n%s", out)
	}
}
