package parser

import (
	"testing"

	"github.com/tsuberim/lang/internal/ast"
	"github.com/tsuberim/lang/internal/lexer"
)

func parseFile(t *testing.T, input string) *ast.File {
	t.Helper()
	p := New(lexer.New(input, "test.lang"))
	file := p.ParseFile()
	if err := p.Err(); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return file
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	p := New(lexer.New(input, "test.lang"))
	expr := p.ParseExpr()
	if err := p.Err(); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return expr
}

func TestDeclarations(t *testing.T) {
	file := parseFile(t, "x = 1\ny = \"two\"")

	if len(file.Decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(file.Decls))
	}
	if file.Decls[0].Name != "x" {
		t.Fatalf("first declaration name: %s", file.Decls[0].Name)
	}
	if _, ok := file.Decls[0].Value.(*ast.NumLit); !ok {
		t.Fatalf("first declaration value is %T", file.Decls[0].Value)
	}
	if file.Expr != nil {
		t.Fatalf("unexpected trailing expression")
	}
}

func TestTrailingExpression(t *testing.T) {
	file := parseFile(t, "x = 1\nx + 1")
	if len(file.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(file.Decls))
	}
	if file.Expr == nil {
		t.Fatalf("missing trailing expression")
	}
}

func TestImports(t *testing.T) {
	file := parseFile(t, "import util\nx = 1")
	if len(file.Imports) != 1 || file.Imports[0].Name != "util" {
		t.Fatalf("imports: %v", file.Imports)
	}
}

func TestLambdaSingleParam(t *testing.T) {
	lam, ok := parseExpr(t, `\x -> x`).(*ast.Lam)
	if !ok {
		t.Fatalf("not a lambda")
	}
	if len(lam.Params) != 1 || lam.Params[0] != "x" {
		t.Fatalf("params: %v", lam.Params)
	}
}

func TestLambdaMultiParam(t *testing.T) {
	lam := parseExpr(t, `\(x, y) -> x + y`).(*ast.Lam)
	if len(lam.Params) != 2 || lam.Params[0] != "x" || lam.Params[1] != "y" {
		t.Fatalf("params: %v", lam.Params)
	}
	app, ok := lam.Body.(*ast.App)
	if !ok {
		t.Fatalf("body is %T", lam.Body)
	}
	if fn, ok := app.Fn.(*ast.Id); !ok || fn.Name != "+" {
		t.Fatalf("body fn: %s", app.Fn)
	}
}

func TestOperatorsDesugarToApplications(t *testing.T) {
	app, ok := parseExpr(t, `1 + 2`).(*ast.App)
	if !ok {
		t.Fatalf("not an application")
	}
	fn, ok := app.Fn.(*ast.Id)
	if !ok || fn.Name != "+" {
		t.Fatalf("fn: %v", app.Fn)
	}
	if len(app.Args) != 2 {
		t.Fatalf("args: %d", len(app.Args))
	}
}

func TestPrecedence(t *testing.T) {
	// * binds tighter than +
	app := parseExpr(t, `1 + 2 * 3`).(*ast.App)
	if app.Fn.(*ast.Id).Name != "+" {
		t.Fatalf("outer operator: %s", app.Fn)
	}
	inner, ok := app.Args[1].(*ast.App)
	if !ok || inner.Fn.(*ast.Id).Name != "*" {
		t.Fatalf("inner: %s", app.Args[1])
	}
}

func TestLeftAssociativity(t *testing.T) {
	app := parseExpr(t, `1 + 2 + 3`).(*ast.App)
	inner, ok := app.Args[0].(*ast.App)
	if !ok || inner.Fn.(*ast.Id).Name != "+" {
		t.Fatalf("expected left-nested addition, got %s", app.Args[0])
	}
}

func TestBindOperatorBindsLoosest(t *testing.T) {
	app := parseExpr(t, `print("a") &> \u -> print("b")`).(*ast.App)
	if app.Fn.(*ast.Id).Name != "&>" {
		t.Fatalf("outer operator: %s", app.Fn)
	}
	if _, ok := app.Args[1].(*ast.Lam); !ok {
		t.Fatalf("rhs is %T", app.Args[1])
	}
}

func TestRecordLiteral(t *testing.T) {
	rec := parseExpr(t, `{a: 1, b: "two"}`).(*ast.Rec)
	if len(rec.Fields) != 2 {
		t.Fatalf("fields: %d", len(rec.Fields))
	}
	if _, ok := rec.Fields["a"].(*ast.NumLit); !ok {
		t.Fatalf("field a is %T", rec.Fields["a"])
	}
}

func TestRecordDuplicateKey(t *testing.T) {
	p := New(lexer.New(`{a: 1, a: 2}`, "test.lang"))
	p.ParseExpr()
	if p.Err() == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestFieldAccessChain(t *testing.T) {
	acc := parseExpr(t, `x.foo.bar`).(*ast.Acc)
	if acc.Prop != "bar" {
		t.Fatalf("outer prop: %s", acc.Prop)
	}
	inner := acc.Rec.(*ast.Acc)
	if inner.Prop != "foo" {
		t.Fatalf("inner prop: %s", inner.Prop)
	}
}

func TestApplication(t *testing.T) {
	app := parseExpr(t, `f(1, 2)`).(*ast.App)
	if len(app.Args) != 2 {
		t.Fatalf("args: %d", len(app.Args))
	}
}

func TestTagWithPayload(t *testing.T) {
	cons := parseExpr(t, `Ok(42)`).(*ast.Cons)
	if cons.Name != "Ok" || cons.Payload == nil {
		t.Fatalf("cons: %s", cons)
	}
}

func TestNullaryTag(t *testing.T) {
	cons := parseExpr(t, `None`).(*ast.Cons)
	if cons.Name != "None" || cons.Payload != nil {
		t.Fatalf("cons: %s", cons)
	}
}

func TestWhenExpression(t *testing.T) {
	m := parseExpr(t, `when v is Ok(x) -> x; Err(e) -> e`).(*ast.Match)
	if len(m.Cases) != 2 {
		t.Fatalf("cases: %d", len(m.Cases))
	}
	if m.Cases[0].Pattern.Name != "Ok" {
		t.Fatalf("first pattern: %s", m.Cases[0].Pattern)
	}
	if m.Otherwise != nil {
		t.Fatalf("unexpected otherwise")
	}
}

func TestWhenWithElse(t *testing.T) {
	m := parseExpr(t, `when v is Ok(x) -> x else Err`).(*ast.Match)
	if len(m.Cases) != 1 {
		t.Fatalf("cases: %d", len(m.Cases))
	}
	if m.Otherwise == nil {
		t.Fatalf("missing otherwise")
	}
}

func TestWhenNestedPatterns(t *testing.T) {
	m := parseExpr(t, `when v is Pair({x: a, y: b}) -> a`).(*ast.Match)
	pat := m.Cases[0].Pattern
	rec, ok := pat.Payload.(*ast.PatRec)
	if !ok {
		t.Fatalf("payload is %T", pat.Payload)
	}
	if len(rec.Fields) != 2 {
		t.Fatalf("pattern fields: %d", len(rec.Fields))
	}
	got := pat.Binders()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("binders: %v", got)
	}
}

func TestWhenTopLevelPatternMustBeTag(t *testing.T) {
	p := New(lexer.New(`when v is x -> x`, "test.lang"))
	p.ParseExpr()
	if p.Err() == nil {
		t.Fatalf("expected error for non-tag case pattern")
	}
}

func TestListLiteral(t *testing.T) {
	list := parseExpr(t, `[1, 2, 3]`).(*ast.List)
	if len(list.Items) != 3 {
		t.Fatalf("items: %d", len(list.Items))
	}
}

func TestMultilineList(t *testing.T) {
	expr := parseExpr(t, "[1,\n 2,\n 3]")
	if len(expr.(*ast.List).Items) != 3 {
		t.Fatalf("multiline list parse failed: %s", expr)
	}
}

func TestParseErrorsCarryPositions(t *testing.T) {
	p := New(lexer.New(`{a: }`, "test.lang"))
	p.ParseExpr()
	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected errors")
	}
	if want := "test.lang:1:"; len(errs[0]) < len(want) || errs[0][:len(want)] != want {
		t.Fatalf("error lacks position: %s", errs[0])
	}
}
