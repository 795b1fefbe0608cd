package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pua-lang/pua-go/lexer"
	"github.com/pua-lang/pua-go/object"
	"github.com/pua-lang/pua-go/parser"
)

func testEval(t *testing.T, input string) object.Object {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.Parse()
	require.Empty(t, p.Errors(), "parser errors: %v", p.Errors())
	env := object.NewEnvironment()
	return New().Eval(program, env)
}

func testInteger(t *testing.T, obj object.Object, want int64) {
	t.Helper()
	i, ok := obj.(*object.Integer)
	require.True(t, ok, "expected *object.Integer, got %T (%+v)", obj, obj)
	assert.Equal(t, want, i.Value)
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"5", 5},
		{"-5", -5},
		{"5 + 5 + 5 + 5 - 10", 10},
		{"2 * 2 * 2 * 2 * 2", 32},
		{"-50 + 100 + -50", 0},
		{"5 * 2 + 10", 20},
		{"5 + 2 * 10", 25},
		{"20 + 2 * -10", 0},
		{"(5 + 10 * 2 + 15 / 3) * 2 + -10", 50},
	}
	for _, tt := range tests {
		testInteger(t, testEval(t, tt.input), tt.want)
	}
}

func TestBooleanAndBang(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"false", false},
		{"1 < 2", true},
		{"1 > 2", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"true == true", true},
		{"true != false", true},
		{"(1 < 2) == true", true},
		{"!true", false},
		{"!!true", true},
		{"!5", false},
	}
	for _, tt := range tests {
		b, ok := testEval(t, tt.input).(*object.Boolean)
		require.True(t, ok, tt.input)
		assert.Equal(t, tt.want, b.Value, tt.input)
	}
}

func TestIfElseExpressions(t *testing.T) {
	assert.IsType(t, &object.Null{}, testEval(t, "if (false) { 10 }"))
	testInteger(t, testEval(t, "if (true) { 10 }"), 10)
	testInteger(t, testEval(t, "if (1 < 2) { 10 } else { 20 }"), 10)
	testInteger(t, testEval(t, "if (1 > 2) { 10 } else { 20 }"), 20)
}

func TestReturnPropagation(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"return 10;", 10},
		{"return 10; 9;", 10},
		{"return 2 * 5; 9;", 10},
		{"9; return 2 * 5; 9;", 10},
		{"if (10 > 1) { if (10 > 1) { return 10; } return 1; }", 10},
	}
	for _, tt := range tests {
		testInteger(t, testEval(t, tt.input), tt.want)
	}
}

func TestErrorHandling(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5 + true;", "type mismatch: INTEGER + BOOLEAN"},
		{"5 + true; 5;", "type mismatch: INTEGER + BOOLEAN"},
		{"-true", "unknown operator: -BOOLEAN"},
		{"true + false;", "unknown operator: BOOLEAN + BOOLEAN"},
		{"5; true + false; 5", "unknown operator: BOOLEAN + BOOLEAN"},
		{"if (10 > 1) { true + false; }", "unknown operator: BOOLEAN + BOOLEAN"},
		{
			"if (10 > 1) { if (10 > 1) { return true + false; } return 1; }",
			"unknown operator: BOOLEAN + BOOLEAN",
		},
		{"foobar", "identifier not found: foobar"},
		{`"Hello" - "World"`, "unknown operator: STRING - STRING"},
		{`{"name": "Monkey"}[fn(x){x}];`, "unusable as hash key: FUNCTION"},
	}
	for _, tt := range tests {
		errObj, ok := testEval(t, tt.input).(*object.Error)
		require.True(t, ok, tt.input)
		assert.Equal(t, tt.want, errObj.Message, tt.input)
	}
}

func TestLetStatements(t *testing.T) {
	testInteger(t, testEval(t, "let a = 5; a;"), 5)
	testInteger(t, testEval(t, "let a = 5 * 5; a;"), 25)
	testInteger(t, testEval(t, "let a = 5; let b = a; b;"), 5)
	testInteger(t, testEval(t, "let a = 5; let b = a; let c = a + b + 5; c;"), 15)
}

func TestFunctionApplicationAndClosures(t *testing.T) {
	testInteger(t, testEval(t, "let identity = fn(x) { x; }; identity(5);"), 5)
	testInteger(t, testEval(t, "let identity = fn(x) { return x; }; identity(5);"), 5)
	testInteger(t, testEval(t, "let double = fn(x) { x * 2; }; double(5);"), 10)
	testInteger(t, testEval(t, "let add = fn(x, y) { x + y; }; add(5, 5);"), 10)
	testInteger(t, testEval(t, "let add = fn(x, y) { x + y; }; add(5 + 5, add(5, 5));"), 20)
	testInteger(t, testEval(t, "fn(x) { x; }(5)"), 5)

	closures := `
	let newAdder = fn(x) {
		fn(y) { x + y };
	};
	let addTwo = newAdder(2);
	addTwo(2);`
	testInteger(t, testEval(t, closures), 4)
}

func TestRecursiveFibonacci(t *testing.T) {
	input := `
	let fib = fn(n) {
		if (n == 0) { return 0; };
		if (n == 1) { return 1; };
		return fib(n - 1) + fib(n - 2);
	};
	fib(10);`
	testInteger(t, testEval(t, input), 55)
}

func TestStringConcatenation(t *testing.T) {
	s, ok := testEval(t, `"Hello" + " " + "World!"`).(*object.String)
	require.True(t, ok)
	assert.Equal(t, "Hello World!", s.Value)
}

func TestArrayLiteralsAndIndexing(t *testing.T) {
	arr, ok := testEval(t, "[1, 2 * 2, 3 + 3]").(*object.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 3)
	testInteger(t, arr.Elements[0], 1)
	testInteger(t, arr.Elements[1], 4)
	testInteger(t, arr.Elements[2], 6)

	testInteger(t, testEval(t, "[1, 2, 3][0]"), 1)
	testInteger(t, testEval(t, "[1, 2, 3][1]"), 2)
	testInteger(t, testEval(t, "let i = 0; [1][i];"), 1)
	testInteger(t, testEval(t, "[1, 2, 3][1 + 1];"), 3)
	assert.IsType(t, &object.Null{}, testEval(t, "[1, 2, 3][3]"))
	assert.IsType(t, &object.Null{}, testEval(t, "[1, 2, 3][-1]"))
}

func TestHashLiteralsAndIndexing(t *testing.T) {
	hash, ok := testEval(t, `{"one": 1, "two": 2, "three": 3}`).(*object.Hash)
	require.True(t, ok)
	assert.Len(t, hash.Pairs, 3)

	testInteger(t, testEval(t, `{"foo": 5}["foo"]`), 5)
	assert.IsType(t, &object.Null{}, testEval(t, `{"foo": 5}["bar"]`))
	testInteger(t, testEval(t, `let key = "foo"; {"foo": 5}[key]`), 5)
	testInteger(t, testEval(t, `{5: 5}[5]`), 5)
	testInteger(t, testEval(t, `{true: 5}[true]`), 5)

	errObj, ok := testEval(t, `{"name": "Monkey"}[fn(x){x}];`).(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "unusable as hash key: FUNCTION", errObj.Message)
}

func TestBuiltinFunctions(t *testing.T) {
	testInteger(t, testEval(t, `len("")`), 0)
	testInteger(t, testEval(t, `len("four")`), 4)
	testInteger(t, testEval(t, `len([1, 2, 3])`), 3)

	errObj, ok := testEval(t, `len(1)`).(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "argument to `len` not supported, got 1", errObj.Message)

	errObj, ok = testEval(t, `len("one", "two")`).(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "wrong number of arguments. got=2, want=1", errObj.Message)

	assert.IsType(t, &object.Null{}, testEval(t, `first([])`))
	testInteger(t, testEval(t, `first([1, 2, 3])`), 1)
	testInteger(t, testEval(t, `last([1, 2, 3])`), 3)

	rest, ok := testEval(t, `rest([1, 2, 3])`).(*object.Array)
	require.True(t, ok)
	require.Len(t, rest.Elements, 2)
	testInteger(t, rest.Elements[0], 2)

	pushed, ok := testEval(t, `push([1, 2], 3)`).(*object.Array)
	require.True(t, ok)
	require.Len(t, pushed.Elements, 3)
	testInteger(t, pushed.Elements[2], 3)
}

func TestWrongArgumentCountForUserFunctions(t *testing.T) {
	errObj, ok := testEval(t, `let add = fn(x, y) { x + y }; add(1);`).(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "wrong number of arguments: 2 expected but 1 given", errObj.Message)
}

func TestCallingNonFunction(t *testing.T) {
	errObj, ok := testEval(t, `let notFn = 5; notFn(1);`).(*object.Error)
	require.True(t, ok)
	assert.Equal(t, "5 is not valid function", errObj.Message)
}

func TestCJKProgramEvaluatesSameAsASCII(t *testing.T) {
	ascii := testEval(t, "let fib = fn(n) { if (n == 0) { return 0; }; if (n == 1) { return 1; }; return fib(n-1) + fib(n-2); }; fib(2);")
	cjk := testEval(t, "赋能 fib = 抓手(n) { 细分 (n 对齐 0) { 反哺 0; }; 细分 (n 对齐 1) { 反哺 1; }; 反哺 fib(n-1) + fib(n-2); }; fib(2);")
	testInteger(t, ascii, 1)
	testInteger(t, cjk, 1)
}

func TestJSONBuiltins(t *testing.T) {
	s, ok := testEval(t, `json_get("{\"name\": \"pua\", \"n\": 3}", "name")`).(*object.String)
	require.True(t, ok)
	assert.Equal(t, "pua", s.Value)

	testInteger(t, testEval(t, `json_get("{\"n\": 3}", "n")`), 3)
	assert.IsType(t, &object.Null{}, testEval(t, `json_get("{\"n\": 3}", "missing")`))

	out, ok := testEval(t, `to_json([1, 2, 3])`).(*object.String)
	require.True(t, ok)
	assert.JSONEq(t, "[1,2,3]", out.Value)
}
