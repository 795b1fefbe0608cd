// Package evaluator tree-walks an *ast.Program and produces object.Object
// runtime values, implementing the language's dynamic semantics: binding,
// closures, arithmetic/comparison/logical operators, control flow, and the
// builtin catalogue registered in the object package.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/pua-lang/pua-go/ast"
	"github.com/pua-lang/pua-go/object"
)

// NULL, TRUE, and FALSE are aliases for the object package's canonical
// singletons. Every path that produces a null or boolean value — here
// and in object.Builtins — must return one of these three pointers, not
// a fresh &object.Null{}/&object.Boolean{}, since isTruthy,
// evalBangOperatorExpression, and the generic `==`/`!=` fallback all
// dispatch by pointer identity against them.
var (
	NULL  = object.NULL
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator holds everything evaluation needs beyond the environment chain:
// currently just where puts/print send their output. Builtins are looked up
// directly from object.Builtins, which is populated once at package init.
type Evaluator struct {
	Writer io.Writer
}

// New creates an Evaluator that writes builtin output to os.Stdout.
func New() *Evaluator {
	return &Evaluator{Writer: os.Stdout}
}

// SetWriter redirects builtin output (puts/print), mainly for tests that
// want to capture it instead of printing to the real stdout.
func (e *Evaluator) SetWriter(w io.Writer) {
	e.Writer = w
}

// Eval dispatches on the dynamic type of node and returns the resulting
// Object. Errors and ReturnValues are returned like any other Object; it is
// the caller's responsibility (evalProgram, evalBlockStatement, function
// application) to recognize and act on them at the right boundary.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.BlankStatement:
		return NULL
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.LetStatement:
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(node.Name.Value, val)
		return NULL
	case *ast.ReturnStatement:
		val := e.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)

	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}
	case *ast.StringLiteral:
		return &object.String{Value: node.Value}
	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.ArrayLiteral:
		elements := e.evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &object.Array{Elements: elements}
	case *ast.HashLiteral:
		return e.evalHashLiteral(node, env)

	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)
	case *ast.IndexExpression:
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if isError(index) {
			return index
		}
		return e.evalIndexExpression(left, index)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.FunctionLiteral:
		return &object.Function{Parameters: node.Parameters, Body: node.Body, Env: env}
	case *ast.CallExpression:
		fn := e.Eval(node.Function, env)
		if isError(fn) {
			return fn
		}
		args := e.evalExpressions(node.Arguments, env)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return e.applyFunction(fn, args)
	}
	return NULL
}

// evalProgram runs every top-level statement, unwrapping a ReturnValue that
// reaches the top (a bare `return` at program scope simply ends evaluation
// with that value) and stopping immediately on an Error.
func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = NULL

	for _, stmt := range program.Statements {
		if _, ok := stmt.(*ast.BlankStatement); ok {
			continue
		}
		result = e.Eval(stmt, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value
		case *object.Error:
			return result
		}
	}
	return result
}

// evalBlockStatement runs a block's statements but, unlike evalProgram,
// does NOT unwrap a ReturnValue — it must keep propagating upward unchanged
// so the enclosing function call (not this block) is what unwraps it. This
// is what lets `return` inside a nested if-block escape all the way out.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	var result object.Object = NULL

	for _, stmt := range block.Statements {
		if _, ok := stmt.(*ast.BlankStatement); ok {
			continue
		}
		result = e.Eval(stmt, env)

		if result != nil {
			rt := result.Type()
			if rt == object.RETURN_VALUE_OBJ || rt == object.ERROR_OBJ {
				return result
			}
		}
	}
	return result
}

func (e *Evaluator) evalExpressions(exprs []ast.Expression, env *object.Environment) []object.Object {
	var result []object.Object
	for _, expr := range exprs {
		evaluated := e.Eval(expr, env)
		if isError(evaluated) {
			return []object.Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := object.Builtins[node.Value]; ok {
		return builtin
	}
	return newError("identifier not found: " + node.Value)
}

func (e *Evaluator) evalIfExpression(ie *ast.IfExpression, env *object.Environment) object.Object {
	condition := e.Eval(ie.Condition, env)
	if isError(condition) {
		return condition
	}
	if isTruthy(condition) {
		return e.Eval(ie.Consequence, env)
	}
	if ie.Alternative != nil {
		return e.Eval(ie.Alternative, env)
	}
	return NULL
}

func (e *Evaluator) applyFunction(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return newError("wrong number of arguments: %d expected but %d given", len(fn.Parameters), len(args))
		}
		extendedEnv := extendFunctionEnv(fn, args)
		evaluated := e.Eval(fn.Body, extendedEnv)
		return unwrapReturnValue(evaluated)
	case *object.Builtin:
		if fn.Arity != object.AnyArity && len(args) != fn.Arity {
			return newError("wrong number of arguments. got=%d, want=%d", len(args), fn.Arity)
		}
		return fn.Fn(e.Writer, args...)
	default:
		return newError("%s is not valid function", fn.Inspect())
	}
}

func extendFunctionEnv(fn *object.Function, args []object.Object) *object.Environment {
	env := object.NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		env.Set(param.Value, args[i])
	}
	return env
}

func unwrapReturnValue(obj object.Object) object.Object {
	if rv, ok := obj.(*object.ReturnValue); ok {
		return rv.Value
	}
	return obj
}

func nativeBoolToBooleanObject(b bool) *object.Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

func isTruthy(obj object.Object) bool {
	switch obj {
	case NULL, FALSE:
		return false
	case TRUE:
		return true
	default:
		return true
	}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}
