package object

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Builtins is the fixed catalogue of native functions available to pua
// code, registered once by this package's init function the way the
// spec's Lifecycle section requires. Every entry is reachable under its English name and,
// where the language defines one, its CJK alias — both resolve to the
// identical *Builtin value.
var Builtins = map[string]*Builtin{}

func register(b *Builtin, aliases ...string) {
	Builtins[b.Name] = b
	for _, a := range aliases {
		Builtins[a] = b
	}
}

func init() {
	register(&Builtin{Name: "len", Arity: 1, Fn: builtinLen})
	register(&Builtin{Name: "first", Arity: 1, Fn: builtinFirst})
	register(&Builtin{Name: "last", Arity: 1, Fn: builtinLast})
	register(&Builtin{Name: "rest", Arity: 1, Fn: builtinRest})
	register(&Builtin{Name: "push", Arity: 2, Fn: builtinPush})
	register(&Builtin{Name: "puts", Arity: AnyArity, Fn: builtinPuts}, "输出")
	register(&Builtin{Name: "print", Arity: 1, Fn: builtinPrint}, "聚焦")
	register(&Builtin{Name: "repr", Arity: 1, Fn: builtinRepr}, "复用")
	register(&Builtin{Name: "str", Arity: 1, Fn: builtinStr}, "疏通")
	register(&Builtin{Name: "quit", Arity: AnyArity, Fn: builtinQuit}, "淘汰")
	register(&Builtin{Name: "json_get", Arity: 2, Fn: builtinJSONGet})
	register(&Builtin{Name: "to_json", Arity: 1, Fn: builtinToJSON})
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func builtinLen(w io.Writer, args ...Object) Object {
	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len(arg.Value))}
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	default:
		return newError("argument to `len` not supported, got %s", arg.Inspect())
	}
}

func builtinFirst(w io.Writer, args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return newError("argument to `first` not supported, got %s", args[0].Inspect())
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[0]
}

func builtinLast(w io.Writer, args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return newError("argument to `last` not supported, got %s", args[0].Inspect())
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	return arr.Elements[len(arr.Elements)-1]
}

func builtinRest(w io.Writer, args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return newError("argument to `rest` not supported, got %s", args[0].Inspect())
	}
	if len(arr.Elements) == 0 {
		return NULL
	}
	rest := make([]Object, len(arr.Elements)-1)
	copy(rest, arr.Elements[1:])
	return &Array{Elements: rest}
}

func builtinPush(w io.Writer, args ...Object) Object {
	arr, ok := args[0].(*Array)
	if !ok {
		return newError("argument to `push` not supported, got %s", args[0].Inspect())
	}
	newElems := make([]Object, len(arr.Elements), len(arr.Elements)+1)
	copy(newElems, arr.Elements)
	newElems = append(newElems, args[1])
	return &Array{Elements: newElems}
}

func builtinPuts(w io.Writer, args ...Object) Object {
	for _, arg := range args {
		fmt.Fprintln(w, arg.Inspect())
	}
	return NULL
}

func builtinPrint(w io.Writer, args ...Object) Object {
	s, ok := args[0].(*String)
	if !ok {
		return newError("argument to `print` not supported, got %s", args[0].Inspect())
	}
	fmt.Fprint(w, s.Value)
	return NULL
}

func builtinRepr(w io.Writer, args ...Object) Object {
	return &String{Value: args[0].Inspect()}
}

func builtinStr(w io.Writer, args ...Object) Object {
	if s, ok := args[0].(*String); ok {
		return s
	}
	return &String{Value: args[0].Inspect()}
}

func builtinQuit(w io.Writer, args ...Object) Object {
	if len(args) > 1 {
		return newError("wrong number of arguments. got=%d, want=0 or 1", len(args))
	}
	code := 0
	if len(args) == 1 {
		i, ok := args[0].(*Integer)
		if !ok {
			return newError("argument to `quit` not supported, got %s", args[0].Inspect())
		}
		code = int(i.Value)
	}
	os.Exit(code)
	return NULL // unreachable
}

// builtinJSONGet reads a single value out of a JSON document string
// using a gjson path expression, returning Null for a missing path and
// an Error for a malformed document.
func builtinJSONGet(w io.Writer, args ...Object) Object {
	doc, ok := args[0].(*String)
	if !ok {
		return newError("argument to `json_get` not supported, got %s", args[0].Inspect())
	}
	path, ok := args[1].(*String)
	if !ok {
		return newError("argument to `json_get` not supported, got %s", args[1].Inspect())
	}
	if !gjson.Valid(doc.Value) {
		return newError("argument to `json_get` not supported, got malformed json")
	}
	result := gjson.Get(doc.Value, path.Value)
	if !result.Exists() {
		return NULL
	}
	return fromGJSON(result)
}

func fromGJSON(r gjson.Result) Object {
	switch {
	case r.IsArray():
		var elems []Object
		for _, sub := range r.Array() {
			elems = append(elems, fromGJSON(sub))
		}
		return &Array{Elements: elems}
	case r.IsObject():
		pairs := make(map[HashKey]HashPair)
		r.ForEach(func(key, value gjson.Result) bool {
			k := &String{Value: key.String()}
			pairs[k.HashKey()] = HashPair{Key: k, Value: fromGJSON(value)}
			return true
		})
		return &Hash{Pairs: pairs}
	case r.Type == gjson.Number:
		return &Integer{Value: r.Int()}
	case r.Type == gjson.True, r.Type == gjson.False:
		return NativeBoolToBooleanObject(r.Bool())
	case r.Type == gjson.String:
		return &String{Value: r.Str}
	default:
		return NULL
	}
}

// builtinToJSON serializes an Array/Hash/Integer/String/Boolean/Null
// value tree into a JSON document string, building it up incrementally
// with sjson.SetRaw the way the library is meant to be used for
// composing documents from already-encoded fragments.
func builtinToJSON(w io.Writer, args ...Object) Object {
	doc, err := toJSON(args[0])
	if err != nil {
		return newError("argument to `to_json` not supported, got %s", args[0].Inspect())
	}
	return &String{Value: doc}
}

func toJSON(obj Object) (string, error) {
	switch v := obj.(type) {
	case *Integer:
		return strconv.FormatInt(v.Value, 10), nil
	case *Boolean:
		return strconv.FormatBool(v.Value), nil
	case *Null:
		return "null", nil
	case *String:
		encoded, err := sjson.Set("{}", "v", v.Value)
		if err != nil {
			return "", err
		}
		return gjson.Get(encoded, "v").Raw, nil
	case *Array:
		doc := "[]"
		for i, elem := range v.Elements {
			elemJSON, err := toJSON(elem)
			if err != nil {
				return "", err
			}
			doc, err = sjson.SetRaw(doc, strconv.Itoa(i), elemJSON)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	case *Hash:
		doc := "{}"
		var err error
		for _, pair := range v.Pairs {
			valJSON, terr := toJSON(pair.Value)
			if terr != nil {
				return "", terr
			}
			doc, err = sjson.SetRaw(doc, pair.Key.Inspect(), valJSON)
			if err != nil {
				return "", err
			}
		}
		return doc, nil
	default:
		return "", fmt.Errorf("unsupported type %s", obj.Type())
	}
}
