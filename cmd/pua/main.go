// Command pua runs the pua interpreter: given a file argument it
// executes that file and exits; given none it starts the interactive
// REPL.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/pua-lang/pua-go/evaluator"
	"github.com/pua-lang/pua-go/internal/repl"
	"github.com/pua-lang/pua-go/lexer"
	"github.com/pua-lang/pua-go/object"
	"github.com/pua-lang/pua-go/parser"
)

const prompt = "pua >> "

var redColor = color.New(color.FgRed)

func main() {
	inline := flag.String("e", "", "evaluate a one-shot expression instead of a file or the REPL")
	flag.Parse()

	if *inline != "" {
		runSource(*inline)
		return
	}
	if flag.NArg() > 0 {
		runFile(flag.Arg(0))
		return
	}
	repl.New(prompt).Start(os.Stdout)
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("could not read file %q: %v", path, err)
	}
	runSource(string(source))
}

func runSource(source string) {
	p := parser.New(lexer.New(source))
	program := p.Parse()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			redColor.Fprintln(os.Stderr, e.Error())
		}
		os.Exit(1)
	}

	env := object.NewEnvironment()
	result := evaluator.New().Eval(program, env)
	if result != nil && result.Type() == object.ERROR_OBJ {
		redColor.Fprintln(os.Stderr, result.Inspect())
		os.Exit(1)
	}
}
