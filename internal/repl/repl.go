// Package repl implements the interactive read-eval-print loop for pua.
// Line editing, history, and prompt colouring are deliberately treated as
// external collaborators here, not core interpreter logic: they consume
// the lexer/parser/evaluator only through their public contracts.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/pua-lang/pua-go/evaluator"
	"github.com/pua-lang/pua-go/lexer"
	"github.com/pua-lang/pua-go/object"
	"github.com/pua-lang/pua-go/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

const banner = `
         ___
 _ __  _   _  __ _
| '_ \| | | |/ _' |
| |_) | |_| | (_| |
| .__/ \__,_|\__,_|
|_|
`

// Repl is one interactive session: its own evaluator and environment
// persist across lines, so a `let` on one line is visible on the next.
type Repl struct {
	Prompt string
}

// New creates a Repl with the given prompt string (e.g. "pua >> ").
func New(prompt string) *Repl {
	return &Repl{Prompt: prompt}
}

func (r *Repl) printBanner(writer io.Writer) {
	blueColor.Fprintln(writer, strings.Repeat("-", 40))
	greenColor.Fprintln(writer, banner)
	blueColor.Fprintln(writer, strings.Repeat("-", 40))
	cyanColor.Fprintln(writer, "Type pua code and press enter. Type '.exit' to quit.")
	blueColor.Fprintln(writer, strings.Repeat("-", 40))
}

// Start runs the loop until '.exit', EOF (Ctrl+D), or a readline error. A
// statement left incomplete at end of input (e.g. an unterminated `if`)
// prompts for a continuation line instead of reporting a hard parse
// error, recognized by the parser's trailing error having Got == lexer.EOF.
func (r *Repl) Start(writer io.Writer) {
	r.printBanner(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	env := object.NewEnvironment()
	ev := evaluator.New()
	ev.SetWriter(writer)

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good bye!\n"))
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good bye!\n"))
			return
		}

		source, ok := r.readCompleteProgram(rl, line)
		if !ok {
			continue
		}
		rl.SaveHistory(source)
		r.evalAndPrint(writer, ev, env, source)
	}
}

// readCompleteProgram re-parses the accumulated source after every line
// and, so long as the only problem is incomplete input at EOF, keeps
// reading continuation lines from rl under a "... " prompt. It gives up
// and returns the accumulated source (for evalAndPrint to report real
// parse errors on) once the input is either complete or has a non-EOF
// parse error.
func (r *Repl) readCompleteProgram(rl *readline.Instance, first string) (string, bool) {
	source := first
	rl.SetPrompt("... ")
	defer rl.SetPrompt(r.Prompt)

	for {
		p := parser.New(lexer.New(source))
		p.Parse()
		errs := p.Errors()
		if len(errs) == 0 {
			return source, true
		}
		last := errs[len(errs)-1]
		if last.Got != lexer.EOF {
			return source, true
		}

		cont, err := rl.Readline()
		if err != nil {
			return source, true
		}
		source += "\n" + cont
	}
}

func (r *Repl) evalAndPrint(writer io.Writer, ev *evaluator.Evaluator, env *object.Environment, source string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[runtime error] %v\n", recovered)
		}
	}()

	p := parser.New(lexer.New(source))
	program := p.Parse()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			redColor.Fprintf(writer, "%s\n", e.Error())
		}
		return
	}

	result := ev.Eval(program, env)
	if result == nil {
		return
	}
	if result.Type() == object.ERROR_OBJ {
		redColor.Fprintf(writer, "%s\n", result.Inspect())
		return
	}
	yellowColor.Fprintf(writer, "%s\n", result.Inspect())
}
