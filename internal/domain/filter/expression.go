package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"stockview/internal/core/apperror"
)

// Expression is a compiled CEL predicate over a view-model.
// The view-model's filter fields are bound to the variable "item", e.g.
//
//	item.status == "ready" && item.operations > 2
type Expression struct {
	source  string
	program cel.Program
}

var celEnv = mustEnv()

func mustEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("item", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("filter: build CEL environment: %v", err))
	}
	return env
}

// Compile parses and checks a CEL expression. An empty source yields nil.
func Compile(source string) (*Expression, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}
	ast, iss := celEnv.Compile(source)
	if iss != nil && iss.Err() != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", source).
			WithDetail("error", iss.Err().Error())
	}
	prg, err := celEnv.Program(ast)
	if err != nil {
		return nil, apperror.NewValidation("invalid filter expression").
			WithDetail("expression", source).
			WithCause(err)
	}
	return &Expression{source: source, program: prg}, nil
}

// String returns the expression source.
func (e *Expression) String() string { return e.source }

// Match evaluates the expression against s.
func (e *Expression) Match(s Subject) (bool, error) {
	out, _, err := e.program.Eval(map[string]any{"item": s.FilterFields()})
	if err != nil {
		return false, apperror.NewValidation("filter expression failed").
			WithDetail("expression", e.source).
			WithDetail("error", err.Error())
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, apperror.NewValidation("filter expression must return a boolean").
			WithDetail("expression", e.source)
	}
	return b, nil
}
