package rules

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/suderio/bestiary/internal/data"
	"github.com/suderio/bestiary/internal/dice"
)

// Registry manages the CEL environment and provides helper methods for evaluation.
type Registry struct {
	env *cel.Env
}

// NewRegistry initializes the CEL environment with the creature variable
// and the dice helpers avg and mod.
func NewRegistry() (*Registry, error) {
	env, err := cel.NewEnv(
		cel.Variable("creature", cel.MapType(cel.StringType, cel.DynType)),

		cel.Function("avg",
			cel.Overload("avg_string",
				[]*cel.Type{cel.StringType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					s, ok := arg.Value().(string)
					if !ok {
						return types.MaybeNoSuchOverloadErr(arg)
					}
					e, err := dice.ParseExpression(s)
					if err != nil {
						return types.NewErr("avg: %v", err)
					}
					return types.Int(e.Average())
				}),
			),
		),
		cel.Function("mod",
			cel.Overload("mod_int",
				[]*cel.Type{cel.IntType},
				cel.IntType,
				cel.UnaryBinding(func(arg ref.Val) ref.Val {
					n, ok := arg.Value().(int64)
					if !ok {
						return types.MaybeNoSuchOverloadErr(arg)
					}
					return types.Int(data.AbilityModifier(int(n)))
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Registry{env: env}, nil
}

// Eval executes a CEL expression against the provided context.
func (r *Registry) Eval(expression string, context map[string]any) (any, error) {
	ast, iss := r.env.Compile(expression)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	prog, err := r.env.Program(ast)
	if err != nil {
		return nil, err
	}
	out, _, err := prog.Eval(context)
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// Check evaluates every expectation of c. The returned error joins one
// *Failure per expectation that is false or does not evaluate to a bool.
func (r *Registry) Check(c *data.Creature) error {
	ctx := map[string]any{"creature": ContextFromCreature(c)}
	var errs []error
	for _, expr := range c.Expect {
		out, err := r.Eval(expr, ctx)
		switch {
		case err != nil:
			errs = append(errs, &Failure{Expression: expr, Err: err})
		case out != true:
			if _, ok := out.(bool); !ok {
				errs = append(errs, &Failure{Expression: expr, Err: fmt.Errorf("%w, got %T", ErrNotBoolean, out)})
				continue
			}
			errs = append(errs, &Failure{Expression: expr, Err: ErrExpectationFailed})
		}
	}
	return errors.Join(errs...)
}
