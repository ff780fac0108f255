package caption

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/k1LoW/memegen/config"
)

// compileRules turns configured rules into matchers. Each condition is a CEL
// expression over the lowercased `topic` string and must evaluate to a bool.
func compileRules(rules []config.CaptionRule) ([]rule, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	env, err := cel.NewEnv(cel.Variable("topic", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	compiled := make([]rule, 0, len(rules))
	for _, r := range rules {
		ast, issues := env.Compile(r.If)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("caption rule compilation error for '%s': %w", r.If, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("caption rule '%s' must evaluate to bool, got %s", r.If, ast.OutputType())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("caption rule program creation error for '%s': %w", r.If, err)
		}
		captions := make([]Caption, 0, len(r.Captions))
		for _, c := range r.Captions {
			captions = append(captions, Caption{TopText: c.Top, BottomText: c.Bottom})
		}
		compiled = append(compiled, rule{
			match: func(topic string) bool {
				out, _, err := prg.Eval(map[string]any{"topic": topic})
				if err != nil {
					return false
				}
				v, ok := out.Value().(bool)
				return ok && v
			},
			captions: captions,
		})
	}
	return compiled, nil
}
