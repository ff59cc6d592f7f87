package gate

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

// Gate is a compiled CEL condition evaluated against scan findings.
//
// Expressions see three variables:
//
//	findings  list of maps with keys severity, title, description, line, has_code, rank
//	counts    map of lower-case severity to number of findings, plus "unknown" and "total"
//	contract  the contract name
//
// Example: counts["critical"] > 0 || findings.exists(f, f.severity == "HIGH" && f.line > 0)
type Gate struct {
	expr    string
	program cel.Program
}

// Compile parses and type-checks expr. The expression must evaluate to a bool.
func Compile(expr string) (*Gate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("gate expression is empty")
	}

	env, err := cel.NewEnv(
		cel.Variable("findings", cel.ListType(cel.MapType(cel.StringType, cel.DynType))),
		cel.Variable("counts", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("contract", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gate environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid gate expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("gate expression must evaluate to bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build gate program: %w", err)
	}
	return &Gate{expr: expr, program: prg}, nil
}

// String returns the source expression.
func (g *Gate) String() string {
	return g.expr
}

// Evaluate reports whether the condition holds for the findings of contract.
func (g *Gate) Evaluate(contract string, list []findings.Finding) (bool, error) {
	out, _, err := g.program.Eval(map[string]interface{}{
		"findings": toValues(list),
		"counts":   toCounts(list),
		"contract": contract,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate gate %q: %w", g.expr, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("gate %q returned %T, not bool", g.expr, out.Value())
	}
	return matched, nil
}

func toValues(list []findings.Finding) []interface{} {
	values := make([]interface{}, 0, len(list))
	for _, f := range list {
		values = append(values, map[string]interface{}{
			"severity":    f.Severity.String(),
			"title":       f.Title,
			"description": f.Description,
			"line":        int64(f.Line()),
			"has_code":    f.HasCode(),
			"rank":        int64(f.Severity.Rank()),
		})
	}
	return values
}

func toCounts(list []findings.Finding) map[string]int64 {
	counts := make(map[string]int64)
	for k, v := range findings.SeverityBreakdown(list) {
		counts[k] = int64(v)
	}
	return counts
}
