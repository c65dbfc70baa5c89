package reports

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// DefaultLowStockRule flags products at or below their minimum.
const DefaultLowStockRule = "current_stock <= min_stock"

// LowStockRule is a compiled CEL predicate over a product's
// current_stock, min_stock and category.
type LowStockRule struct {
	expr    string
	program cel.Program
}

// NewLowStockRule compiles expr. An empty expr selects DefaultLowStockRule.
func NewLowStockRule(expr string) (*LowStockRule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultLowStockRule
	}

	env, err := cel.NewEnv(
		cel.Variable("current_stock", cel.IntType),
		cel.Variable("min_stock", cel.IntType),
		cel.Variable("category", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("low-stock rule env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile low-stock rule %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("low-stock rule %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program low-stock rule: %w", err)
	}

	return &LowStockRule{expr: expr, program: prg}, nil
}

// String returns the rule source.
func (r *LowStockRule) String() string {
	return r.expr
}

// Match evaluates the rule against one stock row.
func (r *LowStockRule) Match(row StockRow) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"current_stock": row.CurrentStock,
		"min_stock":     row.MinStock,
		"category":      row.Category,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate low-stock rule for product %d: %w", row.ProductID, err)
	}

	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("low-stock rule returned %T", out.Value())
	}
	return matched, nil
}
