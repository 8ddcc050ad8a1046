// Package filter evaluates boolean expressions against search results, so
// that server-side hits can be narrowed client-side (e.g. on the command
// line: --filter 'contains(Title, "python") and Year >= "2020"').
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jvanvinkenroye/swb/sru"
)

// CompiledFilter is a compiled, reusable predicate over search results.
type CompiledFilter interface {
	// Evaluate reports whether the record matches. Records that cause an
	// evaluation error are treated as non-matching.
	Evaluate(result sru.SearchResult) bool

	// Expression returns the original expression text.
	Expression() string
}

// exprFilter implements CompiledFilter using the expr language.
type exprFilter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable filter.
func Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	// Compile with a static environment for validation.
	program, err := expr.Compile(expression,
		expr.Env(helperFunctions()),
		expr.AllowUndefinedVariables(), // record properties are added at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &exprFilter{expression: expression, program: program}, nil
}

// Apply keeps the results matching the compiled filter, preserving order.
func Apply(f CompiledFilter, results []sru.SearchResult) []sru.SearchResult {
	kept := make([]sru.SearchResult, 0, len(results))
	for _, r := range results {
		if f.Evaluate(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

func (f *exprFilter) Evaluate(result sru.SearchResult) bool {
	env := runtimeEnvironment(result)

	out, err := expr.Run(f.program, env)
	if err != nil {
		// Records the expression cannot evaluate against are skipped.
		return false
	}

	// Guaranteed bool by the AsBool compile option.
	return out.(bool)
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// helperFunctions builds the static helpers available during compilation.
func helperFunctions() map[string]any {
	env := make(map[string]any, 8)
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	return env
}

// runtimeEnvironment builds the evaluation environment for one record.
func runtimeEnvironment(result sru.SearchResult) map[string]any {
	env := helperFunctions()

	env["RecordID"] = result.RecordID
	env["Title"] = result.Title
	env["Author"] = result.Author
	env["Year"] = result.Year
	env["Publisher"] = result.Publisher
	env["ISBN"] = result.ISBN
	env["Format"] = result.Format.String()

	libraries := make([]string, 0, len(result.Holdings))
	for _, h := range result.Holdings {
		libraries = append(libraries, h.LibraryCode)
	}
	env["Libraries"] = libraries
	env["heldBy"] = func(code string) bool {
		for _, l := range libraries {
			if strings.EqualFold(l, code) {
				return true
			}
		}
		return false
	}

	return env
}
