package mono

import (
	"fmt"
	"strings"

	"github.com/siko-lang/sikoc/internal/hir"
)

// normalizePath turns a dot-separated module/function path into a
// mnemonic-safe identifier fragment (spec §4.3 step 6 "path separators
// normalized").
func normalizePath(s string) string {
	return strings.ReplaceAll(s, ".", "_")
}

// functionBasePath returns the qualified, normalized name the lambda
// mnemonic is derived from: a named function's module.name, or (for a
// lambda nested inside another lambda) the enclosing lambda's own
// mnemonic computed recursively.
func functionBasePath(prog *hir.Program, id hir.FunctionID) string {
	fn := prog.Function(id)
	if fn == nil {
		return fmt.Sprintf("fn%d", id)
	}
	switch fn.Kind {
	case hir.FunctionNamed:
		mod, _ := prog.Modules.Get(fn.Named.Module)
		return normalizePath(mod) + "_" + normalizePath(fn.Named.Name)
	case hir.FunctionLambda:
		return lambdaName(prog, fn.Lambda)
	case hir.FunctionVariantConstructor, hir.FunctionRecordConstructor:
		return fmt.Sprintf("ctor%d", id)
	default:
		return fmt.Sprintf("fn%d", id)
	}
}

// lambdaName computes the deterministic mnemonic name for lam, derived
// from its host function's path and its index among the host's
// lambdas (spec §4.3 step 6; §8 scenario 6).
func lambdaName(prog *hir.Program, lam *hir.Lambda) string {
	host := functionBasePath(prog, lam.Host)
	return fmt.Sprintf("%s_lambda%d", host, lam.Index)
}
