package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"quill/internal/backend/cgen"
	"quill/internal/ir"
)

type funcResult struct {
	text    string
	imports []string
}

// EmitParallel renders each function of the module in its own goroutine
// and merges the results in declaration order, so the output is
// byte-identical to sequential cgen.EmitModule. Emission is read-only
// over the module, which makes the fan-out safe without locking.
func EmitParallel(ctx context.Context, mod *ir.Module, opts cgen.Options) (cgen.Result, error) {
	e := cgen.New(mod, opts)
	results := make([]funcResult, len(mod.Funcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, f := range mod.Funcs {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			text, imports, err := e.CompileFunction(f)
			if err != nil {
				return err
			}
			// Index-addressed slot; no shared state between goroutines.
			results[i] = funcResult{text: text, imports: imports}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cgen.Result{}, err
	}

	texts := make([]string, 0, len(results))
	var imports []string
	for _, r := range results {
		texts = append(texts, r.text)
		imports = cgen.MergeImports(imports, r.imports)
	}
	return cgen.Result{
		Source:  cgen.Assemble(texts, imports),
		Imports: imports,
	}, nil
}
