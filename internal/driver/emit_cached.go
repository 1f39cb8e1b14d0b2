package driver

import (
	"context"

	"quill/internal/backend/cgen"
	"quill/internal/ir"
)

// EmitCached emits a module through the disk cache: a digest hit
// returns the stored artifact, a miss renders in parallel and stores
// the result. The second return reports whether the cache was hit.
// A nil cache degrades to plain parallel emission.
func EmitCached(ctx context.Context, cache *DiskCache, name string, mod *ir.Module, opts cgen.Options) (cgen.Result, bool, error) {
	if cache == nil {
		res, err := EmitParallel(ctx, mod, opts)
		return res, false, err
	}

	key, err := Fingerprint(mod, opts.Policy)
	if err != nil {
		return cgen.Result{}, false, err
	}

	var cached Payload
	hit, err := cache.Get(key, &cached)
	if err != nil {
		return cgen.Result{}, false, err
	}
	if hit {
		return cgen.Result{Source: cached.Source, Imports: cached.Imports}, true, nil
	}

	res, err := EmitParallel(ctx, mod, opts)
	if err != nil {
		return cgen.Result{}, false, err
	}
	err = cache.Put(key, &Payload{
		Name:    name,
		Source:  res.Source,
		Imports: res.Imports,
	})
	if err != nil {
		return cgen.Result{}, false, err
	}
	return res, false, nil
}
