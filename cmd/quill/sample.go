package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/backend/cgen"
	"quill/internal/driver"
	"quill/internal/ir"
)

var (
	sampleOutput   string
	samplePolicy   string
	sampleUseCache bool
)

func init() {
	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "write the emitted C to a file instead of stdout")
	sampleCmd.Flags().StringVar(&samplePolicy, "policy", "", "expression policy (recompute|single-use-calls)")
	sampleCmd.Flags().BoolVar(&sampleUseCache, "cache", false, "emit through the disk cache")
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Construct the demo module and emit it as C",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := samplePolicy
		output := sampleOutput

		// quill.toml may pin policy and output; explicit flags win.
		manifest, found, err := loadProjectManifest(".")
		if err != nil {
			return err
		}
		if found {
			if policy == "" {
				policy = manifest.Config.Emit.Policy
			}
			if output == "" {
				output = manifest.Config.Emit.Output
			}
		}
		p, err := parsePolicy(policy)
		if err != nil {
			return err
		}
		opts := cgen.Options{Policy: p}

		mod := buildSampleModule()

		var cache *driver.DiskCache
		if sampleUseCache {
			cache, err = driver.OpenDiskCache("quill")
			if err != nil {
				return err
			}
		}
		res, hit, err := driver.EmitCached(cmd.Context(), cache, "sample", mod, opts)
		if err != nil {
			return err
		}
		if hit {
			fmt.Fprintln(cmd.ErrOrStderr(), "cache hit")
		}

		if output == "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Source)
			return nil
		}
		return os.WriteFile(output, []byte(res.Source+"\n"), 0o644)
	},
}

// buildSampleModule constructs the canonical demo: main declares an int
// variable, assigns 21 + 21 into it and prints it with printf.
func buildSampleModule() *ir.Module {
	mod := ir.NewModule()

	fn := ir.NewFunction("main", ir.NewSignature())
	fn.Signature.Returns = ir.PlainType("int")
	v := fn.DeclareVar("my_var", ir.PlainType("int"))

	b, _ := fn.UseBlock(fn.CreateBlock())
	b.RequireImport("stdio.h")

	sum := b.Add(b.ConstInt(21), b.ConstInt(21))
	b.Set(b.UseNamed(v.Named()), sum)

	printf := b.NamedRef("printf")
	b.Call(printf, b.ConstString("%d"), b.UseNamed(v.Named()))
	b.Return(b.ConstInt(0))

	mod.DefineFunction(fn)
	return mod
}
