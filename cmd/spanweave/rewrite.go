package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirkon/spanweave/internal/diag"
	"github.com/sirkon/spanweave/internal/weave"
)

type rewriteFlags struct {
	write bool
	jobs  int
}

func newRewriteCommand(flags *globalFlags) *cobra.Command {
	var rf rewriteFlags

	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Wrap selected methods into spans",
		Long: `Rewrite Go files found under the given paths, the current directory by
default. Without --write rewritten sources are printed to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			_, log, err := flags.setup(args)
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			r := &runner{
				weavers: newWeavers(flags, weave.WithLogger(log), weave.WithReporter(diag.NewReporter(log))),
				log:     log,
				jobs:    rf.jobs,
				render:  true,
			}
			results, err := r.run(cmd.Context(), args)
			if err != nil {
				return err
			}

			var changed, methods int
			for _, fr := range results {
				if !fr.result.Changed {
					continue
				}
				changed++
				methods += fr.result.Count(weave.Instrumented)

				if !rf.write {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", fr.path, fr.src); err != nil {
						return err
					}
					continue
				}

				if err := writeFile(fr.path, fr.src); err != nil {
					return err
				}
				log.Info(
					"file rewritten",
					zap.String("path", fr.path),
					zap.Int("methods", fr.result.Count(weave.Instrumented)),
					zap.Bool("entry-point", fr.result.EntryPointInjected),
				)
			}

			log.Info(
				"done",
				zap.Int("files", len(results)),
				zap.Int("changed", changed),
				zap.Int("methods", methods),
			)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&rf.write, "write", "w", false, "write results back to source files")
	cmd.Flags().IntVarP(&rf.jobs, "jobs", "j", defaultJobs(), "number of packages processed in parallel")

	return cmd
}

// writeFile replaces the content of path keeping its permissions. New files
// get the usual ones.
func writeFile(path string, src []byte) error {
	perm := fs.FileMode(0o644)
	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := os.WriteFile(path, src, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
