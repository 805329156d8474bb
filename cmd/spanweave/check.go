package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sirkon/spanweave/internal/weave"
)

func newCheckCommand(flags *globalFlags) *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "List what rewrite would do",
		Long: `List every method of eligible files under the given paths together with
what rewrite would do to it. Nothing is written.`,
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
				weavers: newWeavers(flags, weave.WithLogger(log)),
				log:     log,
				jobs:    jobs,
			}
			results, err := r.run(cmd.Context(), args)
			if err != nil {
				return err
			}

			for _, fr := range results {
				if err := printOutcomes(cmd.OutOrStdout(), fr.result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultJobs(), "number of packages processed in parallel")

	return cmd
}

func printOutcomes(w io.Writer, res *weave.Result) error {
	for _, m := range res.Methods {
		var detail string
		switch m.Outcome {
		case weave.Instrumented:
			detail = fmt.Sprintf("%s as %s span %q", m.Outcome, m.Shape, m.SpanName)
		case weave.Excluded:
			detail = fmt.Sprintf("%s (%s)", m.Outcome, m.Verdict)
		default:
			detail = m.Outcome.String()
		}

		if _, err := fmt.Fprintf(w, "%s: %s.%s: %s\n", m.Pos, m.Class, m.Name, detail); err != nil {
			return err
		}
	}
	return nil
}
