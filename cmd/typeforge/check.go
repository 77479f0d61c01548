package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"typeforge/errdefs"
	"typeforge/internal/mapping"
)

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <glob>...",
		Short: "Validate descriptor files and compile their classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := mapping.LoadGlob(a.cfg.Root, args...)
			if err != nil {
				return err
			}

			s, err := a.synthesizer()
			if err != nil {
				return err
			}

			rep := newReporter(a.out)

			for _, f := range files {
				diags := mapping.Validate(f, s.Universe())
				rep.Report(diags.All()...)

				if diags.HasErrors() {
					a.logger.Debug().Str("file", f.Path).Msg("skipping compilation of invalid file")
					continue
				}

				for _, c := range f.Classes {
					t, err := s.Compile(cmd.Context(), c)
					if err == nil {
						rep.OK(t.Qualified())
						continue
					}

					var cerr *errdefs.CompilationError
					if errors.As(err, &cerr) && len(cerr.Diagnostics) > 0 {
						rep.Report(cerr.Diagnostics...)
						continue
					}

					rep.Error(c.Qualified(), err)
				}
			}

			rep.Summary()

			if rep.errors > 0 {
				return fmt.Errorf("check failed with %d errors", rep.errors)
			}

			return nil
		},
	}
}
