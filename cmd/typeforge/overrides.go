package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typeforge/copier"
	"typeforge/internal/mapping"
	"typeforge/override"
	"typeforge/props"
)

func (a *app) overridesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overrides <file>",
		Short: "Apply the overrides of a descriptor file and print the injected types",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := a.load(args[0])
			if err != nil {
				return err
			}

			s, err := a.synthesizer()
			if err != nil {
				return err
			}

			if _, err := a.emitClasses(s, f); err != nil {
				return err
			}

			diags := mapping.Validate(f, s.Universe())
			if diags.HasErrors() {
				rep := newReporter(a.errOut)
				rep.Report(diags.Errors...)

				return diags.Error()
			}

			catalog, err := mapping.Catalog(s.Universe(), f)
			if err != nil {
				return err
			}

			reg := override.NewRegistry(
				s,
				copier.New(copier.WithLogger(a.logger)),
				override.WithLogger(a.logger),
			)

			if err := reg.Initialize(catalog, nil); err != nil {
				return err
			}

			for _, e := range reg.Entries() {
				it, err := reg.InjectedType(e.Original)
				if err != nil {
					return err
				}

				fmt.Fprintf(a.out, "%s => %s\n", e.Original, it)

				for _, p := range props.Of(it).All() {
					fmt.Fprintf(a.out, "  %s %s", p.Name, p.Type)

					if p.Tag != "" {
						fmt.Fprintf(a.out, " `%s`", p.Tag)
					}

					fmt.Fprintln(a.out)
				}
			}

			return nil
		},
	}
}
