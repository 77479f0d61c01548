package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func (a *app) emitCommand() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "emit <file>",
		Short: "Emit the classes of a descriptor file and list their properties",
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

			types, err := a.emitClasses(s, f)
			if err != nil {
				return err
			}

			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

			for _, t := range types {
				fmt.Fprintf(a.out, "%s (%s)\n", t, t.Reflect())

				for _, p := range t.Properties().All() {
					mode := "rw"
					if p.ReadOnly {
						mode = "ro"
					}

					fmt.Fprintf(a.out, "  %s %s %s\n", p.Name, p.Type, mode)
				}

				if !dump {
					continue
				}

				instance, err := t.New()
				if err != nil {
					return err
				}

				cfg.Fdump(a.out, instance)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Dump a zero instance of every emitted type")

	return cmd
}
