package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"typeforge/internal/common"
	"typeforge/internal/gen"
	"typeforge/internal/mapping"
)

func (a *app) renderCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "render <glob>...",
		Short: "Print or write the Go source of descriptor classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			files, err := mapping.LoadGlob(a.cfg.Root, args...)
			if err != nil {
				return err
			}

			s, err := a.synthesizer()
			if err != nil {
				return err
			}

			byDir := map[string][]gen.GeneratedFile{}

			var order []gen.GeneratedFile

			for _, f := range files {
				for _, c := range f.Classes {
					n, err := s.Normalize(c)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Path, err)
					}

					file, err := s.Generate(n)
					if err != nil {
						return fmt.Errorf("%s: %w", f.Path, err)
					}

					dir := filepath.Join(outDir, common.PkgAlias(n.Package))
					byDir[dir] = append(byDir[dir], file)
					order = append(order, file)
				}
			}

			if outDir == "" {
				for i, file := range order {
					if i > 0 {
						fmt.Fprintln(a.out)
					}

					fmt.Fprintf(a.out, "// %s\n", file.Filename)

					if _, err := a.out.Write(file.Content); err != nil {
						return err
					}
				}

				return nil
			}

			for dir, generated := range byDir {
				if err := gen.WriteFiles(generated, dir); err != nil {
					return err
				}

				a.logger.Info().Str("dir", dir).Int("files", len(generated)).Msg("sources written")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Write files into per-package directories under this one")

	return cmd
}
