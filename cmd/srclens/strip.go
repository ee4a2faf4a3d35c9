package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/srclens/internal/engine"
)

func newStripCmd(a *app) *cobra.Command {
	var (
		flagLang         string
		flagKeepComments bool
	)

	cmd := &cobra.Command{
		Use:   "strip [FILE]",
		Short: "Strip comments and minify whitespace",
		Long:  "Removes comments from FILE (or stdin) and collapses whitespace outside string, template and regex literals. The result is written to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
				lang = flagLang
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
				if lang == "" {
					lang = engine.LanguageForPath(args[0])
				}
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			eng := a.newEngine()
			defer eng.Close()

			var out string
			if flagKeepComments {
				out = eng.MinifyWhitespace(cmd.Context(), string(data), lang)
			} else {
				out = eng.StripComments(cmd.Context(), string(data), lang)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&flagLang, "lang", "", "language id (default: from the file extension)")
	cmd.Flags().BoolVar(&flagKeepComments, "keep-comments", false, "only minify whitespace")
	return cmd
}
