package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCompareCmd(a *app) *cobra.Command {
	var reference string
	c := &cobra.Command{
		Use:   "compare CHORD... --to \"CHORD...\"",
		Short: "Aligns a progression against another and scores their similarity",
		Example: `  sonido-theory compare C Am F G --to "C Am Am F G"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := a.engine.CompareProgressions(args, strings.Fields(reference))
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(cmp.Path)+1)
			for _, p := range cmp.Path {
				lines = append(lines, fmt.Sprintf("%-10s %-10s %.3f", p.Query, p.Reference, p.Distance))
			}
			lines = append(lines, fmt.Sprintf("similarity %.3f", cmp.Similarity))
			return a.emit(cmd, cmp, lines...)
		},
	}
	c.Flags().StringVar(&reference, "to", "", "progression to compare against, space separated")
	c.MarkFlagRequired("to")
	return c
}
