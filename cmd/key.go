package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "key NOTE...",
		Short: "Estimates the key of a group of notes",
		Long: `Estimates the key of a group of notes by correlating their
pitch-class histogram with a key profile. Repeat a note to weight it.
SONIDO_KEY_PROFILE picks the profile.`,
		Example: `  sonido-theory key A B C D E F G# A`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.EstimateKey(args...)
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(res.Candidates)+1)
			for _, c := range res.Candidates {
				lines = append(lines, fmt.Sprintf("%-12s r=%+.3f", c.Name(), c.Correlation))
			}
			lines = append(lines, fmt.Sprintf("clarity %.3f, profile %s", res.Clarity, res.Profile))
			return a.emit(cmd, res, lines...)
		},
	}
}
