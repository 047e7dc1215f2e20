package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIntervalCmd(a *app) *cobra.Command {
	var direction string
	c := &cobra.Command{
		Use:     "interval FROM TO",
		Short:   "Names the interval between two notes",
		Example: `  sonido-theory interval C4 Ab4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := a.engine.Interval(args[0], args[1], direction)
			if err != nil {
				return err
			}
			return a.emit(cmd, iv, fmt.Sprintf("%s (%g semitones)", iv, iv.Semitones()))
		},
	}
	c.Flags().StringVarP(&direction, "direction", "d", "up", "up or down")
	return c
}

func newTransposeCmd(a *app) *cobra.Command {
	var direction string
	c := &cobra.Command{
		Use:     "transpose NOTE INTERVAL",
		Short:   "Moves a note by an interval such as M3 or P5",
		Example: `  sonido-theory transpose F#4 m3 -d down`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.engine.Transpose(args[0], args[1], direction)
			if err != nil {
				return err
			}
			return a.emit(cmd, p, p.String())
		},
	}
	c.Flags().StringVarP(&direction, "direction", "d", "up", "up or down")
	return c
}
