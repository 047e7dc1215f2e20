package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newChordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "chord SYMBOL",
		Short:   "Spells a chord symbol",
		Example: `  sonido-theory chord Cmaj7#11/E`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.engine.Chord(args[0])
			if err != nil {
				return err
			}
			return a.emit(cmd, c,
				fmt.Sprintf("%s: %s", c.Symbol(), c.Name()),
				"  notes: "+names(c.Tones()),
				"  voiced: "+spelled(c.Ascending(a.engine.Config().DefaultOctave)),
			)
		},
	}
}

func newInferCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "infer NOTE...",
		Short: "Names the chord formed by a set of notes",
		Long: `Names the chord formed by a set of notes, simplest reading first.
When every note carries an octave the lowest one is the bass.`,
		Example: `  sonido-theory infer E3 G3 C4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := a.engine.Infer(args...)
			if err != nil {
				return err
			}
			lines := make([]string, 0, len(analysis.Candidates))
			for _, c := range analysis.Candidates {
				lines = append(lines, fmt.Sprintf("%-12s %-10s %s", c.Symbol, c.System, c.Chord.Name()))
			}
			return a.emit(cmd, analysis, lines...)
		},
	}
}

func newInScaleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "inscale CHORD ROOT [MODE]",
		Short:   "Checks whether a chord belongs to a key",
		Example: `  sonido-theory inscale Bb7 F major`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, mode := rootAndMode(args[1:])
			m, err := a.engine.InScale(args[0], root, mode)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s: %s", args[0], verdict(m.Diatonic))
			if m.Numeral != "" {
				line += " (" + m.Numeral + ")"
			}
			lines := []string{line}
			if len(m.Altered) > 0 {
				lines = append(lines, "  outside the key: "+names(m.Altered))
			}
			return a.emit(cmd, m, lines...)
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "resolve CHORD",
		Short:   "Suggests where a chord wants to go",
		Example: `  sonido-theory resolve G7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.Resolve(args[0])
			if err != nil {
				return err
			}
			lines := make([]string, len(res))
			for i, r := range res {
				lines[i] = fmt.Sprintf("%-10s %s", r.Chord.Symbol(), r.Rule)
			}
			return a.emit(cmd, res, lines...)
		},
	}
}

func newModulateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "modulate CHORD TONIC",
		Short:   "Moves a chord to a new tonic and names the implied key",
		Example: `  sonido-theory modulate Am E`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.engine.Modulate(args[0], args[1])
			if err != nil {
				return err
			}
			pivot := "no"
			if m.Pivot.Diatonic {
				pivot = "yes, as " + m.Pivot.Numeral
			}
			return a.emit(cmd, m,
				fmt.Sprintf("%s -> %s (%s)", m.From.Symbol(), m.Chord.Symbol(), m.Interval),
				"  key: "+m.TargetKey.String(),
				"  pivot: "+pivot,
			)
		},
	}
}
