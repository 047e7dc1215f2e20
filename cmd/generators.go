package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
)

func chordLines(c chord.Chord) []string {
	return []string{
		fmt.Sprintf("%s: %s", c.Symbol(), c.Name()),
		"  notes: " + names(c.Tones()),
	}
}

func newQuartalCmd(a *app) *cobra.Command {
	var (
		size      int
		inversion int
		key       string
	)
	c := &cobra.Command{
		Use:   "quartal ROOT",
		Short: "Stacks perfect fourths",
		Long: `Stacks perfect fourths on ROOT. With --key the stacks are built from
the key's notes on every degree instead, so some fourths come out
augmented.`,
		Example: `  sonido-theory quartal D --size 4
  sonido-theory quartal C --key major`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key != "" {
				chords, err := a.engine.DiatonicQuartal(args[0], key, size)
				if err != nil {
					return err
				}
				return a.emit(cmd, chords, symbols(chords))
			}
			q, err := a.engine.Quartal(args[0], size, inversion)
			if err != nil {
				return err
			}
			return a.emit(cmd, q, chordLines(q)...)
		},
	}
	c.Flags().IntVarP(&size, "size", "n", 3, "notes in the stack, 3 to 7")
	c.Flags().IntVarP(&inversion, "inversion", "i", 0, "inversion to put in the bass")
	c.Flags().StringVar(&key, "key", "", "mode whose diatonic stacks to list")
	return c
}

func newWholeToneCmd(a *app) *cobra.Command {
	var size int
	c := &cobra.Command{
		Use:   "wholetone ROOT",
		Short: "Stacks major seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.engine.WholeTone(args[0], size)
			if err != nil {
				return err
			}
			return a.emit(cmd, w, chordLines(w)...)
		},
	}
	c.Flags().IntVarP(&size, "size", "n", 3, "notes in the stack, 3 to 6")
	return c
}

func newJapaneseCmd(a *app) *cobra.Command {
	var size int
	c := &cobra.Command{
		Use:     "japanese ROOT yo|in",
		Short:   "Builds a chord from the Yo or In scale",
		Example: `  sonido-theory japanese E in -n 4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := a.engine.Japanese(args[0], args[1], size)
			if err != nil {
				return err
			}
			return a.emit(cmd, j, chordLines(j)...)
		},
	}
	c.Flags().IntVarP(&size, "size", "n", 3, "notes in the chord, 3 to 5")
	return c
}

func newHybridCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hybrid ROOT FOURTHS",
		Short: "Stacks fourths and tops them with a major third",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := atoi("FOURTHS", args[1])
			if err != nil {
				return err
			}
			h, err := a.engine.Hybrid(args[0], n)
			if err != nil {
				return err
			}
			return a.emit(cmd, h, chordLines(h)...)
		},
	}
}
