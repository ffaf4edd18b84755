package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	convertIn  string
	convertOut string
)

// NewConvertCmd creates the convert command: molfile/SDF in, PDB out.
func NewConvertCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert molfile/SDF text to PDB",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			in := convertIn
			if len(args) == 1 {
				in = args[0]
			}
			text, err := readInput(in)
			if err != nil {
				return err
			}

			res, err := eng.converter.Convert(string(text))
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d atoms, %d bonds (%d dropped), %d CONECT line(s)\n",
				res.Stats.AtomsParsed, res.Stats.BondsProcessed,
				res.Stats.BondsDropped, res.Stats.ConectLines)
			return writeOutput(convertOut, []byte(res.PDB))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&convertIn, "in", "i", "", "input molfile/SDF (default: stdin)")
	f.StringVarP(&convertOut, "out", "O", "", "output file (default: stdout)")
	return cmd
}
