package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
)

var (
	resolveCID    string
	resolveCAS    string
	resolveName   string
	resolveSMILES string
	resolveOut    string
)

// NewResolveCmd creates the resolve command: run the source cascade and emit
// the raw structure text.
func NewResolveCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a compound identifier to structure text",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			rec, attempts, err := eng.resolver.Resolve(cmd.Context(), sources.Query{
				CID:    resolveCID,
				CAS:    resolveCAS,
				Name:   resolveName,
				SMILES: resolveSMILES,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "resolved via %s (%s), %d attempt(s)\n",
				rec.Source, rec.Dimensionality, len(attempts))
			return writeOutput(resolveOut, []byte(rec.Text))
		},
	}

	f := cmd.Flags()
	f.StringVar(&resolveCID, "cid", "", "PubChem compound ID")
	f.StringVar(&resolveCAS, "cas", "", "CAS registry number")
	f.StringVar(&resolveName, "name", "", "compound display name")
	f.StringVar(&resolveSMILES, "smiles", "", "canonical SMILES")
	f.StringVarP(&resolveOut, "out", "O", "", "output file (default: stdout)")
	return cmd
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
