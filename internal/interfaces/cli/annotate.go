package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appannot "github.com/turtacn/ChemNorm/internal/application/annotation"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

var (
	annotateCID    string
	annotateCAS    string
	annotateName   string
	annotateSMILES string
	annotateIn     string
	annotateFormat string
)

// NewAnnotateCmd creates the annotate command: the full pipeline, from either
// an identifier or a structure file.
func NewAnnotateCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate a compound with functional groups",
		Long:  "Resolve (or read) a structure, convert it to PDB, and report the\npriority-resolved functional-group assignment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			var res *moltypes.AnnotationResult
			if annotateIn != "" {
				text, err := readInput(annotateIn)
				if err != nil {
					return err
				}
				res, err = eng.service.AnnotateStructure(cmd.Context(), string(text))
				if err != nil {
					return err
				}
			} else {
				res, err = eng.service.AnnotateIdentifier(cmd.Context(), appannot.Request{
					CID:    annotateCID,
					CAS:    annotateCAS,
					Name:   annotateName,
					SMILES: annotateSMILES,
				})
				if err != nil {
					return err
				}
			}
			return printAnnotation(res, annotateFormat)
		},
	}

	f := cmd.Flags()
	f.StringVar(&annotateCID, "cid", "", "PubChem compound ID")
	f.StringVar(&annotateCAS, "cas", "", "CAS registry number")
	f.StringVar(&annotateName, "name", "", "compound display name")
	f.StringVar(&annotateSMILES, "smiles", "", "canonical SMILES")
	f.StringVarP(&annotateIn, "in", "i", "", "annotate a local molfile/SDF instead of resolving")
	f.StringVarP(&annotateFormat, "output", "o", "text", "output format (text, json, pdb)")
	return cmd
}

func printAnnotation(res *moltypes.AnnotationResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "pdb":
		_, err := os.Stdout.WriteString(res.PDBText)
		return err
	case "text":
		if res.Source != "" {
			fmt.Printf("source:         %s\n", res.Source)
		}
		fmt.Printf("dimensionality: %s\n", res.Dimensionality)
		fmt.Printf("atoms:          %d\n", res.Diagnostics.Conversion.AtomsParsed)
		fmt.Printf("bonds:          %d (%d dropped)\n",
			res.Diagnostics.Conversion.BondsProcessed, res.Diagnostics.Conversion.BondsDropped)
		fmt.Printf("cache hit:      %v\n", res.Diagnostics.CacheHit)
		if len(res.Groups) == 0 {
			fmt.Println("groups:         none")
			return nil
		}
		fmt.Println("groups:")
		for _, g := range res.Groups {
			atoms := make([]string, len(g.Atoms))
			for i, a := range g.Atoms {
				atoms[i] = fmt.Sprint(a)
			}
			fmt.Printf("  %-18s atoms [%s]\n", g.Name, strings.Join(atoms, " "))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected text, json, or pdb)", format)
	}
}
