package conformer

import (
	"context"
	"regexp"
	"strings"

	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
	"github.com/turtacn/ChemNorm/pkg/errors"
)

// Step names, used in logs, metrics labels, and attempt summaries.
const (
	SourcePubChem3D         = "pubchem_3d"
	SourceCommonChemCAS     = "commonchem_cas"
	SourceCactusCID         = "cactus_cid"
	SourceCactusSMILES      = "cactus_smiles"
	SourceCactusName        = "cactus_name"
	SourcePubChemConformers = "pubchem_conformers"
	SourcePubChem2D         = "pubchem_2d"
)

func errSkipped(what string) error {
	return errors.New(errors.ErrCodeIdentifierInvalid, "query carries no "+what)
}

type pubchem3DStep struct{ client *sources.PubChemClient }

func (pubchem3DStep) Name() string { return SourcePubChem3D }

func (s pubchem3DStep) Fetch(ctx context.Context, q sources.Query) (string, error) {
	if q.CID == "" {
		return "", errSkipped("CID")
	}
	return s.client.FetchSDF3D(ctx, q.CID)
}

// commonChemStep resolves through the CAS registry, looking the CAS number up
// in PubChem synonyms when the caller did not supply one.
type commonChemStep struct {
	registry *sources.CommonChemClient
	pubchem  *sources.PubChemClient
}

func (commonChemStep) Name() string { return SourceCommonChemCAS }

func (s commonChemStep) Fetch(ctx context.Context, q sources.Query) (string, error) {
	cas := q.CAS
	if cas == "" {
		if q.CID == "" {
			return "", errSkipped("CAS number")
		}
		found, err := s.pubchem.FetchCAS(ctx, q.CID)
		if err != nil {
			return "", err
		}
		cas = found
	}
	return s.registry.FetchByCAS(ctx, cas)
}

// cactusStep resolves one kind of identifier through the Cactus resolver.
type cactusStep struct {
	name   string
	client *sources.CactusClient
	input  func(sources.Query) string
}

func (s cactusStep) Name() string { return s.name }

func (s cactusStep) Fetch(ctx context.Context, q sources.Query) (string, error) {
	input := s.input(q)
	if strings.TrimSpace(input) == "" {
		return "", errSkipped("identifier for " + s.name)
	}
	return s.client.Resolve(ctx, input)
}

type pubchemConformersStep struct{ client *sources.PubChemClient }

func (pubchemConformersStep) Name() string { return SourcePubChemConformers }

func (s pubchemConformersStep) Fetch(ctx context.Context, q sources.Query) (string, error) {
	if q.CID == "" {
		return "", errSkipped("CID")
	}
	return s.client.FetchConformers(ctx, q.CID)
}

type pubchem2DStep struct{ client *sources.PubChemClient }

func (pubchem2DStep) Name() string { return SourcePubChem2D }

func (s pubchem2DStep) Fetch(ctx context.Context, q sources.Query) (string, error) {
	if q.CID == "" {
		return "", errSkipped("CID")
	}
	return s.client.FetchSDF2D(ctx, q.CID)
}

var (
	bracketedRe    = regexp.MustCompile(`[\[({][^\])}]*[\])}]`)
	formulaTokenRe = regexp.MustCompile(`^([A-Z][a-z]?\d*)+$`)
)

// sanitizeName strips bracketed qualifiers and formula-like tokens from a
// display name so the resolver sees only the name proper.
func sanitizeName(name string) string {
	cleaned := bracketedRe.ReplaceAllString(name, " ")
	var kept []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 1 && formulaTokenRe.MatchString(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// DefaultSteps assembles the standard cascade ordering over the three
// provider clients.
func DefaultSteps(pubchem *sources.PubChemClient, registry *sources.CommonChemClient, cactus *sources.CactusClient) []sources.StructureSource {
	return []sources.StructureSource{
		pubchem3DStep{client: pubchem},
		commonChemStep{registry: registry, pubchem: pubchem},
		cactusStep{name: SourceCactusCID, client: cactus, input: func(q sources.Query) string { return q.CID }},
		cactusStep{name: SourceCactusSMILES, client: cactus, input: func(q sources.Query) string { return q.SMILES }},
		cactusStep{name: SourceCactusName, client: cactus, input: func(q sources.Query) string { return sanitizeName(q.Name) }},
		pubchemConformersStep{client: pubchem},
		pubchem2DStep{client: pubchem},
	}
}
