package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/turtacn/ChemNorm/pkg/errors"
)

// casNumberRe matches a CAS registry number: two to seven digits, two
// digits, check digit.
var casNumberRe = regexp.MustCompile(`^\d{2,7}-\d{2}-\d$`)

// PubChemClient speaks the PUG REST interface.
type PubChemClient struct {
	baseURL string
	fetch   *Fetcher
}

func NewPubChemClient(baseURL string, fetch *Fetcher) *PubChemClient {
	return &PubChemClient{baseURL: strings.TrimSuffix(baseURL, "/"), fetch: fetch}
}

// FetchSDF3D retrieves the computed 3D record for a CID.
func (c *PubChemClient) FetchSDF3D(ctx context.Context, cid string) (string, error) {
	return c.sdf(ctx, cid, "SDF?record_type=3d")
}

// FetchSDF2D retrieves the 2D depiction record for a CID.
func (c *PubChemClient) FetchSDF2D(ctx context.Context, cid string) (string, error) {
	return c.sdf(ctx, cid, "SDF?record_type=2d")
}

// FetchConformers retrieves the conformer ensemble for a CID.
func (c *PubChemClient) FetchConformers(ctx context.Context, cid string) (string, error) {
	return c.sdf(ctx, cid, "conformers/SDF")
}

func (c *PubChemClient) sdf(ctx context.Context, cid, suffix string) (string, error) {
	if cid == "" {
		return "", errors.New(errors.ErrCodeIdentifierInvalid, "empty CID")
	}
	body, err := c.fetch.Get(ctx, fmt.Sprintf("%s/compound/cid/%s/%s", c.baseURL, cid, suffix))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type synonymsResponse struct {
	InformationList struct {
		Information []struct {
			Synonym []string `json:"Synonym"`
		} `json:"Information"`
	} `json:"InformationList"`
}

// FetchCAS scans the compound's synonym list for the first CAS registry
// number.  A compound without one yields a per-source not-found.
func (c *PubChemClient) FetchCAS(ctx context.Context, cid string) (string, error) {
	if cid == "" {
		return "", errors.New(errors.ErrCodeIdentifierInvalid, "empty CID")
	}
	body, err := c.fetch.Get(ctx, fmt.Sprintf("%s/compound/cid/%s/synonyms/JSON", c.baseURL, cid))
	if err != nil {
		return "", err
	}
	var parsed synonymsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSourceParseError, "decode synonyms response")
	}
	for _, info := range parsed.InformationList.Information {
		for _, syn := range info.Synonym {
			if casNumberRe.MatchString(syn) {
				return syn, nil
			}
		}
	}
	return "", errors.New(errors.ErrCodeSourceNotFound, "no CAS number among synonyms").WithDetail("cid " + cid)
}
