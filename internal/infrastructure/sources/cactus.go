package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/turtacn/ChemNorm/pkg/errors"
)

// CactusClient resolves identifiers through the NCI Cactus structure
// resolver, which accepts names, SMILES, InChI, and registry numbers alike.
type CactusClient struct {
	baseURL string
	fetch   *Fetcher
}

func NewCactusClient(baseURL string, fetch *Fetcher) *CactusClient {
	return &CactusClient{baseURL: strings.TrimSuffix(baseURL, "/"), fetch: fetch}
}

// Resolve fetches the SDF rendition of any identifier Cactus understands.
func (c *CactusClient) Resolve(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", errors.New(errors.ErrCodeIdentifierInvalid, "empty identifier")
	}
	body, err := c.fetch.Get(ctx, c.baseURL+"/"+url.PathEscape(input)+"/sdf")
	if err != nil {
		return "", err
	}
	text := string(body)
	// Cactus reports some misses as a 200 with an HTML error page.
	if strings.HasPrefix(strings.TrimSpace(text), "<") {
		return "", errors.New(errors.ErrCodeSourceNotFound, "resolver returned no structure").WithDetail(input)
	}
	return text, nil
}
