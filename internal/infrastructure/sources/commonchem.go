package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/turtacn/ChemNorm/pkg/errors"
)

// CommonChemClient queries the CAS Common Chemistry registry by CAS number.
type CommonChemClient struct {
	baseURL string
	fetch   *Fetcher
}

func NewCommonChemClient(baseURL string, fetch *Fetcher) *CommonChemClient {
	return &CommonChemClient{baseURL: strings.TrimSuffix(baseURL, "/"), fetch: fetch}
}

type commonChemDetail struct {
	Molfile string `json:"molfile"`
}

// FetchByCAS retrieves the registry detail record and returns its molfile.
func (c *CommonChemClient) FetchByCAS(ctx context.Context, cas string) (string, error) {
	if !casNumberRe.MatchString(cas) {
		return "", errors.New(errors.ErrCodeIdentifierInvalid, "not a CAS registry number").WithDetail(cas)
	}
	body, err := c.fetch.Get(ctx, c.baseURL+"/detail?cas_rn="+url.QueryEscape(cas))
	if err != nil {
		return "", err
	}
	var detail commonChemDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSourceParseError, "decode registry detail")
	}
	if strings.TrimSpace(detail.Molfile) == "" {
		return "", errors.New(errors.ErrCodeSourceNotFound, "registry record has no molfile").WithDetail(cas)
	}
	return detail.Molfile, nil
}
