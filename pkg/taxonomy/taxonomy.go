// Package taxonomy defines the result of resolving a taxonomic identifier
// against a remote taxonomy service, and the Resolver contract such a
// service satisfies.
package taxonomy

import (
	"context"
	"strings"

	"github.com/agentstation/taxsync/pkg/constants"
)

// Resolver looks up the authoritative taxonomic record for an identifier.
// Implementations make at most one remote call per Resolve and do not retry.
type Resolver interface {
	Resolve(ctx context.Context, id string) (Resolution, error)
}

// ResolverFunc allows functions to implement Resolver.
type ResolverFunc func(ctx context.Context, id string) (Resolution, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, id string) (Resolution, error) {
	return f(ctx, id)
}

// Resolution is the taxonomic record a Resolver returned for a query.
// TaxID is nil when the record named no current identifier.
type Resolution struct {
	Query          string   `json:"query" yaml:"query"`
	TaxID          *string  `json:"tax_id,omitempty" yaml:"tax_id,omitempty"`
	ScientificName string   `json:"scientific_name,omitempty" yaml:"scientific_name,omitempty"`
	Rank           string   `json:"rank,omitempty" yaml:"rank,omitempty"`
	ParentTaxID    string   `json:"parent_tax_id,omitempty" yaml:"parent_tax_id,omitempty"`
	AkaTaxIDs      []string `json:"aka_tax_ids,omitempty" yaml:"aka_tax_ids,omitempty"`
}

// NewResolution returns a Resolution for query carrying taxID.
// An empty or blank taxID leaves TaxID unset.
func NewResolution(query, taxID string) Resolution {
	r := Resolution{Query: query}
	if id := strings.TrimSpace(taxID); id != "" {
		r.TaxID = &id
	}
	return r
}

// HasTaxID reports whether the record named a replacement identifier.
func (r Resolution) HasTaxID() bool {
	return r.TaxID != nil && *r.TaxID != ""
}

// Replacement returns the identifier to write back: the record's TaxID, or
// the root sentinel when the record has none.
func (r Resolution) Replacement() string {
	if r.HasTaxID() {
		return *r.TaxID
	}
	return constants.RootTaxID
}

// Merged reports whether the query was folded into a different identifier.
func (r Resolution) Merged() bool {
	return r.HasTaxID() && *r.TaxID != r.Query
}
