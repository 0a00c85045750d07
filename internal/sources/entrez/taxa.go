package entrez

import (
	"encoding/xml"
	"strings"

	"github.com/agentstation/taxsync/pkg/taxonomy"
)

// TaxaSet is the root element of an efetch taxonomy response.
// NCBI reports lookup failures in an ERROR child rather than by status code.
type TaxaSet struct {
	XMLName xml.Name `xml:"TaxaSet"`
	Taxa    []Taxon  `xml:"Taxon"`
	Error   string   `xml:"ERROR"`
}

// Taxon is a single taxonomy record. Only the fields taxsync reports are mapped.
type Taxon struct {
	TaxID          string   `xml:"TaxId"`
	ScientificName string   `xml:"ScientificName"`
	ParentTaxID    string   `xml:"ParentTaxId"`
	Rank           string   `xml:"Rank"`
	AkaTaxIDs      []string `xml:"AkaTaxIds>TaxId"`
}

// Resolution converts the record into a taxonomy.Resolution for query.
func (t Taxon) Resolution(query string) taxonomy.Resolution {
	r := taxonomy.NewResolution(query, t.TaxID)
	r.ScientificName = strings.TrimSpace(t.ScientificName)
	r.ParentTaxID = strings.TrimSpace(t.ParentTaxID)
	r.Rank = strings.TrimSpace(t.Rank)
	for _, aka := range t.AkaTaxIDs {
		if aka = strings.TrimSpace(aka); aka != "" {
			r.AkaTaxIDs = append(r.AkaTaxIDs, aka)
		}
	}
	return r
}
