// Package constants provides shared constants used throughout the taxsync codebase.
// This includes identifiers, service endpoints, limits and file permissions
// that should be consistent across the application.
package constants

import "time"

// Taxonomy constants
const (
	// TaxIDColumn is the default seqinfo column holding the taxonomic identifier
	TaxIDColumn = "tax_id"

	// RootTaxID is the sentinel identifier ("root/unclassified") used when a
	// resolver response carries no replacement identifier
	RootTaxID = "1"

	// NodesTable is the authority relation consulted for known identifiers
	NodesTable = "nodes"
)

// Remote service constants
const (
	// EntrezBaseURL is the NCBI E-utilities endpoint root
	EntrezBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// EntrezDatabase is the Entrez database holding taxonomy records
	EntrezDatabase = "taxonomy"

	// DefaultTool is the tool name reported to Entrez alongside the contact address
	DefaultTool = "taxsync"

	// EntrezRateLimit is the request rate NCBI permits without an API key
	EntrezRateLimit = 3

	// EntrezKeyedRateLimit is the request rate NCBI permits with an API key
	EntrezKeyedRateLimit = 10
)

// Timeout constants
const (
	// DefaultHTTPTimeout is zero: a remote resolution blocks until it answers or fails
	DefaultHTTPTimeout time.Duration = 0

	// ShutdownTimeout bounds cleanup after a failed run
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Stdio is the path argument that selects standard input or output.
const Stdio = "-"
