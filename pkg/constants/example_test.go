package constants_test

import (
	"fmt"

	"github.com/agentstation/taxsync/pkg/constants"
)

// Example shows the defaults a reconciliation run starts from.
func Example() {
	fmt.Println("column:", constants.TaxIDColumn)
	fmt.Println("sentinel:", constants.RootTaxID)
	fmt.Println("relation:", constants.NodesTable)
	fmt.Println("entrez rate:", constants.EntrezRateLimit)

	// Output:
	// column: tax_id
	// sentinel: 1
	// relation: nodes
	// entrez rate: 3
}
