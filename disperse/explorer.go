package disperse

import "strings"

// DefaultExplorerURL is the Monad testnet block explorer
const DefaultExplorerURL = "https://testnet.monadexplorer.com"

// ExplorerURL builds the viewer link for a transaction hash
func ExplorerURL(base, txHash string) string {
	if txHash == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/tx/" + txHash
}
