package domain

import "fmt"

// UsedCctpNonce marks a CCTP message as received by the engine. A message is
// identified by its source domain and nonce.
type UsedCctpNonce struct {
	SourceDomain uint32
	Nonce        uint64
	FastVaaHash  Hash
}

// Key ...
func (n UsedCctpNonce) Key() string {
	return CctpNonceKey(n.SourceDomain, n.Nonce)
}

// CctpNonceKey returns the storage key of the given CCTP message.
func CctpNonceKey(sourceDomain uint32, nonce uint64) string {
	return fmt.Sprintf("%d/%d", sourceDomain, nonce)
}
