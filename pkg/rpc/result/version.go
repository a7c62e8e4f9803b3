package result

// Version model used for reporting the server version and the protocol
// parameters the client needs for transaction construction (network magic
// for signing, validity span limit, per-byte fee).
type Version struct {
	TCPPort   uint16   `json:"tcpport"`
	Nonce     uint32   `json:"nonce"`
	UserAgent string   `json:"useragent"`
	Protocol  Protocol `json:"protocol"`
}

// Protocol represents the network-defined constants of the chain the server
// runs on.
type Protocol struct {
	// Network is the network magic mixed into signing digests.
	Network uint32 `json:"network"`
	// MillisecondsPerBlock is the target block interval.
	MillisecondsPerBlock int `json:"msperblock"`
	// MaxValidUntilBlockIncrement is the upper limit for the transaction
	// validity window.
	MaxValidUntilBlockIncrement uint32 `json:"maxvaliduntilblockincrement"`
	// MaxTransactionsPerBlock is the maximum number of transactions per
	// block.
	MaxTransactionsPerBlock uint16 `json:"maxtransactionsperblock"`
	// MemoryPoolMaxTransactions is the mempool capacity.
	MemoryPoolMaxTransactions int `json:"memorypoolmaxtransactions"`
	// ValidatorsCount is the number of consensus nodes.
	ValidatorsCount byte `json:"validatorscount"`
	// AddressVersion is the address prefix byte.
	AddressVersion byte `json:"addressversion"`
}
