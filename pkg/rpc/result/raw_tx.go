package result

import (
	"encoding/json"

	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// RelayResult is a sendrawtransaction result, the hash the node accepted the
// transaction under.
type RelayResult struct {
	Hash util.Uint256 `json:"hash"`
}

// NetworkFee is a calculatenetworkfee result.
type NetworkFee struct {
	Value int64 `json:"networkfee,string"`
}

// TransactionOutputRaw is a verbose getrawtransaction answer: the transaction
// itself plus its chain placement (all zero for mempooled transactions).
type TransactionOutputRaw struct {
	transaction.Transaction
	TransactionMetadata
}

// TransactionMetadata is the placement part of TransactionOutputRaw.
type TransactionMetadata struct {
	Blockhash     util.Uint256 `json:"blockhash,omitempty"`
	Confirmations int          `json:"confirmations,omitempty"`
	Timestamp     uint64       `json:"blocktime,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t TransactionOutputRaw) MarshalJSON() ([]byte, error) {
	output, err := json.Marshal(t.TransactionMetadata)
	if err != nil {
		return nil, err
	}
	txBytes, err := json.Marshal(&t.Transaction)
	if err != nil {
		return nil, err
	}

	// Stitch the two objects together.
	if len(output) == 2 { // empty metadata
		return txBytes, nil
	}
	output[len(output)-1] = ','
	return append(output, txBytes[1:]...), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *TransactionOutputRaw) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &t.TransactionMetadata); err != nil {
		return err
	}
	return json.Unmarshal(data, &t.Transaction)
}
