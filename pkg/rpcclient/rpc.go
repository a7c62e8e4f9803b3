package rpcclient

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
)

// GetVersion returns the node's version and protocol configuration.
func (c *Client) GetVersion(ctx context.Context) (*result.Version, error) {
	var resp = &result.Version{}
	if err := c.performRequest(ctx, "getversion", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetBlockCount returns the height of the chain plus one.
func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	var resp uint32
	if err := c.performRequest(ctx, "getblockcount", nil, &resp); err != nil {
		return 0, err
	}
	return resp, nil
}

// InvokeScript simulates the execution of the given script with the given
// signers against current chain state. Nothing is broadcast, the answer
// carries the would-be execution state, its GAS cost and the resulting
// stack.
func (c *Client) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	var (
		resp   = &result.Invoke{}
		params = []any{base64.StdEncoding.EncodeToString(script)}
	)
	if len(signers) > 0 {
		params = append(params, signers)
	}
	if err := c.performRequest(ctx, "invokescript", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SendRawTransaction broadcasts the given transaction, returning the hash
// the node accepted it under. An indeterminate transport failure surfaces
// as AmbiguousOutcomeError and is never retried by the client.
func (c *Client) SendRawTransaction(ctx context.Context, tx *transaction.Transaction) (util.Uint256, error) {
	var resp result.RelayResult
	data, err := tx.Bytes()
	if err != nil {
		return util.Uint256{}, fmt.Errorf("encoding transaction: %w", err)
	}
	params := []any{base64.StdEncoding.EncodeToString(data)}
	if err := c.performRequest(ctx, "sendrawtransaction", params, &resp); err != nil {
		return util.Uint256{}, err
	}
	return resp.Hash, nil
}

// GetRawTransaction returns the transaction with the given hash.
func (c *Client) GetRawTransaction(ctx context.Context, hash util.Uint256) (*transaction.Transaction, error) {
	var resp string
	if err := c.performRequest(ctx, "getrawtransaction", []any{hash.StringLE()}, &resp); err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding transaction: %w", err)
	}
	return transaction.NewTransactionFromBytes(data)
}

// GetRawTransactionVerbose returns the transaction with the given hash along
// with its chain placement.
func (c *Client) GetRawTransactionVerbose(ctx context.Context, hash util.Uint256) (*result.TransactionOutputRaw, error) {
	var resp = &result.TransactionOutputRaw{}
	if err := c.performRequest(ctx, "getrawtransaction", []any{hash.StringLE(), 1}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CalculateNetworkFee asks the node to compute the network fee for the given
// transaction. Witnesses may be dummy ones, the node derives verification
// cost from verification scripts.
func (c *Client) CalculateNetworkFee(ctx context.Context, tx *transaction.Transaction) (int64, error) {
	var resp result.NetworkFee
	data, err := tx.Bytes()
	if err != nil {
		return 0, fmt.Errorf("encoding transaction: %w", err)
	}
	params := []any{base64.StdEncoding.EncodeToString(data)}
	if err := c.performRequest(ctx, "calculatenetworkfee", params, &resp); err != nil {
		return 0, err
	}
	return resp.Value, nil
}
