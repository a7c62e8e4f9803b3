/*
Package gas predicts execution fees by simulating scripts against a remote
node. Results are cached by the content of (script, signers) with a short
TTL, concurrent estimates for the same content share one network call.
*/
package gas

import (
	"context"
	"fmt"
	"time"

	"github.com/halcyon-chain/halcyon-go/pkg/crypto/hash"
	"github.com/halcyon-chain/halcyon-go/pkg/io"
	"github.com/halcyon-chain/halcyon-go/pkg/rpc/result"
	"github.com/halcyon-chain/halcyon-go/pkg/transaction"
	"github.com/halcyon-chain/halcyon-go/pkg/util"
	"github.com/halcyon-chain/halcyon-go/pkg/vm/vmstate"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Default estimator cache parameters.
const (
	DefaultCacheTTL      = 30 * time.Second
	DefaultCacheCapacity = 512

	// batchConcurrency bounds the fan-out of EstimateBatch.
	batchConcurrency = 8
)

// SimulationFaultError means the VM ended the simulation in the FAULT state.
// A faulted script has no meaningful fee, the script has to be fixed first.
type SimulationFaultError struct {
	Exception string
}

// Error implements the error interface.
func (e *SimulationFaultError) Error() string {
	return fmt.Sprintf("simulation ended in FAULT state: %s", e.Exception)
}

// Invoker is the network surface the estimator needs, satisfied by
// rpcclient.Client.
type Invoker interface {
	InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// Estimate is a successful fee prediction.
type Estimate struct {
	// GasConsumed is the simulated execution cost.
	GasConsumed int64
	// State is the VM state the simulation ended in.
	State string
}

// Estimator issues simulate-only calls through an Invoker and caches the
// answers. It is safe for concurrent use.
type Estimator struct {
	inv    Invoker
	cache  *expirable.LRU[util.Uint256, Estimate]
	flight singleflight.Group
}

// Options configure an Estimator. Zero values select the defaults.
type Options struct {
	CacheTTL      time.Duration
	CacheCapacity int
}

// New creates an Estimator on top of the given Invoker.
func New(inv Invoker, opts Options) *Estimator {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.CacheCapacity <= 0 {
		opts.CacheCapacity = DefaultCacheCapacity
	}
	return &Estimator{
		inv:   inv,
		cache: expirable.NewLRU[util.Uint256, Estimate](opts.CacheCapacity, nil, opts.CacheTTL),
	}
}

// Estimate simulates the script with the given signers and returns its
// predicted execution cost. Within the cache TTL repeated estimates for the
// same (script, signers) content are answered locally, and concurrent ones
// share a single network call. A FAULTed simulation is returned as
// SimulationFaultError and is never cached.
func (e *Estimator) Estimate(ctx context.Context, script []byte, signers []transaction.Signer) (Estimate, error) {
	key := contentKey(script, signers)
	if est, ok := e.cache.Get(key); ok {
		return est, nil
	}

	v, err, _ := e.flight.Do(key.StringLE(), func() (any, error) {
		res, err := e.inv.InvokeScript(ctx, script, signers)
		if err != nil {
			return Estimate{}, err
		}
		if res.State == vmstate.Fault.String() {
			return Estimate{}, &SimulationFaultError{Exception: res.FaultException}
		}
		est := Estimate{
			GasConsumed: res.GasConsumed,
			State:       res.State,
		}
		e.cache.Add(key, est)
		return est, nil
	})
	if err != nil {
		return Estimate{}, err
	}
	return v.(Estimate), nil
}

// EstimateWithMargin estimates the script's cost and adds a multiplicative
// safety margin of marginPercent, rounding up. Zero margin makes it
// equivalent to Estimate.
func (e *Estimator) EstimateWithMargin(ctx context.Context, script []byte, signers []transaction.Signer, marginPercent int64) (int64, error) {
	if marginPercent < 0 {
		return 0, fmt.Errorf("negative margin %d", marginPercent)
	}
	est, err := e.Estimate(ctx, script, signers)
	if err != nil {
		return 0, err
	}
	return (est.GasConsumed*(100+marginPercent) + 99) / 100, nil
}

// BatchItem is a single EstimateBatch element.
type BatchItem struct {
	Script  []byte
	Signers []transaction.Signer
}

// BatchResult is the outcome of one BatchItem: either an Estimate or the
// error that item failed with.
type BatchResult struct {
	Estimate Estimate
	Err      error
}

// EstimateBatch runs the estimates concurrently and returns the outcomes in
// input order. A failing element doesn't abort the others.
func (e *Estimator) EstimateBatch(ctx context.Context, items []BatchItem) []BatchResult {
	var (
		res = make([]BatchResult, len(items))
		g   errgroup.Group
	)
	g.SetLimit(batchConcurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			res[i].Estimate, res[i].Err = e.Estimate(ctx, items[i].Script, items[i].Signers)
			return nil
		})
	}
	_ = g.Wait()
	return res
}

// contentKey hashes the script together with the ordered signer accounts and
// scopes.
func contentKey(script []byte, signers []transaction.Signer) util.Uint256 {
	w := io.NewBufBinWriter()
	w.WriteVarBytes(script)
	w.WriteVarUint(uint64(len(signers)))
	for i := range signers {
		w.WriteBytes(signers[i].Account[:])
		w.WriteB(byte(signers[i].Scopes))
	}
	return hash.Sha256(w.Bytes())
}
