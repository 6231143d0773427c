package exchange

import (
	"crypto/rand"
	"math/big"
)

// settlement keys are decimal strings drawn uniformly from [0, 1e12).
var settlementKeySpace = big.NewInt(1_000_000_000_000)

// NewSettlementKey draws a fresh settlement key. The draw is wide but not
// checked against existing keys, so uniqueness is probabilistic, not
// guaranteed.
func NewSettlementKey() string {
	n, err := rand.Int(rand.Reader, settlementKeySpace)
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(err)
	}
	return n.String()
}
