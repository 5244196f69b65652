package tx

import "github.com/pkg/errors"

// ErrMissingPrevout is returned by VerifyInput and Fee when a lookup
// cannot resolve the TxOut an input spends.
var ErrMissingPrevout = errors.New("tx: missing prevout")
