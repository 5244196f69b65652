// Package txfetch fetches raw transactions over HTTP from a block
// explorer, backed by a process-wide, mutex-guarded cache that can be
// persisted to and restored from a JSON file.
package txfetch

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/tx"
)

// ErrFetchFailed is returned when the upstream HTTP request fails or
// returns a non-200 status.
var ErrFetchFailed = errors.New("txfetch: fetch failed")

// ErrTxIDMismatch is returned when the fetched transaction's computed
// id does not match the id requested.
var ErrTxIDMismatch = errors.New("txfetch: txid mismatch")

const (
	mainnetBase = "https://blockstream.info/api/"
	testnetBase = "https://blockstream.info/testnet/api/"
)

// Fetcher retrieves and caches raw transactions by id.
type Fetcher struct {
	client  *http.Client
	mainnet string
	testnet string

	mu    sync.Mutex
	cache map[string]*tx.Transaction
}

// New returns a Fetcher with an empty cache, using client for HTTP
// requests (http.DefaultClient if nil) and blockstream.info's public
// endpoints.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, mainnet: mainnetBase, testnet: testnetBase, cache: make(map[string]*tx.Transaction)}
}

// NewWithEndpoints returns a Fetcher pointed at explicit mainnet/testnet
// base URLs, for tests and for callers running against a private
// explorer.
func NewWithEndpoints(client *http.Client, mainnet, testnet string) *Fetcher {
	f := New(client)
	f.mainnet, f.testnet = mainnet, testnet
	return f
}

func (f *Fetcher) baseURL(testnet bool) string {
	if testnet {
		return f.testnet
	}
	return f.mainnet
}

// Fetch returns the transaction identified by txID (hex, display
// order), fetching it over HTTP on a cache miss.
func (f *Fetcher) Fetch(ctx context.Context, txID string, testnet bool) (*tx.Transaction, error) {
	f.mu.Lock()
	if cached, ok := f.cache[txID]; ok {
		f.mu.Unlock()
		return cached, nil
	}
	f.mu.Unlock()

	url := f.baseURL(testnet) + txID + "/hex"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrFetchFailed, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrFetchFailed, "status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(ErrFetchFailed, err.Error())
	}
	raw, err := hex.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, errors.Wrap(ErrFetchFailed, err.Error())
	}

	parsed, err := tx.Parse(bytes.NewReader(raw), testnet)
	if err != nil {
		return nil, err
	}
	if parsed.Hash().String() != txID {
		return nil, ErrTxIDMismatch
	}

	f.mu.Lock()
	f.cache[txID] = parsed
	f.mu.Unlock()
	return parsed, nil
}

type cacheFile map[string]string

// LoadCache replaces f's cache with the contents of the JSON file at
// path, a {tx_id_hex: raw_tx_hex} map.
func (f *Fetcher) LoadCache(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw cacheFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	loaded := make(map[string]*tx.Transaction, len(raw))
	for id, rawHex := range raw {
		decoded, err := hex.DecodeString(rawHex)
		if err != nil {
			return err
		}
		parsed, err := tx.Parse(bytes.NewReader(decoded), false)
		if err != nil {
			return err
		}
		loaded[id] = parsed
	}
	f.mu.Lock()
	f.cache = loaded
	f.mu.Unlock()
	return nil
}

// DumpCache writes f's current cache to path as JSON.
func (f *Fetcher) DumpCache(path string) error {
	f.mu.Lock()
	raw := make(cacheFile, len(f.cache))
	for id, transaction := range f.cache {
		encoded, err := transaction.Serialize()
		if err != nil {
			f.mu.Unlock()
			return err
		}
		raw[id] = hex.EncodeToString(encoded)
	}
	f.mu.Unlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
