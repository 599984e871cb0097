package service

import (
	"context"
	"sync"

	"sectoralpha/internal/domain"
	"sectoralpha/internal/logger"
	"sectoralpha/internal/repository"
)

// FundamentalsService memoizes per-symbol fundamental snapshots for the
// duration of a run. Lookups are idempotent per symbol, and a provider
// failure for one symbol is absorbed into an all-missing snapshot so it
// never aborts the batch. The cache is an explicit bounded object rather
// than hidden process-wide state: tests can clear or bypass it.
type FundamentalsService interface {
	Snapshot(ctx context.Context, symbol string) domain.FundamentalSnapshot
	Snapshots(ctx context.Context, symbols []string) map[string]domain.FundamentalSnapshot
	ClearCache()
}

type fundamentalsServiceHandler struct {
	Repository repository.FundamentalsRepository
	Bypass     bool

	mu         sync.Mutex
	cache      map[string]domain.FundamentalSnapshot
	maxEntries int
}

func NewFundamentalsService(repo repository.FundamentalsRepository) FundamentalsService {
	return &fundamentalsServiceHandler{
		Repository: repo,
		cache:      map[string]domain.FundamentalSnapshot{},
		maxEntries: 512,
	}
}

func (h *fundamentalsServiceHandler) Snapshot(ctx context.Context, symbol string) domain.FundamentalSnapshot {
	if !h.Bypass {
		h.mu.Lock()
		cached, ok := h.cache[symbol]
		h.mu.Unlock()
		if ok {
			return cached
		}
	}

	snapshot, err := h.Repository.Snapshot(symbol)
	if err != nil {
		logger.FromContext(ctx).Warnf("fundamentals lookup failed for %s, treating as missing: %s", symbol, err.Error())
		snapshot = domain.FundamentalSnapshot{}
	}

	if !h.Bypass {
		h.mu.Lock()
		if len(h.cache) >= h.maxEntries {
			// cheap bound: reset rather than evict piecemeal
			h.cache = map[string]domain.FundamentalSnapshot{}
		}
		h.cache[symbol] = snapshot
		h.mu.Unlock()
	}

	return snapshot
}

func (h *fundamentalsServiceHandler) Snapshots(ctx context.Context, symbols []string) map[string]domain.FundamentalSnapshot {
	out := make(map[string]domain.FundamentalSnapshot, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = h.Snapshot(ctx, symbol)
	}
	return out
}

func (h *fundamentalsServiceHandler) ClearCache() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache = map[string]domain.FundamentalSnapshot{}
}
