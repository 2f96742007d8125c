package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/internal/domain/interfaces"
	"github.com/TerryChengTW/coin-porter/internal/normalize"
	"github.com/TerryChengTW/coin-porter/internal/registry"
	"github.com/TerryChengTW/coin-porter/pkg/config"
)

type resolutionService struct {
	fetchers   map[string]interfaces.CapabilityFetcher
	normalizer *normalize.Normalizer
	registry   *registry.Registry
	cfg        config.ResolverConfig
	evaluator  *Evaluator
	bridge     *BridgeSearch
	workerPool chan struct{}
	now        func() time.Time
	logger     zerolog.Logger
}

func NewResolutionService(
	fetchers []interfaces.CapabilityFetcher,
	normalizer *normalize.Normalizer,
	reg *registry.Registry,
	cfg config.ResolverConfig,
	blockTimes map[string]int64,
	logger zerolog.Logger,
) (IResolutionService, error) {
	if len(fetchers) == 0 {
		return nil, fmt.Errorf("%w: no capability fetchers configured", domain.ErrConfiguration)
	}

	byID := make(map[string]interfaces.CapabilityFetcher, len(fetchers))
	for _, f := range fetchers {
		if !normalizer.Supports(f.ExchangeID()) {
			return nil, fmt.Errorf("%w: no normalizer decoder for exchange %s", domain.ErrConfiguration, f.ExchangeID())
		}
		byID[f.ExchangeID()] = f
	}

	evaluator := NewEvaluator(cfg, blockTimes)
	return &resolutionService{
		fetchers:   byID,
		normalizer: normalizer,
		registry:   reg,
		cfg:        cfg,
		evaluator:  evaluator,
		bridge:     NewBridgeSearch(evaluator),
		workerPool: make(chan struct{}, cfg.ConcurrentFetches),
		now:        time.Now,
		logger:     logger.With().Str("component", "resolver").Logger(),
	}, nil
}

func (s *resolutionService) KnownExchanges() []string {
	ids := make([]string, 0, len(s.fetchers))
	for id := range s.fetchers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *resolutionService) Resolve(ctx context.Context, req *domain.ResolveRequest) (*domain.Decision, error) {
	startTime := s.now()
	requestID := uuid.New().String()

	if err := s.validate(req); err != nil {
		return nil, err
	}

	coin := strings.ToUpper(req.Coin)
	maxHops := req.Options.MaxHops
	if maxHops == 0 {
		maxHops = s.cfg.MaxHops
	}
	bridges := s.bridgeAllowlist(req)

	s.logger.Info().
		Str("request_id", requestID).
		Str("source", req.SourceExchange).
		Str("dest", req.DestExchange).
		Str("coin", coin).
		Str("amount", req.Amount.String()).
		Int("max_hops", maxHops).
		Msg("Starting path resolution")

	pairs := s.neededPairs(req, coin, maxHops, bridges)
	snapshots, fetchFailures := s.ensureSnapshots(ctx, pairs)

	lookup := func(exchangeID, c string) *domain.CoinCapability {
		return snapshots[snapKey(exchangeID, c)]
	}

	var candidates []domain.TransferCandidate
	direct := DirectNetworks(lookup(req.SourceExchange, coin), lookup(req.DestExchange, coin))
	for _, chainID := range direct {
		hops := []domain.HopLeg{{
			FromExchange: req.SourceExchange,
			ToExchange:   req.DestExchange,
			Coin:         coin,
			ChainID:      chainID,
		}}
		candidates = append(candidates, s.evaluator.Evaluate(hops, lookup, req.Amount))
	}

	// The bridge search runs only when no direct network intersects:
	// absence of a direct path is a normal outcome, not an error.
	if len(direct) == 0 && maxHops >= 2 {
		candidates = append(candidates, s.bridge.Resolve(
			req.SourceExchange, req.DestExchange, coin,
			bridges, s.cfg.BridgeCoins, req.Options.AllowBridgeConversion,
			lookup, req.Amount,
		)...)
	}

	ranked, best, reasons := Select(candidates)

	decision := &domain.Decision{
		RequestID:      requestID,
		Best:           best,
		Ranked:         ranked,
		Reason:         reasons,
		ProcessingTime: s.now().Sub(startTime),
	}

	if best == nil {
		if len(candidates) == 0 {
			decision.Reason = append(decision.Reason,
				fmt.Sprintf("no path found: no shared network for %s between %s and %s (attempted bridges: %s)",
					coin, req.SourceExchange, req.DestExchange, strings.Join(bridges, ", ")))
		}
		decision.Reason = append(decision.Reason, fetchFailures...)
	}

	s.logger.Info().
		Str("request_id", requestID).
		Int("candidates", len(ranked)).
		Bool("path_found", best != nil).
		Dur("processing_time", decision.ProcessingTime).
		Msg("Path resolution completed")

	return decision, nil
}

func (s *resolutionService) Capabilities(ctx context.Context, exchangeID, coin string) (*domain.CoinCapability, error) {
	if _, ok := s.fetchers[exchangeID]; !ok {
		return nil, fmt.Errorf("unknown exchange: %s", exchangeID)
	}
	cap, err := s.ensureSnapshot(ctx, exchangeID, strings.ToUpper(coin))
	if err != nil {
		if errors.Is(err, domain.ErrCoinNotListed) {
			return nil, nil
		}
		return nil, err
	}
	return cap, nil
}

func (s *resolutionService) validate(req *domain.ResolveRequest) error {
	if _, ok := s.fetchers[req.SourceExchange]; !ok {
		return fmt.Errorf("unknown source exchange: %s", req.SourceExchange)
	}
	if _, ok := s.fetchers[req.DestExchange]; !ok {
		return fmt.Errorf("unknown destination exchange: %s", req.DestExchange)
	}
	if req.SourceExchange == req.DestExchange {
		return fmt.Errorf("source and destination exchange must differ")
	}
	if req.Coin == "" {
		return fmt.Errorf("coin is required")
	}
	if req.Amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if req.Options.MaxHops < 0 || req.Options.MaxHops > 2 {
		return fmt.Errorf("max_hops must be 1 or 2")
	}
	return nil
}

func (s *resolutionService) bridgeAllowlist(req *domain.ResolveRequest) []string {
	if len(req.Options.BridgeExchangeAllowlist) > 0 {
		var allowed []string
		for _, id := range req.Options.BridgeExchangeAllowlist {
			if _, ok := s.fetchers[id]; ok && id != req.SourceExchange && id != req.DestExchange {
				allowed = append(allowed, id)
			}
		}
		sort.Strings(allowed)
		return allowed
	}
	var allowed []string
	for id := range s.fetchers {
		if id != req.SourceExchange && id != req.DestExchange {
			allowed = append(allowed, id)
		}
	}
	sort.Strings(allowed)
	return allowed
}

type pair struct {
	exchangeID string
	coin       string
}

func snapKey(exchangeID, coin string) string { return exchangeID + "|" + coin }

func (s *resolutionService) neededPairs(req *domain.ResolveRequest, coin string, maxHops int, bridges []string) []pair {
	seen := map[pair]bool{}
	add := func(p pair) { seen[p] = true }

	add(pair{req.SourceExchange, coin})
	add(pair{req.DestExchange, coin})

	if maxHops >= 2 {
		for _, b := range bridges {
			add(pair{b, coin})
			if req.Options.AllowBridgeConversion {
				for _, c := range s.cfg.BridgeCoins {
					add(pair{b, strings.ToUpper(c)})
					add(pair{req.DestExchange, strings.ToUpper(c)})
				}
			}
		}
	}

	pairs := make([]pair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	return pairs
}

// ensureSnapshots refreshes every needed (exchange, coin) entry
// concurrently and blocks until all fetches complete or time out. A failed
// fetch degrades only the candidates that depend on that exchange's data;
// the failure reason is recorded for the decision.
func (s *resolutionService) ensureSnapshots(ctx context.Context, pairs []pair) (map[string]*domain.CoinCapability, []string) {
	snapshots := make(map[string]*domain.CoinCapability, len(pairs))
	var failures []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range pairs {
		wg.Add(1)
		go func(p pair) {
			defer wg.Done()

			s.workerPool <- struct{}{}
			defer func() { <-s.workerPool }()

			cap, err := s.ensureSnapshot(ctx, p.exchangeID, p.coin)

			mu.Lock()
			defer mu.Unlock()
			if cap != nil {
				snapshots[snapKey(p.exchangeID, p.coin)] = cap
			}
			if err != nil {
				failures = append(failures, err.Error())
			}
		}(p)
	}
	wg.Wait()

	sort.Strings(failures)
	return snapshots, failures
}

// ensureSnapshot returns a usable capability for the pair, fetching when
// the cached entry is missing or past its TTL. On a failed refresh an
// expired snapshot is still served (writes are idempotent full
// replacements, so stale data is merely old, never inconsistent); with no
// fallback the failure is returned instead. An unlisted coin comes back as
// ErrCoinNotListed.
func (s *resolutionService) ensureSnapshot(ctx context.Context, exchangeID, coin string) (*domain.CoinCapability, error) {
	snap, ok, fresh := s.registry.Get(exchangeID, coin)
	if ok && fresh {
		return snap.Capability, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	fetcher := s.fetchers[exchangeID]
	raw, err := fetcher.FetchCapabilities(fetchCtx, coin)
	if err != nil {
		kind := domain.FetchUnknown
		if fe, isFetch := domain.AsFetchError(err); isFetch {
			kind = fe.Kind
		}
		s.logger.Warn().
			Err(err).
			Str("exchange", exchangeID).
			Str("coin", coin).
			Msg("Capability fetch failed")

		if ok {
			// Expired but present: serve it rather than dropping the whole
			// exchange out of the candidate set.
			return snap.Capability, nil
		}
		return nil, fmt.Errorf("%s: capability unavailable for %s (%s)", exchangeID, coin, kind)
	}

	cap, err := s.normalizer.NormalizeCoin(exchangeID, coin, raw)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("exchange", exchangeID).
			Str("coin", coin).
			Msg("Capability payload failed normalization")
		if ok {
			return snap.Capability, nil
		}
		return nil, fmt.Errorf("%s: capability data malformed for %s", exchangeID, coin)
	}
	if cap == nil {
		return nil, fmt.Errorf("%s: %s is %w", exchangeID, coin, domain.ErrCoinNotListed)
	}

	// An in-flight fetch may land after the caller moved on; the write is
	// a full-replacement snapshot either way.
	s.registry.Put(exchangeID, coin, cap, s.now())
	return cap, nil
}
