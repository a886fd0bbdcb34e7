package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/types"
)

// EndpointProber queries candidate endpoints for their chain height.
type EndpointProber struct {
	newClient      api.ClientFactory
	timeout        time.Duration
	maxConcurrency int
	metrics        *metrics.AnnouncerMetrics
	logger         *zap.Logger
}

func NewEndpointProber(
	newClient api.ClientFactory,
	cfg *config.LedgerConfig,
	m *metrics.AnnouncerMetrics,
	logger *zap.Logger,
) *EndpointProber {
	return &EndpointProber{
		newClient:      newClient,
		timeout:        cfg.ProbeTimeout,
		maxConcurrency: int(cfg.MaxProbeConcurrency),
		metrics:        m,
		logger:         logger,
	}
}

// Probe never fails: a failed probe yields an endpoint without height.
func (p *EndpointProber) Probe(ctx context.Context, url string) types.Endpoint {
	ep := types.Endpoint{URL: url}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	lc, err := p.newClient(url)
	if err != nil {
		ep.Err = err
		p.record(ep)

		return ep
	}
	defer func() {
		_ = lc.Close()
	}()

	height, err := lc.ChainHeight(ctx)
	if err != nil {
		ep.Err = err
		p.record(ep)

		return ep
	}
	ep.ChainHeight = &height

	// the generation hash is informational here; the selected endpoint is
	// validated against the configuration afterwards
	if hash, err := lc.NetworkGenerationHash(ctx); err == nil {
		ep.NetworkGenerationHash = hash
	}
	p.record(ep)

	return ep
}

func (p *EndpointProber) record(ep types.Endpoint) {
	p.metrics.RecordProbe(ep.IsHealthy())
	if !ep.IsHealthy() {
		p.logger.Debug("endpoint probe failed", zap.String("url", ep.URL), zap.Error(ep.Err))
	}
}

// ProbeAll probes every url concurrently and returns when all probes are
// done. The result keeps the order of urls.
func (p *EndpointProber) ProbeAll(ctx context.Context, urls []string) []types.Endpoint {
	mapper := iter.Mapper[string, types.Endpoint]{MaxGoroutines: p.maxConcurrency}

	return mapper.Map(urls, func(url *string) types.Endpoint {
		return p.Probe(ctx, *url)
	})
}

// SelectBest returns the healthy endpoint with the highest chain height.
// Endpoints at the same height keep their relative order.
func SelectBest(endpoints []types.Endpoint) (types.Endpoint, error) {
	healthy := make([]types.Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if ep.IsHealthy() {
			healthy = append(healthy, ep)
		}
	}
	if len(healthy) == 0 {
		return types.Endpoint{}, ErrNoHealthyEndpoint
	}

	sort.SliceStable(healthy, func(i, j int) bool {
		return healthy[i].Height() > healthy[j].Height()
	})

	return healthy[0], nil
}

type EndpointSelector struct {
	prober *EndpointProber
	logger *zap.Logger
}

func NewEndpointSelector(prober *EndpointProber, logger *zap.Logger) *EndpointSelector {
	return &EndpointSelector{prober: prober, logger: logger}
}

// Select picks the endpoint of the run. Without candidates the fallback
// url is used as is, without probing.
func (s *EndpointSelector) Select(ctx context.Context, candidates []string, fallback string) (types.Endpoint, error) {
	if len(candidates) == 0 {
		s.logger.Info("using the configured endpoint", zap.String("url", fallback))

		return types.Endpoint{URL: fallback}, nil
	}

	s.logger.Info("probing known endpoints", zap.Int("candidates", len(candidates)))

	best, err := SelectBest(s.prober.ProbeAll(ctx, candidates))
	if err != nil {
		return types.Endpoint{}, fmt.Errorf("%w: probed %d candidates", err, len(candidates))
	}

	s.prober.metrics.RecordEndpointHeight(best.Height())
	s.logger.Info("selected the endpoint with the highest chain",
		zap.String("url", best.URL),
		zap.Uint64("height", best.Height()),
	)

	return best, nil
}
