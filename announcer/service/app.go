package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/metrics"
	"github.com/nodeops-io/tx-announcer/types"
)

// Target is one account processed by a run.
type Target struct {
	Node    types.NodeDescriptor
	Account types.NodeAccount
	// Signer is nil when the private key of the account is unknown, which
	// is fine for multisig accounts.
	Signer types.Signer
}

// RunOptions are the per-invocation settings given on the command line.
type RunOptions struct {
	URL                  string
	UseKnownRestGateways bool
	Ready                bool
	MaxFee               uint64
}

type AnnouncerApp struct {
	cfg       *config.Config
	newClient api.ClientFactory
	factory   types.TransactionFactory
	source    types.CredentialSource
	metrics   *metrics.AnnouncerMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewAnnouncerApp(
	cfg *config.Config,
	newClient api.ClientFactory,
	factory types.TransactionFactory,
	source types.CredentialSource,
	m *metrics.AnnouncerMetrics,
	logger *zap.Logger,
) *AnnouncerApp {
	return &AnnouncerApp{
		cfg:       cfg,
		newClient: newClient,
		factory:   factory,
		source:    source,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run announces the operations of every target. It returns an error only
// for conditions that abort the whole run; per-account failures are
// reported in the outcomes.
func (app *AnnouncerApp) Run(ctx context.Context, targets []Target, opts RunOptions) ([]types.AccountOutcome, error) {
	var candidates []string
	if opts.UseKnownRestGateways {
		candidates = app.cfg.LedgerConfig.KnownRestGateways
	}
	fallback := opts.URL
	if fallback == "" {
		fallback = app.cfg.LedgerConfig.URL
	}
	maxFee := opts.MaxFee
	if maxFee == 0 {
		maxFee = app.cfg.MaxFee
	}

	prober := NewEndpointProber(app.newClient, app.cfg.LedgerConfig, app.metrics, app.logger)
	endpoint, err := NewEndpointSelector(prober, app.logger).Select(ctx, candidates, fallback)
	if err != nil {
		return nil, err
	}

	lc, err := app.newClient(endpoint.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create the ledger client for %s: %w", endpoint.URL, err)
	}
	defer func() {
		_ = lc.Close()
	}()

	if err := ValidateNetwork(ctx, lc, app.cfg.NetworkGenerationHash); err != nil {
		return nil, err
	}

	currency, err := lc.CurrencyMosaic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query the currency mosaic: %w", err)
	}
	if currency.ID == "" {
		return nil, ErrMissingFeeMosaic
	}

	listener, err := lc.NewListener(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open the confirmation listener: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			app.logger.Debug("failed to close the confirmation listener", zap.Error(err))
		}
	}()

	inspector := NewAccountInspector(lc, *currency, app.cfg.FundingHint, app.logger)
	p := &accountProcessor{
		app:       app,
		inspector: inspector,
		collector: NewQuorumCollector(app.source, app.cfg.LedgerConfig.AddressPrefix, app.logger),
		planner:   NewSubmissionPlanner(inspector, *currency, app.logger),
		announcer: NewAnnouncer(lc, listener, app.source, AnnouncerOptions{
			NetworkGenerationHash: app.cfg.NetworkGenerationHash,
			MaxFee:                maxFee,
			Deadline:              app.cfg.Deadline,
			Ready:                 opts.Ready,
		}, app.metrics, app.logger),
		maxFee: maxFee,
	}

	outcomes := make([]types.AccountOutcome, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			app.summarize(outcomes)

			return outcomes, err
		}

		outcome := p.process(ctx, target)
		app.metrics.RecordAccount(string(outcome.State))
		outcomes = append(outcomes, outcome)
	}

	app.summarize(outcomes)

	return outcomes, ctx.Err()
}

// PushMetrics sends the metrics of the run when a Pushgateway is set.
func (app *AnnouncerApp) PushMetrics(ctx context.Context) {
	if !app.cfg.Metrics.Enabled() {
		return
	}
	if err := app.metrics.Push(ctx, app.cfg.Metrics); err != nil {
		app.logger.Warn("failed to push metrics", zap.String("url", app.cfg.Metrics.PushGatewayURL), zap.Error(err))
	}
}

func (app *AnnouncerApp) summarize(outcomes []types.AccountOutcome) {
	counts := make(map[types.AccountState]int)
	for _, o := range outcomes {
		counts[o.State]++
		fields := []zap.Field{
			zap.String("node", o.Node),
			zap.String("address", o.Address),
			zap.String("state", string(o.State)),
		}
		if o.Reason != "" {
			fields = append(fields, zap.String("reason", o.Reason))
		}
		if len(o.Hashes) > 0 {
			fields = append(fields, zap.Strings("hashes", o.Hashes))
		}
		app.logger.Info("account processed", fields...)
	}

	app.logger.Info("run finished",
		zap.Int("accounts", len(outcomes)),
		zap.Int(string(types.AccountConfirmed), counts[types.AccountConfirmed]),
		zap.Int(string(types.AccountAnnouncedPendingCosignature), counts[types.AccountAnnouncedPendingCosignature]),
		zap.Int(string(types.AccountSkipped), counts[types.AccountSkipped]),
		zap.Int(string(types.AccountFailed), counts[types.AccountFailed]),
	)
}

type accountProcessor struct {
	app       *AnnouncerApp
	inspector *AccountInspector
	collector *QuorumCollector
	planner   *SubmissionPlanner
	announcer *Announcer
	maxFee    uint64
}

func (p *accountProcessor) process(ctx context.Context, target Target) types.AccountOutcome {
	node := target.Node.Name
	address := target.Account.Main.Address
	logger := p.app.logger.With(zap.String("node", node), zap.String("address", address))

	funding, err := p.inspector.Inspect(ctx, address)
	if err != nil {
		logger.Error("failed to inspect the account", zap.Error(err))

		return types.Failed(node, address, err.Error())
	}
	if funding == nil {
		p.inspector.ReportUnfunded(address, nil)

		return types.Skipped(node, address, "account not found on the network")
	}

	multisig, err := p.inspector.Multisig(ctx, address)
	if err != nil {
		logger.Error("failed to inspect the account", zap.Error(err))

		return types.Failed(node, address, err.Error())
	}

	account := target.Account.Main
	if account.PublicKey == "" {
		account.PublicKey = funding.PublicKey
	}

	if multisig == nil {
		if target.Signer == nil {
			logger.Warn("skipping the account", zap.Error(ErrMissingSigningKey))

			return types.Skipped(node, address, ErrMissingSigningKey.Error())
		}
		if !p.inspector.IsFunded(funding) {
			p.inspector.ReportUnfunded(address, funding)

			return types.Skipped(node, address, "account has no tokens to pay the fees")
		}
	}

	ops, err := p.app.factory.CreateOperations(ctx, types.FactoryRequest{
		Preset:             p.app.cfg.Preset,
		Node:               target.Node,
		NodeAccount:        target.Account,
		MainAccountFunding: funding,
		MainAccount:        account,
		Deadline:           p.app.now().Add(p.app.cfg.Deadline),
		MaxFee:             p.maxFee,
	})
	if err != nil {
		logger.Error("failed to create the operations", zap.Error(err))

		return types.Failed(node, address, err.Error())
	}
	if len(ops) == 0 {
		logger.Info("nothing to announce")

		return types.Skipped(node, address, ErrNoOperations.Error())
	}

	var plan *types.SubmissionPlan
	if multisig == nil {
		plan, err = p.planner.PlanSimple(account, target.Signer, ops)
	} else {
		quorum := p.collector.Collect(ctx, multisig)
		if quorum.State == QuorumCancelled {
			return types.Skipped(node, address, "cosignature collection cancelled")
		}
		plan, err = p.planner.PlanMultisig(ctx, account, multisig, quorum.Cosigners, ops)
	}
	if err != nil {
		if errors.Is(err, ErrNoCosigner) || errors.Is(err, ErrNoSolventCosigner) || errors.Is(err, ErrMissingSigningKey) {
			logger.Warn("skipping the account", zap.Error(err))

			return types.Skipped(node, address, err.Error())
		}
		logger.Error("failed to plan the submission", zap.Error(err))

		return types.Failed(node, address, err.Error())
	}

	return p.announcer.Announce(ctx, node, plan)
}
