package service

import (
	"context"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/types"
)

// AccountInspector reads the funding and multisig state of accounts.
type AccountInspector struct {
	lc          api.LedgerClient
	currency    types.CurrencyMosaic
	fundingHint string
	logger      *zap.Logger
}

func NewAccountInspector(lc api.LedgerClient, currency types.CurrencyMosaic, fundingHint string, logger *zap.Logger) *AccountInspector {
	return &AccountInspector{
		lc:          lc,
		currency:    currency,
		fundingHint: fundingHint,
		logger:      logger,
	}
}

// Inspect returns nil without error when the network does not know the
// account.
func (ai *AccountInspector) Inspect(ctx context.Context, address string) (*types.AccountFunding, error) {
	funding, err := ai.lc.AccountInfo(ctx, address)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account %s: %w", address, err)
	}

	return funding, nil
}

// Multisig returns nil without error when the account is not multisig.
func (ai *AccountInspector) Multisig(ctx context.Context, address string) (*types.MultisigInfo, error) {
	info, err := ai.lc.MultisigInfo(ctx, address)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query multisig of %s: %w", address, err)
	}
	if !info.IsMultisig() {
		return nil, nil
	}

	return info, nil
}

// IsFunded reports whether funding holds a strictly positive amount of the
// fee mosaic. The fee mosaic id is mandatory.
func IsFunded(funding *types.AccountFunding, feeMosaicID string) bool {
	if feeMosaicID == "" {
		panic("fee mosaic id must be known before checking balances")
	}

	return funding.Balance(feeMosaicID).IsPositive()
}

func (ai *AccountInspector) IsFunded(funding *types.AccountFunding) bool {
	return IsFunded(funding, ai.currency.ID)
}

// FormatAmount renders an absolute amount in relative units of the
// currency.
func (ai *AccountInspector) FormatAmount(amount sdkmath.Int) string {
	if amount.IsNil() {
		amount = sdkmath.ZeroInt()
	}

	return decimal.NewFromBigInt(amount.BigInt(), -int32(ai.currency.Divisibility)).String()
}

// ReportUnfunded logs why an account cannot pay fees and where to get funds.
func (ai *AccountInspector) ReportUnfunded(address string, funding *types.AccountFunding) {
	fields := []zap.Field{
		zap.String("address", address),
		zap.String("fee_mosaic", ai.currency.ID),
	}
	if funding != nil {
		fields = append(fields, zap.String("balance", ai.FormatAmount(funding.Balance(ai.currency.ID))))
	}
	if ai.fundingHint != "" {
		fields = append(fields, zap.String("funding_hint", ai.fundingHint))
	}

	if funding == nil {
		ai.logger.Warn("the account is unknown to the network, fund it first", fields...)

		return
	}
	ai.logger.Warn("the account has no tokens to pay the fees", fields...)
}
