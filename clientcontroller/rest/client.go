package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/announcer/config"
	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
	"github.com/nodeops-io/tx-announcer/types"
)

const maxErrorBodySize = 512

var _ api.LedgerClient = &Client{}

// Client is a LedgerClient talking to a REST gateway.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	cfg        *config.LedgerConfig
	logger     *zap.Logger
}

func NewClient(rawURL string, cfg *config.LedgerConfig, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid gateway url %s: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway url %s: expected http(s)://host[:port]", rawURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		logger:     logger.With(zap.String("url", u.String())),
	}, nil
}

func (c *Client) URL() string {
	return c.baseURL.String()
}

func (c *Client) NetworkGenerationHash(ctx context.Context) (string, error) {
	var res nodeInfoResponse
	if err := c.getWithRetry(ctx, "/node/info", &res); err != nil {
		return "", err
	}
	if res.NetworkGenerationHashSeed == "" {
		return "", errorsmod.Wrap(api.ErrUnexpectedResponse, "empty network generation hash")
	}

	return res.NetworkGenerationHashSeed, nil
}

func (c *Client) ChainHeight(ctx context.Context) (uint64, error) {
	var res chainInfoResponse
	if err := c.getWithRetry(ctx, "/chain/info", &res); err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(res.Height, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(api.ErrUnexpectedResponse, "invalid chain height %q", res.Height)
	}

	return height, nil
}

// CurrencyMosaic returns the fee mosaic. An empty id is returned as is and
// handled by the caller.
func (c *Client) CurrencyMosaic(ctx context.Context) (*types.CurrencyMosaic, error) {
	var props networkPropertiesResponse
	if err := c.getWithRetry(ctx, "/network/properties", &props); err != nil {
		return nil, err
	}
	id := types.NormalizeMosaicID(props.Chain.CurrencyMosaicID)
	if id == "" {
		return &types.CurrencyMosaic{}, nil
	}

	var mosaic mosaicResponse
	if err := c.getWithRetry(ctx, "/mosaics/"+url.PathEscape(id), &mosaic); err != nil {
		return nil, err
	}

	return &types.CurrencyMosaic{
		ID:           id,
		Divisibility: mosaic.Mosaic.Divisibility,
	}, nil
}

func (c *Client) AccountInfo(ctx context.Context, address string) (*types.AccountFunding, error) {
	var res accountResponse
	if err := c.getWithRetry(ctx, "/accounts/"+url.PathEscape(address), &res); err != nil {
		return nil, err
	}

	funding := &types.AccountFunding{
		Address:   res.Account.Address,
		PublicKey: res.Account.PublicKey,
		Mosaics:   make([]types.MosaicBalance, 0, len(res.Account.Mosaics)),
	}
	if funding.Address == "" {
		funding.Address = address
	}
	for _, m := range res.Account.Mosaics {
		amount, ok := sdkmath.NewIntFromString(m.Amount)
		if !ok {
			return nil, errorsmod.Wrapf(api.ErrUnexpectedResponse, "invalid amount %q of mosaic %s", m.Amount, m.ID)
		}
		funding.Mosaics = append(funding.Mosaics, types.MosaicBalance{
			ID:     types.NormalizeMosaicID(m.ID),
			Amount: amount,
		})
	}

	return funding, nil
}

func (c *Client) MultisigInfo(ctx context.Context, address string) (*types.MultisigInfo, error) {
	var res multisigResponse
	if err := c.getWithRetry(ctx, "/account/"+url.PathEscape(address)+"/multisig", &res); err != nil {
		return nil, err
	}

	return &types.MultisigInfo{
		AccountAddress:       res.Multisig.AccountAddress,
		CosignatoryAddresses: res.Multisig.CosignatoryAddresses,
		MinApproval:          res.Multisig.MinApproval,
		MinRemoval:           res.Multisig.MinRemoval,
	}, nil
}

func (c *Client) Announce(ctx context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
	return c.announce(ctx, "/transactions", tx)
}

func (c *Client) AnnouncePartial(ctx context.Context, tx *types.SignedTransaction) (*types.TxResponse, error) {
	return c.announce(ctx, "/transactions/partial", tx)
}

// announce is never retried: the gateway may have accepted a request whose
// response was lost and the confirmation listener reports the outcome.
func (c *Client) announce(ctx context.Context, path string, tx *types.SignedTransaction) (*types.TxResponse, error) {
	var res announceResponse
	err := c.do(ctx, http.MethodPut, path, announceRequest{Payload: tx.Payload}, &res)
	if err != nil {
		return nil, errorsmod.Wrapf(err, "failed to announce %s transaction %s", tx.Kind, tx.Hash)
	}

	return &types.TxResponse{TxHash: tx.Hash, Message: res.Message}, nil
}

func (c *Client) NewListener(ctx context.Context) (api.ConfirmationListener, error) {
	return DialListener(ctx, c.baseURL.String(), c.cfg.ConfirmationTimeout, c.logger)
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()

	return nil
}

func (c *Client) getWithRetry(ctx context.Context, path string, out any) error {
	return retry.Do(func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	},
		retry.Context(ctx),
		retry.Attempts(uint(c.cfg.MaxRetryAttempts)),
		retry.Delay(c.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// the answer of a gateway does not change by asking again
			return !errors.Is(err, api.ErrNotFound) && !errors.Is(err, api.ErrUnexpectedResponse)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug(
				"failed to query the gateway",
				zap.String("path", path),
				zap.Uint("attempt", n+1),
				zap.Uint32("max_attempts", c.cfg.MaxRetryAttempts),
				zap.Error(err),
			)
		}),
	)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errorsmod.Wrapf(api.ErrNotFound, "%s %s", method, path)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s %s: gateway returned %s", method, path, resp.Status)
	case resp.StatusCode >= http.StatusBadRequest:
		code := api.ErrUnexpectedResponse
		if method != http.MethodGet {
			code = api.ErrTxRejected
		}

		return errorsmod.Wrapf(code, "%s %s: %s: %s", method, path, resp.Status, readErrorBody(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return errorsmod.Wrapf(api.ErrUnexpectedResponse, "%s %s: %v", method, path, err)
	}

	return nil
}

func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}

	return strings.TrimSpace(string(raw))
}
