package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/nodeops-io/tx-announcer/clientcontroller/api"
)

const (
	topicConfirmed = "confirmedAdded"
	topicPartial   = "partialAdded"
	topicStatus    = "status"

	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

var _ api.ConfirmationListener = &Listener{}

type resultKey struct {
	topic string
	hash  string
}

type bufferedResult struct {
	err error
	at  time.Time
}

// Listener receives transaction notifications over the gateway websocket
// and hands them to the goroutine awaiting the same hash. Notifications
// arriving before anyone waits are kept until they are awaited or for one
// confirmation timeout, whichever comes first.
type Listener struct {
	conn    *websocket.Conn
	uid     string
	timeout time.Duration
	logger  *zap.Logger

	writeMu sync.Mutex

	mu         sync.Mutex
	subscribed map[string]struct{}
	results    map[resultKey]bufferedResult
	waiters    map[resultKey][]chan error
	readErr    error

	isClosed  *atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// DialListener connects to the websocket of the gateway at baseURL and
// completes the uid handshake.
func DialListener(ctx context.Context, baseURL string, timeout time.Duration, logger *zap.Logger) (*Listener, error) {
	endpointURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	switch endpointURL.Scheme {
	case "http":
		endpointURL.Scheme = "ws"
	case "https":
		endpointURL.Scheme = "wss"
	}
	endpointURL.Path = strings.TrimRight(endpointURL.Path, "/") + "/ws"

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout
	conn, _, err := dialer.DialContext(ctx, endpointURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpointURL.String(), err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	var hello uidMessage
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to read the websocket handshake: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	if hello.UID == "" {
		_ = conn.Close()

		return nil, errorsmod.Wrap(api.ErrUnexpectedResponse, "websocket handshake without uid")
	}

	l := &Listener{
		conn:       conn,
		uid:        hello.UID,
		timeout:    timeout,
		logger:     logger,
		subscribed: make(map[string]struct{}),
		results:    make(map[resultKey]bufferedResult),
		waiters:    make(map[resultKey][]chan error),
		isClosed:   atomic.NewBool(false),
		done:       make(chan struct{}),
	}

	go l.readLoop()

	logger.Debug("confirmation listener connected", zap.String("uid", l.uid))

	return l, nil
}

func (l *Listener) Subscribe(_ context.Context, address string) error {
	if l.isClosed.Load() {
		return api.ErrListenerClosed
	}

	l.mu.Lock()
	if _, ok := l.subscribed[address]; ok {
		l.mu.Unlock()

		return nil
	}
	l.subscribed[address] = struct{}{}
	l.mu.Unlock()

	for _, topic := range []string{topicConfirmed, topicPartial, topicStatus} {
		if err := l.write(subscribeMessage{UID: l.uid, Subscribe: topic + "/" + address}); err != nil {
			l.mu.Lock()
			delete(l.subscribed, address)
			l.mu.Unlock()

			return fmt.Errorf("failed to subscribe to %s/%s: %w", topic, address, err)
		}
	}

	return nil
}

func (l *Listener) AwaitConfirmed(ctx context.Context, hash, signer string) error {
	return l.await(ctx, topicConfirmed, hash, signer)
}

func (l *Listener) AwaitPartial(ctx context.Context, hash, signer string) error {
	return l.await(ctx, topicPartial, hash, signer)
}

func (l *Listener) await(ctx context.Context, topic, hash, signer string) error {
	key := resultKey{topic: topic, hash: strings.ToUpper(hash)}
	ch := make(chan error, 1)

	// a rejection is kept once for both topics
	statusKey := resultKey{topic: topicStatus, hash: key.hash}

	l.mu.Lock()
	for _, k := range []resultKey{key, statusKey} {
		if res, ok := l.results[k]; ok {
			delete(l.results, k)
			l.mu.Unlock()

			return res.err
		}
	}
	if l.isClosed.Load() {
		err := l.readErr
		l.mu.Unlock()

		return errorsmod.Wrapf(api.ErrListenerClosed, "awaiting %s of %s signed by %s: %v", topic, hash, signer, err)
	}
	l.waiters[key] = append(l.waiters[key], ch)
	l.mu.Unlock()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case err := <-ch:
		return err
	case <-timer.C:
		l.removeWaiter(key, ch)

		return errorsmod.Wrapf(api.ErrConfirmationTimeout, "%s of %s signed by %s not seen after %v", topic, hash, signer, l.timeout)
	case <-ctx.Done():
		l.removeWaiter(key, ch)

		return ctx.Err()
	}
}

func (l *Listener) removeWaiter(key resultKey, ch chan error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans := l.waiters[key]
	for i, c := range chans {
		if c == ch {
			chans = append(chans[:i], chans[i+1:]...)

			break
		}
	}
	if len(chans) == 0 {
		delete(l.waiters, key)
	} else {
		l.waiters[key] = chans
	}
}

// deliver hands res to the waiters of keys. Without any waiter the result
// is buffered under bufferKey.
func (l *Listener) deliver(bufferKey resultKey, res error, keys ...resultKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delivered := false
	for _, key := range keys {
		chans, ok := l.waiters[key]
		if !ok {
			continue
		}
		delete(l.waiters, key)
		for _, ch := range chans {
			ch <- res
		}
		delivered = true
	}
	if delivered {
		return
	}

	now := time.Now()
	l.pruneResults(now)
	l.results[bufferKey] = bufferedResult{err: res, at: now}
}

// pruneResults drops results nobody awaited within the confirmation
// timeout, e.g. other transactions of a subscribed signer.
func (l *Listener) pruneResults(now time.Time) {
	for key, res := range l.results {
		if now.Sub(res.at) > l.timeout {
			delete(l.results, key)
		}
	}
}

func (l *Listener) readLoop() {
	defer close(l.done)

	for {
		_, msg, err := l.conn.ReadMessage()
		if err != nil {
			l.shutdown(err)

			return
		}

		var event eventMessage
		if err := json.Unmarshal(msg, &event); err != nil {
			l.logger.Debug("ignoring malformed websocket message", zap.Error(err))

			continue
		}
		l.handleEvent(event)
	}
}

func (l *Listener) handleEvent(event eventMessage) {
	channel, _, _ := strings.Cut(event.Topic, "/")

	switch channel {
	case topicConfirmed, topicPartial:
		var tx transactionEvent
		if err := json.Unmarshal(event.Data, &tx); err != nil || tx.Meta.Hash == "" {
			l.logger.Debug("ignoring transaction event without hash", zap.String("topic", event.Topic))

			return
		}
		key := resultKey{topic: channel, hash: strings.ToUpper(tx.Meta.Hash)}
		l.deliver(key, nil, key)
	case topicStatus:
		var status statusEvent
		if err := json.Unmarshal(event.Data, &status); err != nil || status.Hash == "" {
			l.logger.Debug("ignoring status event without hash", zap.String("topic", event.Topic))

			return
		}
		hash := strings.ToUpper(status.Hash)
		rejected := errorsmod.Wrapf(api.ErrTxRejected, "transaction %s: %s", hash, status.Code)
		l.deliver(
			resultKey{topic: topicStatus, hash: hash},
			rejected,
			resultKey{topic: topicConfirmed, hash: hash},
			resultKey{topic: topicPartial, hash: hash},
		)
	default:
		l.logger.Debug("ignoring websocket message", zap.String("topic", event.Topic))
	}
}

// shutdown fails every pending waiter once the connection is gone.
func (l *Listener) shutdown(cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isClosed.Swap(true) {
		l.logger.Debug("confirmation listener stopped", zap.Error(cause))
	}
	l.readErr = cause
	for key, chans := range l.waiters {
		for _, ch := range chans {
			ch <- errorsmod.Wrapf(api.ErrListenerClosed, "awaiting %s of %s: %v", key.topic, key.hash, cause)
		}
		delete(l.waiters, key)
	}
}

func (l *Listener) write(v any) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	_ = l.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	return l.conn.WriteJSON(v)
}

func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		if !l.isClosed.Load() {
			l.writeMu.Lock()
			_ = l.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout),
			)
			l.writeMu.Unlock()
		}
		l.isClosed.Store(true)
		l.closeErr = l.conn.Close()
		<-l.done
	})

	return l.closeErr
}
