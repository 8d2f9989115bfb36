// Package websocket streams the scan journal to a collector over WebSocket.
package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/enemyradar/extension/pkg/core"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams journal records as JSON envelopes.
type Backend struct {
	link      *link
	cfg       Config
	sessionID string
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		link: newLink(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.link.open(b.cfg.URL, b.cfg.Secret)
}

// Close ends an open session, waiting for its ack, then disconnects.
func (b *Backend) Close() error {
	var endErr error
	if b.sessionID != "" {
		endErr = b.sendEnvelopeAndWait(TypeEndSession, EndSessionPayload{SessionID: b.sessionID})
		b.link.setHello(nil)
		b.sessionID = ""
	}
	return errors.Join(endErr, b.link.close())
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope pushes the payload to the write loop without waiting.
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.link.send(data)
	return nil
}

func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.link.request(data, msgType, ackTimeout)
}

// StartSession announces the session and waits for the server ack. The
// message is replayed after a reconnect.
func (b *Backend) StartSession(s *core.SessionInfo) error {
	data, err := marshalEnvelope(TypeStartSession, s)
	if err != nil {
		return err
	}

	b.link.setHello(data)
	b.sessionID = s.ID

	return b.link.request(data, TypeStartSession, ackTimeout)
}

func (b *Backend) RecordScan(e *core.ScanEvent) error {
	return b.sendEnvelope(TypeScan, e)
}

func (b *Backend) RecordLootScan(e *core.LootScanEvent) error {
	return b.sendEnvelope(TypeLootScan, e)
}

func (b *Backend) RecordHealthBinding(e *core.HealthBindingEvent) error {
	return b.sendEnvelope(TypeHealthBinding, e)
}

// Dropped is the number of records lost to a full outbox.
func (b *Backend) Dropped() int64 {
	return b.link.dropped.Load()
}
