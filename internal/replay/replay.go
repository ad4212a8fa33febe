// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package replay implements sshauth.Transport over a recorded transcript of
// USERAUTH messages, so the driver's state machine can be exercised end to
// end without a live SSH peer.
package replay

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Direction tags which side of the wire a recorded message belongs to.
type Direction string

const (
	// DirectionIn is a message the server sent to the client.
	DirectionIn Direction = "in"
	// DirectionOut is a message the transcript expects the client to
	// have sent; Transport does not replay these, it only records what
	// the driver actually sent for later comparison.
	DirectionOut Direction = "out"
)

// Message is one transcript entry.
type Message struct {
	Direction Direction `json:"direction"`
	PayloadHex string   `json:"payload_hex"`
}

// Transcript is the on-disk recording format consumed by LoadTranscript.
type Transcript struct {
	SessionIDHex string    `json:"session_id_hex"`
	Service      string    `json:"service"`
	Messages     []Message `json:"messages"`
}

// LoadTranscript reads and parses a JSON transcript file.
func LoadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read transcript: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("replay: parse transcript: %w", err)
	}
	return &t, nil
}

// Transport plays DirectionIn messages from a Transcript back to the
// driver, in order, and records every message the driver sends in Sent.
// It never performs a service negotiation or disconnect over the network;
// those are logged and acknowledged locally.
type Transport struct {
	log *logrus.Entry

	sessionID []byte
	inbound   [][]byte
	pos       int

	Sent          [][]byte
	Authenticated bool
}

// NewTransport builds a Transport from a parsed Transcript.
func NewTransport(t *Transcript, log *logrus.Entry) (*Transport, error) {
	sessionID, err := hex.DecodeString(t.SessionIDHex)
	if err != nil {
		return nil, fmt.Errorf("replay: decode session_id_hex: %w", err)
	}
	var inbound [][]byte
	for i, m := range t.Messages {
		if m.Direction != DirectionIn {
			continue
		}
		payload, err := hex.DecodeString(m.PayloadHex)
		if err != nil {
			return nil, fmt.Errorf("replay: decode message %d payload_hex: %w", i, err)
		}
		inbound = append(inbound, payload)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Transport{log: log, sessionID: sessionID, inbound: inbound}, nil
}

func (t *Transport) StartService(name string) error {
	t.log.WithField("service", name).Debug("replay: service start acknowledged locally")
	return nil
}

func (t *Transport) NextMessage() ([]byte, error) {
	if t.pos >= len(t.inbound) {
		return nil, fmt.Errorf("replay: transcript exhausted after %d inbound messages", t.pos)
	}
	msg := t.inbound[t.pos]
	t.pos++
	return msg, nil
}

func (t *Transport) SendMessage(payload []byte, highPriority bool) error {
	t.Sent = append(t.Sent, payload)
	t.log.WithField("bytes", len(payload)).Debug("replay: driver sent message")
	return nil
}

func (t *Transport) SessionIdentifier() []byte {
	return t.sessionID
}

func (t *Transport) MarkAuthenticated() {
	t.Authenticated = true
}

func (t *Transport) Disconnect(code uint32, reason string) error {
	t.log.WithFields(logrus.Fields{"code": code, "reason": reason}).Warn("replay: driver requested disconnect")
	return nil
}
