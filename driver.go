// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// discardLogger is the Driver's default logger: the core driver never
// writes to the process's stderr on its own, per this module's ambient
// logging contract. Callers opt into visible logging with WithLogger.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// Driver runs the RFC 4252 client side of SSH user authentication over a
// caller-supplied Transport. A Driver is created once per connection, after
// key exchange has produced a session identifier, and is discarded once
// IsAuthenticated reports true.
//
// A Driver is not safe for concurrent Authenticate calls; RFC 4252 §5.1
// itself requires requests to be made one at a time and their responses
// awaited before the next is sent, so internally a mutex enforces that
// serialization rather than leaving it to caller discipline.
type Driver struct {
	mu sync.Mutex

	transport Transport
	log       logrus.FieldLogger
	banner    BannerSink

	username string
	service  string

	authenticated bool
	sessionID     []byte
}

// NewDriver starts the ssh-userauth service on transport and returns a
// Driver ready to authenticate username for service. service is almost
// always "ssh-connection"; RFC 4252 §5 permits others.
func NewDriver(transport Transport, username, service string, opts ...Option) (*Driver, error) {
	if service == "" {
		service = serviceSSH
	}
	d := &Driver{
		transport: transport,
		log:       discardLogger(),
		banner:    discardBanners{},
		username:  username,
		service:   service,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := transport.StartService(serviceUserAuth); err != nil {
		return nil, &ServiceRejectedError{Service: serviceUserAuth, Err: err}
	}
	d.sessionID = transport.SessionIdentifier()
	d.log.WithField("user", username).Debug("ssh-userauth service started")
	return d, nil
}

// SessionIdentifier returns the key-exchange hash supplied by the
// transport, used by the publickey method to build its signed blob.
func (d *Driver) SessionIdentifier() []byte {
	return d.sessionID
}

// IsAuthenticated reports whether a prior ListMethods or Authenticate call
// completed successfully.
func (d *Driver) IsAuthenticated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.authenticated
}

// ListMethods probes the server with the "none" method (RFC 4252 §5.2) and
// returns the methods it is willing to continue with. It is typically the
// first call made on a fresh Driver. If the server accepts "none" outright,
// the Driver is marked authenticated and OutcomeComplete is returned.
func (d *Driver) ListMethods() (*Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.authenticated {
		return &Outcome{Kind: OutcomeComplete}, nil
	}
	if err := d.sendAuthRequest(d.username, d.service, methodNone, nil); err != nil {
		return nil, err
	}
	payload, outcome, err := d.readResponse()
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, d.violation(payloadType(payload), "expected FAILURE or SUCCESS in response to \"none\"")
	}
	return d.completeLocked(outcome), nil
}

// Authenticate drives method to completion against the server, returning
// the resulting Outcome. On OutcomeComplete the Driver is marked
// authenticated and the transport is notified via MarkAuthenticated.
func (d *Driver) Authenticate(method Method) (*Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.authenticated {
		return &Outcome{Kind: OutcomeComplete}, nil
	}

	h := &Handle{driver: d, username: d.username, service: d.service, method: method.Name()}
	d.log.WithField("method", method.Name()).Debug("starting authentication method")

	outcome, err := method.Run(h)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		// The method delegated classification of the next message to us.
		outcome, err = d.classifyNext()
		if err != nil {
			return nil, err
		}
	}
	return d.completeLocked(outcome), nil
}

// classifyNext reads one message and returns the Outcome it represents,
// used when a Method's Run returns (nil, nil) to ask the driver to finish
// the job itself.
func (d *Driver) classifyNext() (*Outcome, error) {
	payload, outcome, err := d.readResponse()
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, d.violation(payloadType(payload), "expected FAILURE or SUCCESS")
	}
	return outcome, nil
}

// completeLocked records an OutcomeComplete result on the driver and
// transport. Caller must hold d.mu.
func (d *Driver) completeLocked(outcome *Outcome) *Outcome {
	if outcome.Kind == OutcomeComplete {
		d.authenticated = true
		d.transport.MarkAuthenticated()
		d.log.WithField("user", d.username).Info("authentication succeeded")
	} else {
		d.log.WithFields(logrus.Fields{
			"outcome": outcome.Kind.String(),
			"methods": outcome.Methods,
		}).Debug("authentication attempt did not complete")
	}
	return outcome
}

// sendAuthRequest wraps and sends one SSH_MSG_USERAUTH_REQUEST.
func (d *Driver) sendAuthRequest(username, service, method string, methodData []byte) error {
	return d.sendRaw(marshalUserAuthRequest(username, service, method, methodData))
}

// sendRaw sends payload to the transport, tagged as a high-priority
// authentication-phase message.
func (d *Driver) sendRaw(payload []byte) error {
	if err := d.transport.SendMessage(payload, true); err != nil {
		return &TransportClosedError{Err: err}
	}
	return nil
}

// readResponse reads the next message, dispatching and swallowing any
// SSH_MSG_USERAUTH_BANNER messages along the way (RFC 4252 §5.4 permits the
// server to send any number of these, interleaved anywhere in the
// exchange). It returns the first non-banner payload, along with a non-nil
// Outcome if that payload was itself FAILURE or SUCCESS.
func (d *Driver) readResponse() ([]byte, *Outcome, error) {
	for {
		payload, err := d.transport.NextMessage()
		if err != nil {
			return nil, nil, &TransportClosedError{Err: err}
		}
		if len(payload) == 0 {
			return nil, nil, d.violation(0, "empty message")
		}
		switch payload[0] {
		case msgUserAuthBanner:
			b, err := decodeUserAuthBanner(payload)
			if err != nil {
				return nil, nil, d.violation(payload[0], err.Error())
			}
			d.banner.Banner(b.Message, b.Language)
			continue
		case msgUserAuthFailure:
			f, err := decodeUserAuthFailure(payload)
			if err != nil {
				return nil, nil, d.violation(payload[0], err.Error())
			}
			outcome := outcomeFromFailure(f)
			return payload, &outcome, nil
		case msgUserAuthSuccess:
			return payload, &Outcome{Kind: OutcomeComplete}, nil
		default:
			return payload, nil, nil
		}
	}
}

// violation disconnects the transport with PROTOCOL_ERROR and returns the
// error the caller should propagate.
func (d *Driver) violation(got byte, reason string) error {
	msg := fmt.Sprintf("protocol violation: %s", reason)
	if derr := d.transport.Disconnect(disconnectProtocolError, msg); derr != nil {
		d.log.WithError(derr).Warn("disconnect after protocol violation also failed")
	}
	return &ProtocolViolationError{Got: got, Reason: reason}
}
