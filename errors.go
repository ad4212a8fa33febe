// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import "fmt"

// ProtocolViolationError is raised whenever an inbound message's code or
// contents fall outside what the current protocol state permits, and
// when a Prompter returns a different number of responses than there were
// prompts. The driver always calls Transport.Disconnect before returning
// this error.
type ProtocolViolationError struct {
	// Got is the offending message type byte, or 0 if the violation was
	// not tied to a specific message (e.g. an empty message, or a Prompter
	// returning the wrong number of responses).
	Got byte
	// Reason describes what was expected instead.
	Reason string
}

func (e *ProtocolViolationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("sshauth: protocol violation: unexpected message type %d", e.Got)
	}
	return fmt.Sprintf("sshauth: protocol violation: %s (got message type %d)", e.Reason, e.Got)
}

// TransportClosedError wraps an error returned by the transport port's
// NextMessage or SendMessage once the underlying connection can no longer
// make progress.
type TransportClosedError struct {
	Err error
}

func (e *TransportClosedError) Error() string {
	return fmt.Sprintf("sshauth: transport closed: %v", e.Err)
}

func (e *TransportClosedError) Unwrap() error {
	return e.Err
}

// ServiceRejectedError is returned by NewDriver when the transport refuses
// to start the ssh-userauth service.
type ServiceRejectedError struct {
	Service string
	Err     error
}

func (e *ServiceRejectedError) Error() string {
	return fmt.Sprintf("sshauth: service %q rejected: %v", e.Service, e.Err)
}

func (e *ServiceRejectedError) Unwrap() error {
	return e.Err
}
