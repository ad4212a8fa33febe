// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// Transport is the contract the auth driver consumes from an
// already-established SSH-2 transport (RFC 4253). The driver is the sole
// reader of the transport while authentication is in progress; nothing
// else in this module touches it directly.
//
// Implementations are supplied by the caller. This package never dials a
// socket, performs a key exchange, or runs a cipher: those concerns live
// entirely on the other side of this interface.
type Transport interface {
	// StartService sends SSH_MSG_SERVICE_REQUEST for name and blocks for
	// SSH_MSG_SERVICE_ACCEPT. It returns an error if the service is
	// refused or the connection closes first; NewDriver wraps that error
	// in a ServiceRejectedError.
	StartService(name string) error

	// NextMessage returns the next decrypted, length-stripped,
	// MAC-verified application payload. It blocks until one arrives. A
	// closed or failed transport returns an error.
	NextMessage() ([]byte, error)

	// SendMessage enqueues payload for transmission. highPriority hints
	// that this message belongs to the authentication exchange and
	// should be scheduled ahead of any buffered connection-layer
	// traffic.
	SendMessage(payload []byte, highPriority bool) error

	// SessionIdentifier returns the key-exchange hash from the
	// connection's first KEX. It is stable for the lifetime of the
	// connection and is required to compute publickey signatures.
	SessionIdentifier() []byte

	// MarkAuthenticated signals that the user-auth phase has
	// succeeded, so the transport may release any connection-layer
	// messages it buffered during authentication.
	MarkAuthenticated()

	// Disconnect tears the transport down with an SSH_MSG_DISCONNECT
	// carrying code and reason.
	Disconnect(code uint32, reason string) error
}
