// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// Method implements one RFC 4252 authentication mechanism. The driver
// calls Run once per Authenticate invocation, handing it a handle scoped
// to that single call.
type Method interface {
	// Name is the wire method name, e.g. "password", "publickey",
	// "keyboard-interactive".
	Name() string

	// Run drives the method's request/response sub-protocol over
	// handle. It returns a non-nil Outcome the moment one is known
	// (including a locally-decided Cancelled); a nil Outcome and nil
	// error tells the driver to read and classify one more message
	// itself. A non-nil error aborts authentication.
	Run(handle *Handle) (*Outcome, error)
}

// Handle is the borrowed, call-scoped interface a Method uses to talk to
// the driver. It is valid only for the duration of the Run call that
// received it.
type Handle struct {
	driver   *Driver
	username string
	service  string
	method   string
}

// SendRequest formats and sends SSH_MSG_USERAUTH_REQUEST with this
// handle's method name and the given method-specific data.
func (h *Handle) SendRequest(methodData []byte) error {
	return h.driver.sendAuthRequest(h.username, h.service, h.method, methodData)
}

// SendRaw sends payload as-is, for method-specific messages that are not
// themselves wrapped in a USERAUTH_REQUEST envelope (e.g.
// SSH_MSG_USERAUTH_INFO_RESPONSE).
func (h *Handle) SendRaw(payload []byte) error {
	return h.driver.sendRaw(payload)
}

// ReadMessage returns the next non-banner payload, or a non-nil outcome if
// that payload was itself SUCCESS or FAILURE. Banners encountered along
// the way are delivered to the banner sink and otherwise skipped.
func (h *Handle) ReadMessage() ([]byte, *Outcome, error) {
	return h.driver.readResponse()
}

// SessionIdentifier returns the transport's key-exchange hash, required by
// the publickey method to build its signed blob.
func (h *Handle) SessionIdentifier() []byte {
	return h.driver.SessionIdentifier()
}

// Username and Service return the identifiers this authentication attempt
// was started with.
func (h *Handle) Username() string { return h.username }
func (h *Handle) Service() string  { return h.service }

// ProtocolViolation disconnects the transport and returns the error the
// method should propagate when it receives a message code outside its
// expected set.
func (h *Handle) ProtocolViolation(got byte, reason string) error {
	return h.driver.violation(got, reason)
}
