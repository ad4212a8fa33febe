// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"errors"
)

// fakeTransport is an in-memory Transport double used across this
// package's tests. Outbound messages the driver sends are recorded in
// Sent; inbound messages are served in order from Inbox.
type fakeTransport struct {
	Inbox  [][]byte
	Sent   [][]byte
	pos    int
	sessID []byte

	authenticated   bool
	disconnectCode  uint32
	disconnectMsg   string
	disconnected    bool
	serviceStarted  string
	failStartOnName string
}

func newFakeTransport(sessionID string) *fakeTransport {
	return &fakeTransport{sessID: []byte(sessionID)}
}

func (f *fakeTransport) StartService(name string) error {
	if f.failStartOnName == name {
		return errors.New("service refused")
	}
	f.serviceStarted = name
	return nil
}

func (f *fakeTransport) NextMessage() ([]byte, error) {
	if f.pos >= len(f.Inbox) {
		return nil, errors.New("fakeTransport: inbox exhausted")
	}
	msg := f.Inbox[f.pos]
	f.pos++
	return msg, nil
}

func (f *fakeTransport) SendMessage(payload []byte, highPriority bool) error {
	f.Sent = append(f.Sent, payload)
	return nil
}

func (f *fakeTransport) SessionIdentifier() []byte {
	return f.sessID
}

func (f *fakeTransport) MarkAuthenticated() {
	f.authenticated = true
}

func (f *fakeTransport) Disconnect(code uint32, reason string) error {
	f.disconnected = true
	f.disconnectCode = code
	f.disconnectMsg = reason
	return nil
}

func failureMsg(methods []string, partial bool) []byte {
	w := NewWriter()
	w.PutByte(msgUserAuthFailure)
	w.PutNameList(methods)
	w.PutBool(partial)
	return w.Bytes()
}

func successMsg() []byte {
	return []byte{msgUserAuthSuccess}
}

func bannerMsg(message string) []byte {
	w := NewWriter()
	w.PutByte(msgUserAuthBanner)
	w.PutUTF8(message)
	w.PutUTF8("")
	return w.Bytes()
}
