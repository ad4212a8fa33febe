// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// PasswordSource supplies credentials to the "password" method. Password
// supplies the initial password; NewPassword is consulted only when
// the server responds with SSH_MSG_USERAUTH_PASSWD_CHANGEREQ (RFC 4252
// §8) and returns ok=false if the caller has no way to satisfy a change
// request (e.g. a non-interactive service account), which the method
// reports as OutcomeCancelled.
type PasswordSource interface {
	Password() (string, error)
	NewPassword(prompt string) (password string, ok bool, err error)
}

// StaticPassword is a PasswordSource backed by a fixed string, with no
// ability to satisfy a change-password request. Useful for
// machine-to-machine credentials where a forced change should end the
// attempt with OutcomeCancelled rather than be prompted interactively.
type StaticPassword string

func (p StaticPassword) Password() (string, error) { return string(p), nil }

func (p StaticPassword) NewPassword(prompt string) (string, bool, error) { return "", false, nil }

// passwordMethod implements the "password" authentication method
// (RFC 4252 §8), including the PASSWD_CHANGEREQ sub-flow.
type passwordMethod struct {
	source PasswordSource
}

// PasswordMethod returns a Method that authenticates with a password drawn
// from source.
func PasswordMethod(source PasswordSource) Method {
	return &passwordMethod{source: source}
}

func (m *passwordMethod) Name() string { return "password" }

func (m *passwordMethod) Run(h *Handle) (*Outcome, error) {
	plain, err := m.source.Password()
	if err != nil {
		return nil, err
	}
	secret := newSecret(plain)
	defer secret.Wipe()

	if err := h.SendRequest(encodePasswordMethodData(false, secret.Bytes(), nil)); err != nil {
		return nil, err
	}

	payload, outcome, err := h.ReadMessage()
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return outcome, nil
	}

	if len(payload) == 0 || payload[0] != msgUserAuthPasswdChangereq {
		return nil, h.ProtocolViolation(payloadType(payload), "expected FAILURE, SUCCESS, or PASSWD_CHANGEREQ")
	}
	req, err := decodeUserAuthPasswdChangereq(payload)
	if err != nil {
		return nil, h.ProtocolViolation(payload[0], err.Error())
	}

	newPlain, ok, err := m.source.NewPassword(req.Prompt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Outcome{Kind: OutcomeCancelled}, nil
	}
	newSecretBuf := newSecret(newPlain)
	defer newSecretBuf.Wipe()

	if err := h.SendRequest(encodePasswordMethodData(true, secret.Bytes(), newSecretBuf.Bytes())); err != nil {
		return nil, err
	}
	return nil, nil
}

func payloadType(payload []byte) byte {
	if len(payload) == 0 {
		return 0
	}
	return payload[0]
}
