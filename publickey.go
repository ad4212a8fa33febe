// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/ssh"
)

// ErrNoKeys is returned by a KeyRing once it has offered every key it
// holds.
var ErrNoKeys = errors.New("sshauth: no more keys")

// KeyRing supplies candidate keys to the "publickey" method, one at a
// time, in preference order.
type KeyRing interface {
	// Key returns the i'th candidate, or ErrNoKeys once i is out of
	// range. The returned Signer is used both to read the public half
	// (via PublicKey) and, if the server accepts the key, to produce the
	// proving signature.
	Key(i int) (ssh.Signer, error)
}

// singleKey is a KeyRing of exactly one key, the common case for an
// automated client authenticating as itself.
type singleKey struct {
	signer ssh.Signer
}

// SingleKey wraps one Signer as a one-key KeyRing.
func SingleKey(signer ssh.Signer) KeyRing {
	return singleKey{signer: signer}
}

func (k singleKey) Key(i int) (ssh.Signer, error) {
	if i != 0 {
		return nil, ErrNoKeys
	}
	return k.signer, nil
}

// publicKeyMethod implements the "publickey" authentication method
// (RFC 4252 §7), probing each key from the ring with an unsigned query
// before committing to the more expensive signed request.
type publicKeyMethod struct {
	keys KeyRing
}

// PublicKeyMethod returns a Method that tries each key in keys in turn.
func PublicKeyMethod(keys KeyRing) Method {
	return &publicKeyMethod{keys: keys}
}

func (m *publicKeyMethod) Name() string { return "publickey" }

func (m *publicKeyMethod) Run(h *Handle) (*Outcome, error) {
	var lastOutcome *Outcome
	for i := 0; ; i++ {
		signer, err := m.keys.Key(i)
		if err == ErrNoKeys {
			if lastOutcome != nil {
				return lastOutcome, nil
			}
			return &Outcome{Kind: OutcomeFailed}, nil
		}
		if err != nil {
			return nil, err
		}

		outcome, err := m.tryKey(h, signer)
		if err != nil {
			return nil, err
		}
		if outcome.Kind == OutcomeComplete {
			return outcome, nil
		}
		lastOutcome = outcome
	}
}

// tryKey probes one key and, if the server confirms it is acceptable,
// signs and sends the proving request.
func (m *publicKeyMethod) tryKey(h *Handle, signer ssh.Signer) (*Outcome, error) {
	pub := signer.PublicKey()
	algo := pub.Type()
	blob := pub.Marshal()

	if err := h.SendRequest(encodePublicKeyMethodData(false, algo, blob, nil)); err != nil {
		return nil, err
	}
	payload, outcome, err := h.ReadMessage()
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		// FAILURE here just means this key is rejected; keep going.
		return outcome, nil
	}
	if len(payload) == 0 || payload[0] != msgUserAuthPKOK {
		return nil, h.ProtocolViolation(payloadType(payload), "expected FAILURE, SUCCESS, or PK_OK")
	}
	ok, err := decodeUserAuthPKOK(payload)
	if err != nil {
		return nil, h.ProtocolViolation(payload[0], err.Error())
	}
	if ok.Algo != algo {
		return nil, h.ProtocolViolation(payload[0], "PK_OK algorithm does not match the key offered")
	}

	signAlgo := algo
	if as, isAlg := signer.(ssh.AlgorithmSigner); isAlg {
		// Negotiate a stronger signature algorithm for the same key type
		// when the signer supports one (e.g. rsa-sha2-512 for an
		// ssh-rsa key), per RFC 8332.
		if preferred := preferredSignatureAlgorithm(ok.Algo); preferred != "" {
			signAlgo = preferred
		}
		sig, err := as.SignWithAlgorithm(rand.Reader, buildPublicKeySignedBlob(h.SessionIdentifier(), h.Username(), h.Service(), algo, blob), signAlgo)
		if err != nil {
			return nil, err
		}
		return m.sendSigned(h, algo, blob, sig)
	}

	sig, err := signer.Sign(rand.Reader, buildPublicKeySignedBlob(h.SessionIdentifier(), h.Username(), h.Service(), algo, blob))
	if err != nil {
		return nil, err
	}
	return m.sendSigned(h, algo, blob, sig)
}

// sendSigned wraps sig the way golang.org/x/crypto/ssh.Marshal encodes an
// ssh.Signature (algorithm name followed by the opaque blob) and sends the
// proving USERAUTH_REQUEST.
func (m *publicKeyMethod) sendSigned(h *Handle, algo string, blob []byte, sig *ssh.Signature) (*Outcome, error) {
	wrapped := ssh.Marshal(sig)
	if err := h.SendRequest(encodePublicKeyMethodData(true, algo, blob, wrapped)); err != nil {
		return nil, err
	}
	payload, outcome, err := h.ReadMessage()
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		return nil, h.ProtocolViolation(payloadType(payload), "expected FAILURE or SUCCESS after signed publickey request")
	}
	return outcome, nil
}

// preferredSignatureAlgorithm maps an ssh-rsa key algorithm to its
// RFC 8332 SHA-2 signature variant; for every other key type the key
// algorithm and signature algorithm are the same string, so no mapping is
// needed.
func preferredSignatureAlgorithm(keyAlgo string) string {
	if keyAlgo == ssh.KeyAlgoRSA {
		return ssh.KeyAlgoRSASHA512
	}
	return ""
}
