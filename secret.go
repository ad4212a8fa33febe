// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// secretBuffer holds key material that §5 requires to be zeroed as soon as
// it is no longer needed: passwords, new passwords, and keyboard-interactive
// responses. Go has no destructors, so this is not automatic — every
// method that owns one calls Wipe() explicitly (the password method defers
// it in Run; keyboard-interactive wipes each round's responses right after
// sending them), rather than relying on garbage collection to make the
// bytes disappear.
type secretBuffer struct {
	b []byte
}

// newSecret copies s into a fresh secretBuffer so the caller's own string
// or slice is never aliased and mutated underneath them.
func newSecret(s string) *secretBuffer {
	b := make([]byte, len(s))
	copy(b, s)
	return &secretBuffer{b: b}
}

// Bytes returns the current contents. The returned slice aliases the
// buffer; callers must not retain it past the next Wipe.
func (s *secretBuffer) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Wipe overwrites the buffer with zeroes. Safe to call multiple times and
// on a nil receiver.
func (s *secretBuffer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.b {
		s.b[i] = 0
	}
}
