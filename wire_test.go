// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutByte(42)
	w.PutBool(true)
	w.PutUint32(0xdeadbeef)
	w.PutString([]byte{0x01, 0x02, 0x03})
	w.PutUTF8("hello")
	w.PutNameList([]string{"publickey", "password"})

	r := NewReader(w.Bytes())

	b, err := r.GetByte()
	require.NoError(t, err)
	assert.Equal(t, byte(42), b)

	boolVal, err := r.GetBool()
	require.NoError(t, err)
	assert.True(t, boolVal)

	u, err := r.GetUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), u)

	s, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, s)

	utf, err := r.GetUTF8()
	require.NoError(t, err)
	assert.Equal(t, "hello", utf)

	names, err := r.GetNameList()
	require.NoError(t, err)
	assert.Equal(t, []string{"publickey", "password"}, names)

	assert.Equal(t, 0, r.Len())
}

func TestGetNameListEmpty(t *testing.T) {
	w := NewWriter()
	w.PutNameList(nil)
	r := NewReader(w.Bytes())
	names, err := r.GetNameList()
	require.NoError(t, err)
	assert.Equal(t, []string{}, names)
}

func TestGetStringTruncated(t *testing.T) {
	r := NewReader([]byte{0x00, 0x00, 0x00, 0x05, 'a', 'b'})
	_, err := r.GetString()
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, DecodeTruncated, decErr.Kind)
}

func TestGetStringLengthOverflow(t *testing.T) {
	r := NewReader([]byte{0x7f, 0xff, 0xff, 0xff})
	_, err := r.GetString()
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, DecodeLengthOverflow, decErr.Kind)
}

func TestGetUTF8BadEncoding(t *testing.T) {
	w := NewWriter()
	w.PutString([]byte{0xff, 0xfe, 0xfd})
	r := NewReader(w.Bytes())
	_, err := r.GetUTF8()
	require.Error(t, err)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Equal(t, DecodeBadUTF8, decErr.Kind)
}

func TestDecodeUserAuthFailureRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutByte(msgUserAuthFailure)
	w.PutNameList([]string{"publickey", "keyboard-interactive"})
	w.PutBool(true)

	f, err := decodeUserAuthFailure(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"publickey", "keyboard-interactive"}, f.Methods)
	assert.True(t, f.PartialSuccess)
}

func TestBuildPublicKeySignedBlob(t *testing.T) {
	blob := buildPublicKeySignedBlob([]byte("session"), "alice", "ssh-connection", "ssh-ed25519", []byte("pubkeyblob"))

	r := NewReader(blob)
	sessionID, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, []byte("session"), sessionID)

	msgType, err := r.GetByte()
	require.NoError(t, err)
	assert.Equal(t, byte(msgUserAuthRequest), msgType)

	user, err := r.GetUTF8()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	service, err := r.GetUTF8()
	require.NoError(t, err)
	assert.Equal(t, "ssh-connection", service)

	method, err := r.GetUTF8()
	require.NoError(t, err)
	assert.Equal(t, "publickey", method)

	hasSig, err := r.GetBool()
	require.NoError(t, err)
	assert.True(t, hasSig)

	algo, err := r.GetUTF8()
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519", algo)

	pub, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, []byte("pubkeyblob"), pub)

	assert.Equal(t, 0, r.Len())
}

func TestDecodeUserAuthInfoRequestStructure(t *testing.T) {
	w := NewWriter()
	w.PutByte(msgUserAuthInfoRequest)
	w.PutUTF8("name")
	w.PutUTF8("instruction")
	w.PutUTF8("")
	w.PutUint32(2)
	w.PutUTF8("Password:")
	w.PutBool(false)
	w.PutUTF8("Username:")
	w.PutBool(true)

	got, err := decodeUserAuthInfoRequest(w.Bytes())
	require.NoError(t, err)

	want := &userAuthInfoRequest{
		Name:        "name",
		Instruction: "instruction",
		Language:    "",
		Prompts: []userAuthInfoRequestPrompt{
			{Text: "Password:", Echo: false},
			{Text: "Username:", Echo: true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeUserAuthInfoRequest mismatch (-want +got):\n%s", diff)
	}
}
