// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeablePassword struct {
	current  string
	newPass  string
	canNew   bool
}

func (p changeablePassword) Password() (string, error) { return p.current, nil }

func (p changeablePassword) NewPassword(prompt string) (string, bool, error) {
	if !p.canNew {
		return "", false, nil
	}
	return p.newPass, true, nil
}

func TestPasswordMethodSendsPasswordMethodData(t *testing.T) {
	ft := newFakeTransport("session-1")
	ft.Inbox = [][]byte{successMsg()}
	d, err := NewDriver(ft, "alice", "")
	require.NoError(t, err)

	outcome, err := d.Authenticate(PasswordMethod(StaticPassword("s3cret")))
	require.NoError(t, err)
	assert.Equal(t, OutcomeComplete, outcome.Kind)

	require.Len(t, ft.Sent, 1)
	r := NewReader(ft.Sent[0][1:])
	_, _ = r.GetUTF8() // user
	_, _ = r.GetUTF8() // service
	method, _ := r.GetUTF8()
	assert.Equal(t, "password", method)
	changePw, _ := r.GetBool()
	assert.False(t, changePw)
	pw, _ := r.GetString()
	assert.Equal(t, "s3cret", string(pw))
}

func TestPasswordMethodHandlesChangeRequest(t *testing.T) {
	changereq := func() []byte {
		w := NewWriter()
		w.PutByte(msgUserAuthPasswdChangereq)
		w.PutUTF8("please pick a new password")
		w.PutUTF8("")
		return w.Bytes()
	}()

	ft := newFakeTransport("session-1")
	ft.Inbox = [][]byte{changereq, successMsg()}
	d, err := NewDriver(ft, "alice", "")
	require.NoError(t, err)

	outcome, err := d.Authenticate(PasswordMethod(changeablePassword{current: "old", newPass: "new", canNew: true}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeComplete, outcome.Kind)

	require.Len(t, ft.Sent, 2)
	r := NewReader(ft.Sent[1][1:])
	_, _ = r.GetUTF8()
	_, _ = r.GetUTF8()
	_, _ = r.GetUTF8()
	changePw, _ := r.GetBool()
	assert.True(t, changePw)
	oldPw, _ := r.GetString()
	newPw, _ := r.GetString()
	assert.Equal(t, "old", string(oldPw))
	assert.Equal(t, "new", string(newPw))
}

func TestPasswordMethodCancelsWhenNoNewPasswordAvailable(t *testing.T) {
	changereq := func() []byte {
		w := NewWriter()
		w.PutByte(msgUserAuthPasswdChangereq)
		w.PutUTF8("please pick a new password")
		w.PutUTF8("")
		return w.Bytes()
	}()

	ft := newFakeTransport("session-1")
	ft.Inbox = [][]byte{changereq}
	d, err := NewDriver(ft, "alice", "")
	require.NoError(t, err)

	outcome, err := d.Authenticate(PasswordMethod(changeablePassword{current: "old", canNew: false}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome.Kind)
	assert.Len(t, ft.Sent, 1, "no second request should be sent once cancelled")
}
