// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// SSH message type numbers this driver sends or consumes. Scattered across
// RFC 4252 (auth), RFC 4253 (transport, for SERVICE_REQUEST/ACCEPT and
// DISCONNECT) and RFC 4256 (keyboard-interactive).
const (
	msgDisconnect     = 1
	msgServiceRequest = 5
	msgServiceAccept  = 6

	msgUserAuthRequest = 50
	msgUserAuthFailure = 51
	msgUserAuthSuccess = 52
	msgUserAuthBanner  = 53

	// 60 is overloaded by RFC 4252/4256: which struct it decodes to
	// depends on which method is currently in flight, never on the byte
	// alone.
	msgUserAuthPasswdChangereq = 60
	msgUserAuthPKOK            = 60
	msgUserAuthInfoRequest     = 60
	msgUserAuthInfoResponse    = 61
)

// SSH_DISCONNECT reason codes, RFC 4253 §11.1, that this driver can emit.
const (
	disconnectProtocolError = 2
)

const (
	serviceUserAuth = "ssh-userauth"
	serviceSSH      = "ssh-connection"
)

// methodNone is the probe method used by ListMethods, RFC 4252 §5.2.
const methodNone = "none"

// marshalUserAuthRequest builds SSH_MSG_USERAUTH_REQUEST (RFC 4252 §5):
//
//	byte      SSH_MSG_USERAUTH_REQUEST
//	string    user name
//	string    service name
//	string    method name
//	....      method specific fields
func marshalUserAuthRequest(username, service, method string, methodData []byte) []byte {
	w := NewWriter()
	w.PutByte(msgUserAuthRequest)
	w.PutUTF8(username)
	w.PutUTF8(service)
	w.PutUTF8(method)
	w.buf = append(w.buf, methodData...)
	return w.Bytes()
}

// userAuthFailure is the decoded form of SSH_MSG_USERAUTH_FAILURE
// (RFC 4252 §5.1):
//
//	byte      SSH_MSG_USERAUTH_FAILURE
//	name-list authentications that can continue
//	boolean   partial success
type userAuthFailure struct {
	Methods        []string
	PartialSuccess bool
}

func decodeUserAuthFailure(payload []byte) (*userAuthFailure, error) {
	if len(payload) == 0 || payload[0] != msgUserAuthFailure {
		return nil, newDecodeError(DecodeTruncated, "USERAUTH_FAILURE")
	}
	r := NewReader(payload[1:])
	methods, err := r.GetNameList()
	if err != nil {
		return nil, err
	}
	partial, err := r.GetBool()
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, newDecodeError(DecodeLengthOverflow, "USERAUTH_FAILURE trailing data")
	}
	return &userAuthFailure{Methods: methods, PartialSuccess: partial}, nil
}

// userAuthBanner is the decoded form of SSH_MSG_USERAUTH_BANNER
// (RFC 4252 §5.4):
//
//	byte      SSH_MSG_USERAUTH_BANNER
//	string    message
//	string    language tag
type userAuthBanner struct {
	Message  string
	Language string
}

func decodeUserAuthBanner(payload []byte) (*userAuthBanner, error) {
	if len(payload) == 0 || payload[0] != msgUserAuthBanner {
		return nil, newDecodeError(DecodeTruncated, "USERAUTH_BANNER")
	}
	r := NewReader(payload[1:])
	message, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	lang, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	return &userAuthBanner{Message: message, Language: lang}, nil
}

// userAuthPasswdChangereq is the decoded form of
// SSH_MSG_USERAUTH_PASSWD_CHANGEREQ (RFC 4252 §8):
//
//	byte      SSH_MSG_USERAUTH_PASSWD_CHANGEREQ
//	string    prompt
//	string    language tag
type userAuthPasswdChangereq struct {
	Prompt   string
	Language string
}

func decodeUserAuthPasswdChangereq(payload []byte) (*userAuthPasswdChangereq, error) {
	if len(payload) == 0 || payload[0] != msgUserAuthPasswdChangereq {
		return nil, newDecodeError(DecodeTruncated, "USERAUTH_PASSWD_CHANGEREQ")
	}
	r := NewReader(payload[1:])
	prompt, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	lang, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	return &userAuthPasswdChangereq{Prompt: prompt, Language: lang}, nil
}

// encodePasswordMethodData builds the method_data for the "password"
// method (RFC 4252 §8):
//
//	boolean   FALSE / TRUE (change password)
//	string    plaintext password
//	string    plaintext new password (only if change password is TRUE)
func encodePasswordMethodData(changePassword bool, password, newPassword []byte) []byte {
	w := NewWriter()
	w.PutBool(changePassword)
	w.PutString(password)
	if changePassword {
		w.PutString(newPassword)
	}
	return w.Bytes()
}

// userAuthPKOK is the decoded form of SSH_MSG_USERAUTH_PK_OK
// (RFC 4252 §7):
//
//	byte      SSH_MSG_USERAUTH_PK_OK
//	string    public key algorithm name
//	string    public key blob
type userAuthPKOK struct {
	Algo   string
	PubKey []byte
}

func decodeUserAuthPKOK(payload []byte) (*userAuthPKOK, error) {
	if len(payload) == 0 || payload[0] != msgUserAuthPKOK {
		return nil, newDecodeError(DecodeTruncated, "USERAUTH_PK_OK")
	}
	r := NewReader(payload[1:])
	algo, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	pubKey, err := r.GetString()
	if err != nil {
		return nil, err
	}
	return &userAuthPKOK{Algo: algo, PubKey: pubKey}, nil
}

// encodePublicKeyMethodData builds the method_data for the "publickey"
// method (RFC 4252 §7), for both the probe (hasSignature=false, wrapped
// signature absent) and the signed request (hasSignature=true):
//
//	boolean   has signature
//	string    public key algorithm name
//	string    public key blob
//	string    signature (only if has signature is TRUE)
func encodePublicKeyMethodData(hasSignature bool, algo string, pubKey []byte, wrappedSignature []byte) []byte {
	w := NewWriter()
	w.PutBool(hasSignature)
	w.PutUTF8(algo)
	w.PutString(pubKey)
	if hasSignature {
		w.PutString(wrappedSignature)
	}
	return w.Bytes()
}

// buildPublicKeySignedBlob builds the exact byte sequence that is signed to
// prove possession of a private key, RFC 4252 §7:
//
//	string    session identifier
//	byte      SSH_MSG_USERAUTH_REQUEST
//	string    user name
//	string    service name
//	string    "publickey"
//	boolean   TRUE
//	string    public key algorithm name
//	string    public key blob
func buildPublicKeySignedBlob(sessionID []byte, username, service, algo string, pubKey []byte) []byte {
	w := NewWriter()
	w.PutString(sessionID)
	w.PutByte(msgUserAuthRequest)
	w.PutUTF8(username)
	w.PutUTF8(service)
	w.PutUTF8("publickey")
	w.PutBool(true)
	w.PutUTF8(algo)
	w.PutString(pubKey)
	return w.Bytes()
}

// encodeKeyboardInteractiveMethodData builds the method_data for the
// initial "keyboard-interactive" request, RFC 4256 §3.1:
//
//	string    language tag (empty)
//	string    submethods (empty)
func encodeKeyboardInteractiveMethodData() []byte {
	w := NewWriter()
	w.PutUTF8("")
	w.PutUTF8("")
	return w.Bytes()
}

// userAuthInfoRequestPrompt is one (prompt, echo) pair from an
// INFO_REQUEST.
type userAuthInfoRequestPrompt struct {
	Text string
	Echo bool
}

// userAuthInfoRequest is the decoded form of SSH_MSG_USERAUTH_INFO_REQUEST
// (RFC 4256 §3.2):
//
//	byte      SSH_MSG_USERAUTH_INFO_REQUEST
//	string    name
//	string    instruction
//	string    language tag
//	int       num-prompts
//	string    prompt[1]
//	boolean   echo[1]
//	...
//	string    prompt[num-prompts]
//	boolean   echo[num-prompts]
type userAuthInfoRequest struct {
	Name        string
	Instruction string
	Language    string
	Prompts     []userAuthInfoRequestPrompt
}

func decodeUserAuthInfoRequest(payload []byte) (*userAuthInfoRequest, error) {
	if len(payload) == 0 || payload[0] != msgUserAuthInfoRequest {
		return nil, newDecodeError(DecodeTruncated, "USERAUTH_INFO_REQUEST")
	}
	r := NewReader(payload[1:])
	name, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	instruction, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	lang, err := r.GetUTF8()
	if err != nil {
		return nil, err
	}
	numPrompts, err := r.GetUint32()
	if err != nil {
		return nil, err
	}
	if numPrompts > maxStringLength {
		return nil, newDecodeError(DecodeLengthOverflow, "USERAUTH_INFO_REQUEST num-prompts")
	}
	prompts := make([]userAuthInfoRequestPrompt, 0, numPrompts)
	for i := uint32(0); i < numPrompts; i++ {
		text, err := r.GetUTF8()
		if err != nil {
			return nil, err
		}
		echo, err := r.GetBool()
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, userAuthInfoRequestPrompt{Text: text, Echo: echo})
	}
	return &userAuthInfoRequest{Name: name, Instruction: instruction, Language: lang, Prompts: prompts}, nil
}

// encodeUserAuthInfoResponse builds SSH_MSG_USERAUTH_INFO_RESPONSE
// (RFC 4256 §3.4). Unlike the other outbound messages this is not wrapped
// in a USERAUTH_REQUEST envelope; it is its own top-level message:
//
//	byte      SSH_MSG_USERAUTH_INFO_RESPONSE
//	int       num-responses
//	string    response[1]
//	...
//	string    response[num-responses]
func encodeUserAuthInfoResponse(responses [][]byte) []byte {
	w := NewWriter()
	w.PutByte(msgUserAuthInfoResponse)
	w.PutUint32(uint32(len(responses)))
	for _, resp := range responses {
		w.PutString(resp)
	}
	return w.Bytes()
}

// marshalServiceRequest builds SSH_MSG_SERVICE_REQUEST (RFC 4253 §10).
func marshalServiceRequest(name string) []byte {
	w := NewWriter()
	w.PutByte(msgServiceRequest)
	w.PutUTF8(name)
	return w.Bytes()
}

func decodeServiceAccept(payload []byte) (string, error) {
	if len(payload) == 0 || payload[0] != msgServiceAccept {
		return "", newDecodeError(DecodeTruncated, "SERVICE_ACCEPT")
	}
	r := NewReader(payload[1:])
	return r.GetUTF8()
}

// marshalDisconnect builds SSH_MSG_DISCONNECT (RFC 4253 §11.1).
func marshalDisconnect(reasonCode uint32, message string) []byte {
	w := NewWriter()
	w.PutByte(msgDisconnect)
	w.PutUint32(reasonCode)
	w.PutUTF8(message)
	w.PutUTF8("")
	return w.Bytes()
}
