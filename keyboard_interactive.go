// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// Prompter answers one round of an INFO_REQUEST/INFO_RESPONSE exchange
// (RFC 4256 §3.2-3.4). It is invoked once per INFO_REQUEST the server
// sends, which may happen more than once in a single keyboard-interactive
// attempt.
type Prompter interface {
	// Challenge presents name/instruction and the given prompts, and
	// returns one response per prompt in the same order. ok=false
	// cancels the method (e.g. the user dismissed the dialog), yielding
	// OutcomeCancelled rather than sending a response the server would
	// reject anyway.
	Challenge(name, instruction string, prompts []Prompt) (responses []string, ok bool, err error)
}

// Prompt is one question from an INFO_REQUEST.
type Prompt struct {
	Text string
	Echo bool
}

// keyboardInteractiveMethod implements the "keyboard-interactive" method
// (RFC 4256), looping over INFO_REQUEST/INFO_RESPONSE pairs until the
// server issues FAILURE or SUCCESS.
type keyboardInteractiveMethod struct {
	prompter Prompter
}

// KeyboardInteractiveMethod returns a Method driven by prompter.
func KeyboardInteractiveMethod(prompter Prompter) Method {
	return &keyboardInteractiveMethod{prompter: prompter}
}

func (m *keyboardInteractiveMethod) Name() string { return "keyboard-interactive" }

// maxInfoRequestRounds bounds the INFO_REQUEST/INFO_RESPONSE loop against a
// server that never sends FAILURE or SUCCESS.
const maxInfoRequestRounds = 64

func (m *keyboardInteractiveMethod) Run(h *Handle) (*Outcome, error) {
	if err := h.SendRequest(encodeKeyboardInteractiveMethodData()); err != nil {
		return nil, err
	}

	for round := 0; ; round++ {
		payload, outcome, err := h.ReadMessage()
		if err != nil {
			return nil, err
		}
		if outcome != nil {
			return outcome, nil
		}
		if len(payload) == 0 || payload[0] != msgUserAuthInfoRequest {
			return nil, h.ProtocolViolation(payloadType(payload), "expected FAILURE, SUCCESS, or INFO_REQUEST")
		}
		if round >= maxInfoRequestRounds {
			return nil, h.ProtocolViolation(payload[0], "too many INFO_REQUEST rounds")
		}
		req, err := decodeUserAuthInfoRequest(payload)
		if err != nil {
			return nil, h.ProtocolViolation(payload[0], err.Error())
		}

		prompts := make([]Prompt, len(req.Prompts))
		for i, p := range req.Prompts {
			prompts[i] = Prompt{Text: p.Text, Echo: p.Echo}
		}
		answers, ok, err := m.prompter.Challenge(req.Name, req.Instruction, prompts)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &Outcome{Kind: OutcomeCancelled}, nil
		}
		if len(answers) != len(prompts) {
			return nil, h.ProtocolViolation(0, "prompter returned the wrong number of responses")
		}

		secrets := make([]*secretBuffer, len(answers))
		responses := make([][]byte, len(answers))
		for i, a := range answers {
			secrets[i] = newSecret(a)
			responses[i] = secrets[i].Bytes()
		}
		sendErr := h.SendRaw(encodeUserAuthInfoResponse(responses))
		for _, s := range secrets {
			s.Wipe()
		}
		if sendErr != nil {
			return nil, sendErr
		}
	}
}
