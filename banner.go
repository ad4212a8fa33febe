// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

// BannerSink receives SSH_MSG_USERAUTH_BANNER text (RFC 4252 §5.4) as it
// arrives, in message order, interleaved with whatever auth method is
// currently running. The default Driver discards banners; pass
// WithBannerSink to display them.
type BannerSink interface {
	Banner(message, language string)
}

// discardBanners is the zero-configuration BannerSink.
type discardBanners struct{}

func (discardBanners) Banner(message, language string) {}

// BannerFunc adapts a function to a BannerSink.
type BannerFunc func(message, language string)

func (f BannerFunc) Banner(message, language string) { f(message, language) }
