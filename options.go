// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sshauth

import "github.com/sirupsen/logrus"

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithBannerSink routes SSH_MSG_USERAUTH_BANNER text to sink instead of
// discarding it.
func WithBannerSink(sink BannerSink) Option {
	return func(d *Driver) {
		if sink != nil {
			d.banner = sink
		}
	}
}

// WithLogger overrides the Driver's logrus logger, which by default
// discards all output so the core driver is silent unless a caller opts
// in.
func WithLogger(log logrus.FieldLogger) Option {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}
