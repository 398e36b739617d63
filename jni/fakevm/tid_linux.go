// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package fakevm

import (
	"golang.org/x/sys/unix"
)

// threadID identifies the calling OS thread.
func threadID() int64 {
	return int64(unix.Gettid())
}
