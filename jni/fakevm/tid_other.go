// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package fakevm

import (
	"bytes"
	"runtime"
	"strconv"
)

// threadID identifies the calling goroutine, which stands in for its OS
// thread on platforms without gettid.  Callers lock their goroutine to a
// thread while attached, so the two stay in one-to-one correspondence.
func threadID() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}
