// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"strconv"

	"v.io/x/lib/vlog"

	"github.com/VirtuosoChris/uJNI/envvar"
)

const (
	// DefaultThreadName is the name native threads are attached under.
	DefaultThreadName = "NativeThread"
	// DefaultExceptionClass is thrown when a lookup fails.
	DefaultExceptionClass = "java/lang/Exception"
	// DefaultLocalFrameCapacity is the minimum local reference table size JNI
	// implementations are required to provide.
	DefaultLocalFrameCapacity = 16
)

type options struct {
	version        int32
	threadName     string
	frameCapacity  int32
	exceptionClass string
	clearPending   bool
	finalizers     bool
}

// Option configures a Runtime.
type Option func(*options)

// WithVersion sets the JNI version requested from the VM.
func WithVersion(v int32) Option {
	return func(o *options) { o.version = v }
}

// WithThreadName sets the name under which native threads are attached.
func WithThreadName(name string) Option {
	return func(o *options) { o.threadName = name }
}

// WithLocalFrameCapacity sets the number of local references reserved each
// time an Env is acquired.
func WithLocalFrameCapacity(n int) Option {
	return func(o *options) { o.frameCapacity = int32(n) }
}

// WithExceptionClass sets the Java exception class thrown when a class or
// member lookup fails.
func WithExceptionClass(name string) Option {
	return func(o *options) { o.exceptionClass = name }
}

// WithClearPending makes the dispatcher clear a Java exception once it has
// been converted into the returned error.  By default the exception is left
// pending for the Java caller to observe.
func WithClearPending(clear bool) Option {
	return func(o *options) { o.clearPending = clear }
}

// WithFinalizers makes Objects that were never released delete their global
// reference when garbage collected.
func WithFinalizers(enable bool) Option {
	return func(o *options) { o.finalizers = enable }
}

// defaultOptions returns the built-in defaults, updated from the UJNI_*
// environment variables.
func defaultOptions() options {
	o := options{
		version:        Version1_6,
		threadName:     DefaultThreadName,
		frameCapacity:  DefaultLocalFrameCapacity,
		exceptionClass: DefaultExceptionClass,
	}
	env := envvar.Overrides()
	if v, ok := env[envvar.ThreadName]; ok {
		o.threadName = v
	}
	if v, ok := env[envvar.ExceptionClass]; ok {
		o.exceptionClass = v
	}
	if v, ok := env[envvar.LocalFrameCapacity]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			vlog.Errorf("ignoring %s=%q: want a positive integer", envvar.LocalFrameCapacity, v)
		} else {
			o.frameCapacity = int32(n)
		}
	}
	return o
}
