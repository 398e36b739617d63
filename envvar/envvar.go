// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package envvar defines the environment variables that override the
// defaults of the jni package.
package envvar

import (
	"os"
	"strings"
)

const (
	// Prefix is the prefix shared by all the variables below.
	Prefix = "UJNI_"

	// ThreadName is the name given to native threads attached to the Java VM.
	ThreadName = "UJNI_THREAD_NAME"

	// LocalFrameCapacity is the number of local references reserved each
	// time a thread acquires its JNI environment.
	LocalFrameCapacity = "UJNI_LOCAL_FRAME_CAPACITY"

	// ExceptionClass is the fully-qualified name of the Java exception class
	// thrown when a class or member lookup fails.
	ExceptionClass = "UJNI_EXCEPTION_CLASS"
)

// Overrides returns the UJNI_* variables that are set to a non-empty value,
// keyed by variable name.
func Overrides() map[string]string {
	m := make(map[string]string)
	for _, ev := range os.Environ() {
		p := strings.SplitN(ev, "=", 2)
		if len(p) != 2 {
			continue
		}
		k, v := p[0], p[1]
		if strings.HasPrefix(k, Prefix) && len(v) > 0 {
			m[k] = v
		}
	}
	return m
}

// ClearOverrides unsets all environment variables that are consulted by
// Overrides.
func ClearOverrides() error {
	for k := range Overrides() {
		if err := os.Unsetenv(k); err != nil {
			return err
		}
	}
	return nil
}
