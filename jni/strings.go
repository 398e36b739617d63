// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

// GoString returns the Go string equivalent of the Java string h.  A null
// reference yields "".  h is left untouched.
func GoString(env *Env, h Handle) string {
	if h.IsNull() {
		return ""
	}
	return env.jni.GetStringUTFChars(h)
}

// JString returns a new local reference to a Java string holding s.  The
// reference is freed with the environment, or earlier with DeleteLocalRef.
func JString(env *Env, s string) (Handle, error) {
	h := env.jni.NewStringUTF(s)
	if h.IsNull() {
		if err := env.pendingError(true); err != nil {
			return 0, err
		}
		return 0, env.raise(ErrInvalidHandle, "couldn't allocate a Java string of %d bytes", len(s))
	}
	return h, nil
}
