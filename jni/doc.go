// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jni is a typed layer over the Java Native Interface for Go code
// that is loaded into, or embeds, a Java VM.
//
// A Runtime is created once from the host's JavaVM.  Each goroutine that
// talks to Java obtains an Env for its OS thread:
//
//	env, free, err := rt.Env()
//	if err != nil {
//		return err
//	}
//	defer free()
//	cls, err := env.FindClass("java/lang/Integer")
//
// Methods are invoked with Call and CallStatic, whose type parameter is the
// Java return type; the JNI descriptor is derived from it and from the
// argument types:
//
//	s, err := jni.CallStatic[jni.String](cls, "toHexString", jni.Int(255))  // (I)Ljava/lang/String;
//
// Errors are reported twice: as the returned Go error, which is what native
// code acts on, and as a pending Java exception, which the Java caller
// observes once control returns to it.  See WithClearPending.
//
// The VM itself is abstracted by the JavaVM and JNIEnv interfaces; package
// cjni binds them to a real VM through cgo, and package fakevm provides an
// in-process VM for tests.
package jni
