// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cjni binds the jni.JavaVM and jni.JNIEnv interfaces to a real Java
// VM through cgo.  It is only built with the "java" or "android" build tag,
// and requires the JNI headers (jni.h) on the include path, e.g.
//
//	CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux" go build -tags java
//
// A shared library loaded with System.loadLibrary receives the VM in its
// JNI_OnLoad function, which hands it to Wrap.
package cjni
