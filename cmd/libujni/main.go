// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (java || android) && cgo
// +build java android
// +build cgo

// Command libujni is built with -buildmode=c-shared into a library that Java
// code loads with System.loadLibrary("ujni").  It exports the native methods
// of the io.ujni.Native class.
package main

import (
	"flag"
	"strings"
	"unsafe"

	"v.io/x/lib/vlog"

	"github.com/VirtuosoChris/uJNI/jni"
	"github.com/VirtuosoChris/uJNI/jni/cjni"
)

// #include "jni.h"
import "C"

var rt *jni.Runtime

//export JNI_OnLoad
func JNI_OnLoad(jVM *C.JavaVM, reserved unsafe.Pointer) C.jint {
	r, err := jni.New(cjni.Wrap(unsafe.Pointer(jVM)))
	if err != nil {
		vlog.Errorf("couldn't initialize the JNI runtime: %v", err)
		return C.JNI_ERR
	}
	rt = r
	return C.JNI_VERSION_1_6
}

// joinStrings returns the toString() of every element of list, joined with
// sep.
func joinStrings(env *jni.Env, list jni.Handle, sep string) (string, error) {
	obj, err := env.NewObjectRef(list)
	if err != nil {
		return "", err
	}
	defer obj.Release()
	var parts []string
	err = jni.ForEachInList(env, obj, func(i int, elem *jni.Object) error {
		s, err := jni.Call0[jni.String](elem, "toString")
		if err != nil {
			return err
		}
		parts = append(parts, string(s))
		return nil
	})
	return strings.Join(parts, sep), err
}

//export Java_io_ujni_Native_join
func Java_io_ujni_Native_join(jenv *C.JNIEnv, jcls C.jclass, jlist C.jobject, jsep C.jstring) C.jstring {
	env, free, err := rt.Env()
	if err != nil {
		vlog.Errorf("join: %v", err)
		return nil
	}
	sep := jni.GoString(env, jni.Handle(uintptr(unsafe.Pointer(jsep))))
	s, err := joinStrings(env, jni.Handle(uintptr(unsafe.Pointer(jlist))), sep)
	free()
	if err != nil {
		// The Java exception matching err is pending.
		vlog.VI(1).Infof("join: %v", err)
		return nil
	}
	// The result must outlive the local frame released by free.
	h := cjni.WrapEnv(unsafe.Pointer(jenv)).NewStringUTF(s)
	return C.jstring(unsafe.Pointer(uintptr(h)))
}

func main() {
	// Android requires all logs to be written to a specific directory.
	flag.Set("logtostderr", "true")
}
