// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"errors"
)

// JNI versions and status codes, as defined in jni.h.
const (
	Version1_6 int32 = 0x00010006

	StatusOK       int32 = 0
	StatusErr      int32 = -1
	StatusDetached int32 = -2
	StatusVersion  int32 = -3
)

// ErrDetached is returned by JavaVM.GetEnv when the calling thread isn't
// attached to the VM.
var ErrDetached = errors.New("thread not attached to the Java VM")

// AttachArgs mirror JavaVMAttachArgs.
type AttachArgs struct {
	Version int32
	Name    string
	// Group is the java.lang.ThreadGroup to add the thread to, or null.
	Group Handle
}

// JavaVM is the process-wide handle of the embedding virtual machine.  It
// may be used from any thread.
type JavaVM interface {
	// GetEnv returns the calling thread's JNIEnv, or ErrDetached if the
	// thread isn't attached.
	GetEnv(version int32) (JNIEnv, error)
	AttachCurrentThread(args AttachArgs) (JNIEnv, error)
	DetachCurrentThread() error
}

// JNIEnv is the per-thread JNI function table.  A JNIEnv must only be used
// on the OS thread it was obtained on.
//
// The typed Call<Type>Method, Get<Type>Field and Set<Type>Field families are
// collapsed into a single method each, selected by Kind; an implementation
// forwards to the matching typed entry point.  Failing lookups return a zero
// handle and leave an exception pending, as JNI does.
type JNIEnv interface {
	FindClass(name string) Handle
	GetObjectClass(obj Handle) Handle
	GetSuperclass(cls Handle) Handle
	IsInstanceOf(obj, cls Handle) bool

	GetMethodID(cls Handle, name string, sig Sign) MethodID
	GetStaticMethodID(cls Handle, name string, sig Sign) MethodID
	GetFieldID(cls Handle, name string, sig Sign) FieldID
	GetStaticFieldID(cls Handle, name string, sig Sign) FieldID

	CallMethodA(kind Kind, obj Handle, method MethodID, args []Value) Value
	CallStaticMethodA(kind Kind, cls Handle, method MethodID, args []Value) Value
	NewObjectA(cls Handle, ctor MethodID, args []Value) Handle

	GetField(kind Kind, obj Handle, field FieldID) Value
	SetField(kind Kind, obj Handle, field FieldID, v Value)
	GetStaticField(kind Kind, cls Handle, field FieldID) Value
	SetStaticField(kind Kind, cls Handle, field FieldID, v Value)

	NewGlobalRef(obj Handle) Handle
	DeleteGlobalRef(ref Handle)
	DeleteLocalRef(ref Handle)
	IsSameObject(a, b Handle) bool
	PushLocalFrame(capacity int32) int32
	PopLocalFrame(result Handle) Handle

	MonitorEnter(obj Handle) int32
	MonitorExit(obj Handle) int32

	Throw(exc Handle) int32
	ThrowNew(cls Handle, msg string) int32
	ExceptionOccurred() Handle
	ExceptionClear()

	NewStringUTF(s string) Handle
	GetStringUTFChars(str Handle) string
}
