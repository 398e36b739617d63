// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"runtime"
)

// Env is the execution context of one thread.  It is obtained from
// Runtime.Env and must not be used by other goroutines, nor after its free
// function has been called.
type Env struct {
	rt  *Runtime
	jni JNIEnv
}

// JNI returns the underlying JNI function table.
func (e *Env) JNI() JNIEnv { return e.jni }

// Runtime returns the runtime the environment belongs to.
func (e *Env) Runtime() *Runtime { return e.rt }

// NewGlobalRef promotes ref to a global reference, which stays valid across
// threads and calls until deleted with DeleteGlobalRef.
func (e *Env) NewGlobalRef(ref Handle) Handle { return e.jni.NewGlobalRef(ref) }

// DeleteGlobalRef deletes a global reference.
func (e *Env) DeleteGlobalRef(ref Handle) {
	if !ref.IsNull() {
		e.jni.DeleteGlobalRef(ref)
	}
}

// DeleteLocalRef deletes a local reference.
func (e *Env) DeleteLocalRef(ref Handle) {
	if !ref.IsNull() {
		e.jni.DeleteLocalRef(ref)
	}
}

// IsSameObject returns true iff a and b refer to the same Java object.
func (e *Env) IsSameObject(a, b Handle) bool { return e.jni.IsSameObject(a, b) }

// NewObjectRef returns an Object holding a new global reference to the
// object referenced by h.  h itself is left untouched.
func (e *Env) NewObjectRef(h Handle) (*Object, error) {
	if h.IsNull() {
		return nil, e.raise(ErrInvalidHandle, "null object reference")
	}
	cls := e.jni.GetObjectClass(h)
	if cls.IsNull() {
		return nil, e.raise(ErrInvalidHandle, "couldn't get class of object %#x", uintptr(h))
	}
	defer e.jni.DeleteLocalRef(cls)
	gcls := e.jni.NewGlobalRef(cls)
	if gcls.IsNull() {
		return nil, e.raise(ErrInvalidHandle, "couldn't allocate a global reference for the class of %#x", uintptr(h))
	}
	gobj := e.jni.NewGlobalRef(h)
	if gobj.IsNull() {
		e.jni.DeleteGlobalRef(gcls)
		return nil, e.raise(ErrInvalidHandle, "couldn't allocate a global reference for %#x", uintptr(h))
	}
	obj := &Object{
		rt:  e.rt,
		h:   gobj,
		cls: &Class{rt: e.rt, h: gcls},
	}
	if e.rt.opts.finalizers {
		runtime.SetFinalizer(obj, finalizeObject)
	}
	return obj, nil
}

// takeLocal wraps the local reference h (typically a call result) into an
// Object and deletes h.  A null h yields a nil Object.
func (e *Env) takeLocal(h Handle) (*Object, error) {
	if h.IsNull() {
		return nil, nil
	}
	defer e.jni.DeleteLocalRef(h)
	return e.NewObjectRef(h)
}

// newClass wraps the local class reference h into a Class holding a global
// reference, and deletes h.
func (e *Env) newClass(h Handle, name string) (*Class, error) {
	if h.IsNull() {
		return &Class{rt: e.rt, name: name}, nil
	}
	defer e.jni.DeleteLocalRef(h)
	g := e.jni.NewGlobalRef(h)
	if g.IsNull() {
		return nil, e.raise(ErrInvalidHandle, "couldn't allocate a global reference for class %s", name)
	}
	return &Class{rt: e.rt, h: g, name: name}, nil
}
