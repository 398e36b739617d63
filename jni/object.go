// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

// Object is a global reference to a Java object, paired with a reference to
// the object's runtime class.
//
// Each Object exclusively owns its references: Copy creates new ones, and
// Release deletes them exactly once.  Independent copies of the same Java
// object may therefore be released concurrently.  A single Object must not
// be released while another goroutine is using it.
type Object struct {
	rt       *Runtime
	h        Handle
	cls      *Class
	released atomic.Bool
}

// Handle returns the underlying global reference.
func (o *Object) Handle() Handle {
	if o == nil {
		return 0
	}
	return o.h
}

// Class returns the runtime class of the object.  The Class is owned by o and
// is released together with it.
func (o *Object) Class() *Class {
	if o == nil {
		return nil
	}
	return o.cls
}

// Valid returns true iff both the object and its class references are
// non-null.
func (o *Object) Valid() bool {
	return o != nil && !o.h.IsNull() && o.cls.Valid()
}

func (o *Object) String() string {
	if !o.Valid() {
		return "<invalid object>"
	}
	return fmt.Sprintf("%v@%#x", o.cls, uintptr(o.h))
}

// Sign, Kind and jvalue make a plain *Object usable as an argument declared
// as java.lang.Object; use As or TypedArg for other parameter types.
func (o *Object) Sign() Sign { return ObjectSign }
func (o *Object) Kind() Kind { return KindObject }
func (o *Object) result() {}

func (o *Object) jvalue(env *Env) (Value, Handle, error) {
	if o == nil {
		return 0, 0, nil
	}
	if !o.Valid() {
		return 0, 0, env.raise(ErrInvalidHandle, "released object passed as argument")
	}
	return HandleValue(o.h), 0, nil
}

// As returns an argument passing o as a parameter of the class with the given
// fully-qualified name.
func (o *Object) As(className string) Arg {
	return TypedArg(o, ObjectSignOf(className))
}

// Copy returns a new Object with its own references to the same Java object.
func (o *Object) Copy() (*Object, error) {
	if !o.Valid() {
		return nil, invalidHandle(o.runtime(), "copy of invalid object")
	}
	env, free, err := o.rt.Env()
	if err != nil {
		return nil, err
	}
	defer free()
	return o.copyIn(env)
}

func (o *Object) copyIn(env *Env) (*Object, error) {
	cls, err := o.cls.copyIn(env)
	if err != nil {
		return nil, err
	}
	g := env.jni.NewGlobalRef(o.h)
	if g.IsNull() {
		cls.releaseIn(env)
		return nil, env.raise(ErrInvalidHandle, "couldn't allocate a global reference for %v", o)
	}
	cp := &Object{rt: o.rt, h: g, cls: cls}
	if o.rt.opts.finalizers {
		runtime.SetFinalizer(cp, finalizeObject)
	}
	return cp, nil
}

// Assign makes o refer to the same Java object as src, releasing o's
// previous references.  Assigning an Object to itself is a no-op.  If the
// new references can't be allocated, o is left unchanged and an error is
// returned.
func (o *Object) Assign(src *Object) error {
	if o == src {
		return nil
	}
	if o == nil {
		return invalidHandle(src.runtime(), "assignment to nil object")
	}
	if !src.Valid() {
		return invalidHandle(o.rt, "assignment from invalid object")
	}
	env, free, err := src.rt.Env()
	if err != nil {
		return err
	}
	defer free()
	cp, err := src.copyIn(env)
	if err != nil {
		return err
	}
	if cp.rt.opts.finalizers {
		runtime.SetFinalizer(cp, nil)
	}
	o.releaseOnce(env)
	o.rt, o.h, o.cls = cp.rt, cp.h, cp.cls
	o.released.Store(false)
	if o.rt.opts.finalizers {
		runtime.SetFinalizer(o, finalizeObject)
	}
	return nil
}

// Equal returns true iff o and other refer to the same Java object.  Two nil
// (or released) Objects are equal, as null == null in Java.
func (o *Object) Equal(other *Object) (bool, error) {
	rt := o.runtime()
	if rt == nil {
		rt = other.runtime()
	}
	if rt == nil {
		return true, nil
	}
	env, free, err := rt.Env()
	if err != nil {
		return false, err
	}
	defer free()
	return env.IsSameObject(o.Handle(), other.Handle()), nil
}

// Release deletes the object's references.  Subsequent calls are no-ops.
func (o *Object) Release() error {
	if o == nil || o.h.IsNull() || !o.released.CompareAndSwap(false, true) {
		return nil
	}
	env, free, err := o.rt.Env()
	if err != nil {
		o.released.Store(false)
		return err
	}
	defer free()
	o.releaseIn(env)
	if o.rt.opts.finalizers {
		runtime.SetFinalizer(o, nil)
	}
	return nil
}

// releaseOnce is Release with an environment at hand.
func (o *Object) releaseOnce(env *Env) {
	if o == nil || o.h.IsNull() || !o.released.CompareAndSwap(false, true) {
		return
	}
	o.releaseIn(env)
	if o.rt.opts.finalizers {
		runtime.SetFinalizer(o, nil)
	}
}

func (o *Object) releaseIn(env *Env) {
	vlog.VI(3).Infof("releasing %v", o)
	env.DeleteGlobalRef(o.h)
	o.h = 0
	if o.cls != nil {
		o.cls.releaseIn(env)
	}
}

func (o *Object) runtime() *Runtime {
	if o == nil {
		return nil
	}
	return o.rt
}

func finalizeObject(o *Object) {
	if err := o.Release(); err != nil {
		vlog.Errorf("couldn't release %v on finalization: %v", o, err)
	}
}
