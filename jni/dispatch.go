// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"v.io/x/lib/vlog"
)

// Call invokes the instance method with the given name on obj.  The method's
// descriptor is derived from the argument types and R, e.g.
//
//	n, err := jni.Call[jni.Int](list, "indexOf", elem)  // (Ljava/lang/Object;)I
//
// The returned value has exactly type R.  Object results are returned as new
// Objects (nil for a null result) that the caller must Release.
func Call[R Result](obj *Object, name string, args ...Arg) (R, error) {
	var r R
	return callMethod[R](obj, name, FuncSign(argSigns(args), r.Sign()), args)
}

// Call0 is Call for methods without arguments.
func Call0[R Result](obj *Object, name string) (R, error) {
	var r R
	return callMethod[R](obj, name, "()"+r.Sign(), nil)
}

// CallStatic invokes the static method with the given name on cls.
func CallStatic[R Result](cls *Class, name string, args ...Arg) (R, error) {
	var r R
	return callStaticMethod[R](cls, name, FuncSign(argSigns(args), r.Sign()), args)
}

// CallStatic0 is CallStatic for methods without arguments.
func CallStatic0[R Result](cls *Class, name string) (R, error) {
	var r R
	return callStaticMethod[R](cls, name, "()"+r.Sign(), nil)
}

// New constructs a new instance of cls by invoking the constructor that takes
// the provided argument types.
func (c *Class) New(args ...Arg) (*Object, error) {
	if !c.Valid() {
		return nil, invalidHandle(c.rtOrNil(), "construction of invalid class")
	}
	env, free, err := c.rt.Env()
	if err != nil {
		return nil, err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return nil, err
	}
	sig := FuncSign(argSigns(args), VoidSign)
	mid, err := env.methodID(c, "<init>", sig)
	if err != nil {
		return nil, err
	}
	vals, locals, err := marshalArgs(env, args)
	defer deleteLocals(env, locals)
	if err != nil {
		return nil, err
	}
	vlog.VI(2).Infof("new %v%s", c, sig)
	h := env.jni.NewObjectA(c.h, mid, vals)
	if err := env.pendingError(c.rt.opts.clearPending); err != nil {
		env.DeleteLocalRef(h)
		return nil, err
	}
	if h.IsNull() {
		return nil, env.raise(ErrInvalidHandle, "constructor %v%s returned null", c, sig)
	}
	return env.takeLocal(h)
}

func callMethod[R Result](obj *Object, name string, sig Sign, args []Arg) (R, error) {
	var r R
	if !obj.Valid() {
		return r, invalidHandle(obj.runtime(), "call of %s%s on invalid object", name, sig)
	}
	env, free, err := obj.rt.Env()
	if err != nil {
		return r, err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return r, err
	}
	mid, err := env.methodID(obj.cls, name, sig)
	if err != nil {
		return r, err
	}
	return invoke[R](env, obj.cls, name, sig, args, func(vals []Value) Value {
		return env.jni.CallMethodA(r.Kind(), obj.h, mid, vals)
	})
}

func callStaticMethod[R Result](cls *Class, name string, sig Sign, args []Arg) (R, error) {
	var r R
	if !cls.Valid() {
		return r, invalidHandle(cls.rtOrNil(), "static call of %s%s on invalid class", name, sig)
	}
	env, free, err := cls.rt.Env()
	if err != nil {
		return r, err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return r, err
	}
	mid, err := env.staticMethodID(cls, name, sig)
	if err != nil {
		return r, err
	}
	return invoke[R](env, cls, name, sig, args, func(vals []Value) Value {
		return env.jni.CallStaticMethodA(r.Kind(), cls.h, mid, vals)
	})
}

// invoke marshals args, performs the call and converts the result.  No lock
// is held while call runs: the Java code may call back into Go.  The caller
// has checked that no exception is pending.
func invoke[R Result](env *Env, cls *Class, name string, sig Sign, args []Arg, call func([]Value) Value) (R, error) {
	var r R
	vals, locals, err := marshalArgs(env, args)
	defer deleteLocals(env, locals)
	if err != nil {
		return r, err
	}
	vlog.VI(2).Infof("call %v.%s%s", cls, name, sig)
	v := call(vals)
	if err := env.pendingError(env.rt.opts.clearPending); err != nil {
		if r.Kind() == KindObject {
			env.DeleteLocalRef(v.Handle())
		}
		return r, err
	}
	return decodeResult[R](env, v)
}

func (e *Env) methodID(cls *Class, name string, sig Sign) (MethodID, error) {
	if mid := e.jni.GetMethodID(cls.h, name, sig); mid != 0 {
		return mid, nil
	}
	return 0, e.raise(ErrMemberNotFound, "Unable to find method %s%s in class %v", name, sig, cls)
}

func (e *Env) staticMethodID(cls *Class, name string, sig Sign) (MethodID, error) {
	if mid := e.jni.GetStaticMethodID(cls.h, name, sig); mid != 0 {
		return mid, nil
	}
	return 0, e.raise(ErrMemberNotFound, "Unable to find static method %s%s in class %v", name, sig, cls)
}

func marshalArgs(env *Env, args []Arg) (vals []Value, locals []Handle, err error) {
	if len(args) == 0 {
		return nil, nil, nil
	}
	vals = make([]Value, len(args))
	for i, a := range args {
		v, local, err := a.jvalue(env)
		if err != nil {
			return nil, locals, err
		}
		if !local.IsNull() {
			locals = append(locals, local)
		}
		vals[i] = v
	}
	return vals, locals, nil
}

func deleteLocals(env *Env, locals []Handle) {
	for _, h := range locals {
		env.DeleteLocalRef(h)
	}
}
