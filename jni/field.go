// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"v.io/x/lib/vlog"
)

// GetField returns the value of the instance field with the given name,
// whose declared type is T.
func GetField[T Result](obj *Object, name string) (T, error) {
	var t T
	if !obj.Valid() {
		return t, invalidHandle(obj.runtime(), "read of field %s on invalid object", name)
	}
	env, free, err := obj.rt.Env()
	if err != nil {
		return t, err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return t, err
	}
	fid, err := env.fieldID(obj.cls, name, t.Sign())
	if err != nil {
		return t, err
	}
	vlog.VI(2).Infof("get %v.%s %s", obj.cls, name, t.Sign())
	return readField[T](env, func() Value { return env.jni.GetField(t.Kind(), obj.h, fid) })
}

// SetField stores v into the instance field with the given name.  The field's
// declared type is taken from v.
func SetField(obj *Object, name string, v Arg) error {
	if !obj.Valid() {
		return invalidHandle(obj.runtime(), "write of field %s on invalid object", name)
	}
	env, free, err := obj.rt.Env()
	if err != nil {
		return err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return err
	}
	fid, err := env.fieldID(obj.cls, name, v.Sign())
	if err != nil {
		return err
	}
	return writeField(env, v, func(val Value) { env.jni.SetField(v.Kind(), obj.h, fid, val) })
}

// GetStaticField returns the value of the static field with the given name,
// whose declared type is T.
func GetStaticField[T Result](cls *Class, name string) (T, error) {
	var t T
	if !cls.Valid() {
		return t, invalidHandle(cls.rtOrNil(), "read of static field %s on invalid class", name)
	}
	env, free, err := cls.rt.Env()
	if err != nil {
		return t, err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return t, err
	}
	fid, err := env.staticFieldID(cls, name, t.Sign())
	if err != nil {
		return t, err
	}
	vlog.VI(2).Infof("get static %v.%s %s", cls, name, t.Sign())
	return readField[T](env, func() Value { return env.jni.GetStaticField(t.Kind(), cls.h, fid) })
}

// SetStaticField stores v into the static field with the given name.
func SetStaticField(cls *Class, name string, v Arg) error {
	if !cls.Valid() {
		return invalidHandle(cls.rtOrNil(), "write of static field %s on invalid class", name)
	}
	env, free, err := cls.rt.Env()
	if err != nil {
		return err
	}
	defer free()
	if err := env.checkCallable(); err != nil {
		return err
	}
	fid, err := env.staticFieldID(cls, name, v.Sign())
	if err != nil {
		return err
	}
	return writeField(env, v, func(val Value) { env.jni.SetStaticField(v.Kind(), cls.h, fid, val) })
}

func readField[T Result](env *Env, get func() Value) (T, error) {
	var t T
	v := get()
	if err := env.pendingError(env.rt.opts.clearPending); err != nil {
		return t, err
	}
	return decodeResult[T](env, v)
}

func writeField(env *Env, v Arg, set func(Value)) error {
	val, local, err := v.jvalue(env)
	if err != nil {
		return err
	}
	defer env.DeleteLocalRef(local)
	set(val)
	return env.pendingError(env.rt.opts.clearPending)
}

func (e *Env) fieldID(cls *Class, name string, sig Sign) (FieldID, error) {
	if fid := e.jni.GetFieldID(cls.h, name, sig); fid != 0 {
		return fid, nil
	}
	return 0, e.raise(ErrMemberNotFound, "Unable to find field %s of type %s in class %v", name, sig, cls)
}

func (e *Env) staticFieldID(cls *Class, name string, sig Sign) (FieldID, error) {
	if fid := e.jni.GetStaticFieldID(cls.h, name, sig); fid != 0 {
		return fid, nil
	}
	return 0, e.raise(ErrMemberNotFound, "Unable to find static field %s of type %s in class %v", name, sig, cls)
}
