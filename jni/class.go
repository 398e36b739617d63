// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"fmt"
	"strings"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

// Class is a global reference to a Java class.  A Class may be invalid (see
// Valid), e.g. the superclass of java.lang.Object.
//
// The reference is owned by the Class and is deleted by Release; Classes
// owned by an Object are released together with it.
type Class struct {
	rt       *Runtime
	h        Handle
	name     string
	released atomic.Bool
}

// FindClass returns the class with the given fully-qualified name, e.g.
// "java/lang/String".  If it can't be found, a Java exception is raised and
// an ErrClassNotFound error is returned.
func (e *Env) FindClass(name string) (*Class, error) {
	if err := e.checkCallable(); err != nil {
		return nil, err
	}
	name = strings.Replace(name, ".", "/", -1)
	h := e.jni.FindClass(name)
	if h.IsNull() {
		return nil, e.raise(ErrClassNotFound, "Unable to find class : %s", name)
	}
	return e.newClass(h, name)
}

// FindClass is a shorthand for acquiring an Env and calling Env.FindClass.
func (r *Runtime) FindClass(name string) (*Class, error) {
	env, free, err := r.Env()
	if err != nil {
		return nil, err
	}
	defer free()
	return env.FindClass(name)
}

// ClassOf returns a Class for the (local or global) class reference h.  h
// itself is left untouched; the returned Class holds its own reference.
func (e *Env) ClassOf(h Handle) (*Class, error) {
	if h.IsNull() {
		return &Class{rt: e.rt}, nil
	}
	g := e.jni.NewGlobalRef(h)
	if g.IsNull() {
		return nil, e.raise(ErrInvalidHandle, "couldn't allocate a global reference for class %#x", uintptr(h))
	}
	return &Class{rt: e.rt, h: g}, nil
}

// ClassFromObject returns a new Class referring to the runtime class of obj,
// independent of obj's lifetime.
func (e *Env) ClassFromObject(obj *Object) (*Class, error) {
	if !obj.Valid() {
		return nil, e.raise(ErrInvalidHandle, "class of invalid object")
	}
	return obj.cls.copyIn(e)
}

// Handle returns the underlying (global) class reference.
func (c *Class) Handle() Handle {
	if c == nil {
		return 0
	}
	return c.h
}

// Valid returns true iff c refers to a class.
func (c *Class) Valid() bool {
	return c != nil && !c.h.IsNull()
}

func (c *Class) String() string {
	switch {
	case !c.Valid():
		return "<invalid class>"
	case c.name != "":
		return c.name
	default:
		return fmt.Sprintf("class@%#x", uintptr(c.h))
	}
}

// Name returns the binary name of the class (e.g. "java.lang.String").
func (c *Class) Name() (string, error) {
	if !c.Valid() {
		return "", invalidHandle(c.rtOrNil(), "invalid class")
	}
	env, free, err := c.rt.Env()
	if err != nil {
		return "", err
	}
	defer free()
	return env.className(c.h)
}

// Super returns the superclass of c.  The returned Class is invalid if c is
// java.lang.Object, an interface, or invalid itself.
func (c *Class) Super() (*Class, error) {
	if !c.Valid() {
		return &Class{rt: c.rtOrNil()}, nil
	}
	env, free, err := c.rt.Env()
	if err != nil {
		return nil, err
	}
	defer free()
	return env.newClass(env.jni.GetSuperclass(c.h), "")
}

// IsInstance returns true iff obj is an instance of c.
func (c *Class) IsInstance(obj *Object) (bool, error) {
	if !c.Valid() || !obj.Valid() {
		rt := c.rtOrNil()
		if rt == nil {
			rt = obj.runtime()
		}
		return false, invalidHandle(rt, "invalid class or object")
	}
	env, free, err := c.rt.Env()
	if err != nil {
		return false, err
	}
	defer free()
	return env.jni.IsInstanceOf(obj.h, c.h), nil
}

// Release deletes the class reference.  Releasing more than once, or
// releasing an invalid Class, is a no-op.
func (c *Class) Release() error {
	if !c.Valid() || !c.released.CompareAndSwap(false, true) {
		return nil
	}
	env, free, err := c.rt.Env()
	if err != nil {
		c.released.Store(false)
		return err
	}
	defer free()
	c.releaseIn(env)
	return nil
}

func (c *Class) releaseIn(env *Env) {
	vlog.VI(3).Infof("releasing class %v", c)
	env.DeleteGlobalRef(c.h)
	c.h = 0
}

// copyIn returns a new Class holding its own reference to the same class.
func (c *Class) copyIn(env *Env) (*Class, error) {
	if !c.Valid() {
		return &Class{rt: env.rt}, nil
	}
	g := env.jni.NewGlobalRef(c.h)
	if g.IsNull() {
		return nil, env.raise(ErrInvalidHandle, "couldn't allocate a global reference for %v", c)
	}
	return &Class{rt: c.rt, h: g, name: c.name}, nil
}

func (c *Class) rtOrNil() *Runtime {
	if c == nil {
		return nil
	}
	return c.rt
}
