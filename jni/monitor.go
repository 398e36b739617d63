// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"runtime"
)

// MonitorEnter enters the monitor of the object, as a Java synchronized
// block would, blocking until it is available.  Java monitors are owned by
// OS threads: the caller must stay locked to its thread (runtime.LockOSThread)
// until the matching MonitorExit.  Prefer Synchronized.
func (o *Object) MonitorEnter() error {
	return o.monitor("MonitorEnter", func(env *Env) int32 { return env.jni.MonitorEnter(o.h) })
}

// MonitorExit exits the monitor of the object.  It must be called on the
// thread that entered it.
func (o *Object) MonitorExit() error {
	return o.monitor("MonitorExit", func(env *Env) int32 { return env.jni.MonitorExit(o.h) })
}

func (o *Object) monitor(op string, fn func(env *Env) int32) error {
	if !o.Valid() {
		return invalidHandle(o.runtime(), "%s on invalid object", op)
	}
	env, free, err := o.rt.Env()
	if err != nil {
		return err
	}
	defer free()
	if status := fn(env); status != StatusOK {
		if err := env.pendingError(o.rt.opts.clearPending); err != nil {
			return err
		}
		return ErrJavaException.Errorf(nil, "%s on %v returned %d", op, o, status)
	}
	return nil
}

// Synchronized runs fn while holding the object's monitor.  The monitor is
// released on every path out of fn, including a panic.
func (o *Object) Synchronized(fn func() error) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := o.MonitorEnter(); err != nil {
		return err
	}
	defer func() {
		if xerr := o.MonitorExit(); err == nil {
			err = xerr
		}
	}()
	return fn()
}
