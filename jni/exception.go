// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"fmt"

	"v.io/v23/verror"
	"v.io/x/lib/vlog"
)

// Throw raises a new Java exception of the class with the given
// fully-qualified name (e.g. "java/lang/IllegalStateException") and returns
// an error carrying the same message, which the caller must propagate.
//
// If the exception class itself can't be found, a java.lang.Exception is
// thrown instead and the message notes the substitution.
func (e *Env) Throw(className, msg string) error {
	return ErrJavaException.Errorf(nil, "%s", e.throw(className, msg))
}

// throw raises the Java side of an exception and returns the message that
// was actually thrown.
func (e *Env) throw(className, msg string) string {
	// The new exception replaces any pending one.
	e.jni.ExceptionClear()
	cls := e.jni.FindClass(className)
	if cls.IsNull() {
		// FindClass left a NoClassDefFoundError pending.
		e.jni.ExceptionClear()
		msg += fmt.Sprintf("\nUnable to throw exception of unknown type %s: throwing java.lang.Exception instead", className)
		cls = e.jni.FindClass(DefaultExceptionClass)
		if cls.IsNull() {
			e.jni.ExceptionClear()
			vlog.Errorf("couldn't find %s; no Java exception thrown for: %s", DefaultExceptionClass, msg)
			return msg
		}
	}
	if e.jni.ThrowNew(cls, msg) != StatusOK {
		vlog.Errorf("ThrowNew(%s) failed for: %s", className, msg)
	}
	e.jni.DeleteLocalRef(cls)
	return msg
}

// raise reports a failure on both sides of the boundary: a Java exception of
// the runtime's configured class is left pending, and an error with the
// provided ID and the same message is returned.  Any exception already
// pending (e.g. the NoSuchMethodError left by a failed lookup) is replaced.
func (e *Env) raise(id verror.IDAction, format string, args ...interface{}) error {
	msg := e.throw(e.rt.opts.exceptionClass, fmt.Sprintf(format, args...))
	vlog.VI(1).Infof("raised: %s", msg)
	return id.Errorf(nil, "%s", msg)
}

// invalidHandle reports the use of a null or released reference on both
// sides, like raise.  A nil Object or Class carries no runtime; only the
// error is returned for it.
func invalidHandle(rt *Runtime, format string, args ...interface{}) error {
	if rt == nil {
		return ErrInvalidHandle.Errorf(nil, "%s", fmt.Sprintf(format, args...))
	}
	env, free, err := rt.Env()
	if err != nil {
		return err
	}
	defer free()
	return env.raise(ErrInvalidHandle, format, args...)
}

// ExceptionCheck returns true iff a Java exception is pending.
func (e *Env) ExceptionCheck() bool {
	exc := e.jni.ExceptionOccurred()
	if exc.IsNull() {
		return false
	}
	e.jni.DeleteLocalRef(exc)
	return true
}

// ExceptionClear clears any pending Java exception.
func (e *Env) ExceptionClear() { e.jni.ExceptionClear() }

// CheckException returns the pending Java exception as an error, clearing
// it, or nil if no exception is pending.
func (e *Env) CheckException() error {
	return e.pendingError(true)
}

// pendingError converts the pending exception, if any, into an error.  The
// exception is cleared if clear is set; otherwise it is left pending once its
// message has been read.
func (e *Env) pendingError(clear bool) error {
	exc := e.jni.ExceptionOccurred()
	if exc.IsNull() {
		return nil
	}
	defer e.jni.DeleteLocalRef(exc)
	// Calling into Java (getMessage) isn't allowed with an exception pending.
	e.jni.ExceptionClear()
	msg := e.exceptionMessage(exc)
	if !clear {
		e.rethrow(exc)
	}
	return ErrJavaException.Errorf(nil, "%s", msg)
}

// exceptionMessage returns "<class>: <getMessage()>" for the throwable exc.
// No exception may be pending.
func (e *Env) exceptionMessage(exc Handle) string {
	className := "java.lang.Throwable"
	if cls := e.jni.GetObjectClass(exc); !cls.IsNull() {
		if n, err := e.className(cls); err == nil {
			className = n
		}
		e.jni.DeleteLocalRef(cls)
	}
	cls := e.jni.FindClass("java/lang/Throwable")
	if cls.IsNull() {
		e.jni.ExceptionClear()
		return className
	}
	defer e.jni.DeleteLocalRef(cls)
	mid := e.jni.GetMethodID(cls, "getMessage", FuncSign(nil, StringSign))
	if mid == 0 {
		e.jni.ExceptionClear()
		return className
	}
	str := e.jni.CallMethodA(KindObject, exc, mid, nil).Handle()
	if exc2 := e.jni.ExceptionOccurred(); !exc2.IsNull() {
		e.jni.DeleteLocalRef(exc2)
		e.jni.ExceptionClear()
		return className
	}
	if str.IsNull() {
		return className
	}
	defer e.jni.DeleteLocalRef(str)
	return className + ": " + e.jni.GetStringUTFChars(str)
}

// className returns the binary name of cls (e.g. "java.lang.String").
func (e *Env) className(cls Handle) (string, error) {
	classCls := e.jni.FindClass("java/lang/Class")
	if classCls.IsNull() {
		e.jni.ExceptionClear()
		return "", ErrClassNotFound.Errorf(nil, "java/lang/Class")
	}
	defer e.jni.DeleteLocalRef(classCls)
	mid := e.jni.GetMethodID(classCls, "getName", FuncSign(nil, StringSign))
	if mid == 0 {
		e.jni.ExceptionClear()
		return "", ErrMemberNotFound.Errorf(nil, "java/lang/Class.getName")
	}
	str := e.jni.CallMethodA(KindObject, cls, mid, nil).Handle()
	if exc := e.jni.ExceptionOccurred(); !exc.IsNull() {
		e.jni.DeleteLocalRef(exc)
		e.jni.ExceptionClear()
		return "", ErrJavaException.Errorf(nil, "Class.getName failed")
	}
	defer e.jni.DeleteLocalRef(str)
	return e.jni.GetStringUTFChars(str), nil
}

// rethrow makes exc pending again.
func (e *Env) rethrow(exc Handle) {
	if e.jni.Throw(exc) != StatusOK {
		vlog.Errorf("couldn't rethrow exception %#x", uintptr(exc))
	}
}

// checkCallable returns an error if an exception is already pending, in
// which case calling into the VM isn't allowed.
func (e *Env) checkCallable() error {
	exc := e.jni.ExceptionOccurred()
	if exc.IsNull() {
		return nil
	}
	e.jni.DeleteLocalRef(exc)
	return ErrJavaException.Errorf(nil, "a Java exception is already pending")
}
