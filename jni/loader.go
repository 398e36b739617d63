// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"strings"
)

// LoadClass resolves the class with the given fully-qualified name through
// the class loader of owner's class.  Threads attached from native code only
// see the system class loader through FindClass; LoadClass reaches the
// application's classes as long as owner is one of them.
func LoadClass(env *Env, owner *Object, name string) (*Class, error) {
	if !owner.Valid() {
		return nil, env.raise(ErrInvalidHandle, "class loader owner is invalid")
	}
	classCls, err := env.FindClass("java/lang/Class")
	if err != nil {
		return nil, err
	}
	defer classCls.releaseIn(env)
	getLoader, err := env.methodID(classCls, "getClassLoader", FuncSign(nil, ClassLoaderSign))
	if err != nil {
		return nil, err
	}
	loaderCls, err := env.FindClass("java/lang/ClassLoader")
	if err != nil {
		return nil, err
	}
	defer loaderCls.releaseIn(env)
	loadClass, err := env.methodID(loaderCls, "loadClass", FuncSign([]Sign{StringSign}, ClassSign))
	if err != nil {
		return nil, err
	}
	if err := env.checkCallable(); err != nil {
		return nil, err
	}
	loader := env.jni.CallMethodA(KindObject, owner.cls.h, getLoader, nil).Handle()
	if err := env.pendingError(env.rt.opts.clearPending); err != nil {
		return nil, err
	}
	if loader.IsNull() {
		return nil, env.raise(ErrClassNotFound, "Unable to find class : %s (no class loader for %v)", name, owner.cls)
	}
	defer env.DeleteLocalRef(loader)
	// ClassLoader.loadClass takes binary names.
	jname, err := JString(env, strings.Replace(name, "/", ".", -1))
	if err != nil {
		return nil, err
	}
	defer env.DeleteLocalRef(jname)
	h := env.jni.CallMethodA(KindObject, loader, loadClass, []Value{HandleValue(jname)}).Handle()
	if err := env.pendingError(env.rt.opts.clearPending); err != nil {
		env.DeleteLocalRef(h)
		return nil, err
	}
	if h.IsNull() {
		return nil, env.raise(ErrClassNotFound, "Unable to find class : %s", name)
	}
	return env.newClass(h, strings.Replace(name, ".", "/", -1))
}
