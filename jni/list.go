// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"v.io/x/lib/vlog"
)

// ForEachInList calls fn for each element of the java.util.List list, in
// index order.  Iteration stops at the first error, which is returned.
//
// Each element is released once fn returns; fn must Copy an element it wants
// to keep.  A null element is reported as an error.
func ForEachInList(env *Env, list *Object, fn func(i int, elem *Object) error) error {
	if !list.Valid() {
		return env.raise(ErrInvalidHandle, "iteration over invalid list")
	}
	listCls, err := env.FindClass("java/util/List")
	if err != nil {
		return err
	}
	defer listCls.releaseIn(env)
	if !env.jni.IsInstanceOf(list.h, listCls.h) {
		return env.raise(ErrNotList, "%v is not a java.util.List", list)
	}
	sizeID, err := env.methodID(listCls, "size", FuncSign(nil, IntSign))
	if err != nil {
		return err
	}
	getID, err := env.methodID(listCls, "get", FuncSign([]Sign{IntSign}, ObjectSign))
	if err != nil {
		return err
	}
	if err := env.checkCallable(); err != nil {
		return err
	}
	size := env.jni.CallMethodA(KindInt, list.h, sizeID, nil).Int()
	if err := env.pendingError(env.rt.opts.clearPending); err != nil {
		return err
	}
	vlog.VI(2).Infof("iterating over %d elements of %v", size, list)
	for i := int32(0); i < size; i++ {
		h := env.jni.CallMethodA(KindObject, list.h, getID, []Value{IntValue(i)}).Handle()
		if err := env.pendingError(env.rt.opts.clearPending); err != nil {
			env.DeleteLocalRef(h)
			return err
		}
		if h.IsNull() {
			return env.raise(ErrInvalidHandle, "null element at index %d of %v", i, list)
		}
		elem, err := env.takeLocal(h)
		if err != nil {
			return err
		}
		err = fn(int(i), elem)
		elem.releaseOnce(env)
		if err != nil {
			return err
		}
	}
	return nil
}
