// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni_test

import (
	"errors"
	"reflect"
	"runtime"
	"testing"

	"github.com/VirtuosoChris/uJNI/jni"
)

func newList(t *testing.T, rt *jni.Runtime, values ...int32) *jni.Object {
	t.Helper()
	cls := mustFindClass(t, rt, "java/util/ArrayList")
	list, err := cls.New()
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range values {
		n := newInteger(t, rt, v)
		ok, err := jni.Call[jni.Bool](list, "add", n)
		n.Release()
		if err != nil || !bool(ok) {
			t.Fatalf("add(%d): got %v, %v", v, ok, err)
		}
	}
	return list
}

func TestForEachInList(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm, rt := newRuntime(t)
	list := newList(t, rt, 10, 20, 30)
	defer list.Release()
	env, free := mustEnv(t, rt)
	defer free()
	globals := vm.GlobalRefs()

	var indices []int
	var values []int32
	err := jni.ForEachInList(env, list, func(i int, elem *jni.Object) error {
		indices = append(indices, i)
		values = append(values, intValue(t, elem))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(indices, want) {
		t.Errorf("got indices %v, want %v", indices, want)
	}
	if want := []int32{10, 20, 30}; !reflect.DeepEqual(values, want) {
		t.Errorf("got values %v, want %v", values, want)
	}
	// Elements are released once the callback returns.
	if got := vm.GlobalRefs(); got != globals {
		t.Errorf("got %d global references, want %d", got, globals)
	}
}

func TestForEachInListKeepElement(t *testing.T) {
	_, rt := newRuntime(t)
	list := newList(t, rt, 1, 2)
	defer list.Release()
	env, free := mustEnv(t, rt)
	defer free()

	var kept *jni.Object
	err := jni.ForEachInList(env, list, func(i int, elem *jni.Object) error {
		if i == 1 {
			var err error
			kept, err = elem.Copy()
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	defer kept.Release()
	if got := intValue(t, kept); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestForEachInListStops(t *testing.T) {
	_, rt := newRuntime(t)
	list := newList(t, rt, 1, 2, 3)
	defer list.Release()
	env, free := mustEnv(t, rt)
	defer free()

	stop := errors.New("stop")
	calls := 0
	err := jni.ForEachInList(env, list, func(i int, _ *jni.Object) error {
		calls++
		if i == 1 {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("got %v, want %v", err, stop)
	}
	if calls != 2 {
		t.Errorf("got %d calls, want 2", calls)
	}
}

func TestForEachInListEmpty(t *testing.T) {
	_, rt := newRuntime(t)
	list := newList(t, rt)
	defer list.Release()
	env, free := mustEnv(t, rt)
	defer free()
	err := jni.ForEachInList(env, list, func(int, *jni.Object) error {
		t.Errorf("callback invoked for an empty list")
		return nil
	})
	if err != nil {
		t.Error(err)
	}
}

func TestForEachInListErrors(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm, rt := newRuntime(t)
	env, free := mustEnv(t, rt)
	defer free()
	fn := func(int, *jni.Object) error { return nil }

	n := newInteger(t, rt, 1)
	defer n.Release()
	checkErrorID(t, jni.ForEachInList(env, n, fn), jni.ErrNotList)
	if got, want := vm.Pending(), "java.lang.Exception"; got != want {
		t.Errorf("got pending %q, want %q", got, want)
	}
	env.ExceptionClear()

	list := newList(t, rt, 1)
	defer list.Release()
	if _, err := jni.Call[jni.Bool](list, "add", (*jni.Object)(nil)); err != nil {
		t.Fatal(err)
	}
	calls := 0
	err := jni.ForEachInList(env, list, func(int, *jni.Object) error {
		calls++
		return nil
	})
	checkErrorID(t, err, jni.ErrInvalidHandle)
	checkContains(t, err.Error(), "null element at index 1")
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
	env.ExceptionClear()

	checkErrorID(t, jni.ForEachInList(env, nil, fn), jni.ErrInvalidHandle)
	checkRaised(t, vm, rt, "java.lang.Exception")
}
