// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni_test

import (
	"math"
	"runtime"
	"testing"

	"github.com/VirtuosoChris/uJNI/jni"
)

func TestFields(t *testing.T) {
	vm, rt := newRuntime(t)
	c := newCounter(t, vm, rt, 0)

	if got, err := jni.GetField[jni.Int](c, "limit"); err != nil || got != 0 {
		t.Errorf("limit: got %v, %v, want 0", got, err)
	}
	if err := jni.SetField(c, "limit", jni.Int(-12)); err != nil {
		t.Fatal(err)
	}
	if got, err := jni.GetField[jni.Int](c, "limit"); err != nil || got != -12 {
		t.Errorf("limit: got %v, %v, want -12", got, err)
	}

	if got, err := jni.GetField[jni.String](c, "label"); err != nil || got != "" {
		t.Errorf("null label: got %q, %v, want \"\"", got, err)
	}
	if err := jni.SetField(c, "label", jni.String("hits")); err != nil {
		t.Fatal(err)
	}
	if got, err := jni.GetField[jni.String](c, "label"); err != nil || got != "hits" {
		t.Errorf("label: got %q, %v, want \"hits\"", got, err)
	}

	other := newCounter(t, vm, rt, 7)
	if err := jni.SetField(c, "peer", jni.TypedArg(other, jni.ObjectSignOf("com/example/Counter"))); err != nil {
		t.Fatal(err)
	}
	peer, err := jni.GetField[jni.Instance[counter]](c, "peer")
	if err != nil {
		t.Fatal(err)
	}
	defer peer.Release()
	if got, err := jni.Call0[jni.Int](peer.Object, "get"); err != nil || got != 7 {
		t.Errorf("peer.get: got %v, %v, want 7", got, err)
	}
}

func TestStaticFields(t *testing.T) {
	vm, rt := newRuntime(t)
	newCounter(t, vm, rt, 0)
	integerCls := mustFindClass(t, rt, "java/lang/Integer")
	counterCls := mustFindClass(t, rt, "com/example/Counter")

	if got, err := jni.GetStaticField[jni.Int](integerCls, "MAX_VALUE"); err != nil || got != math.MaxInt32 {
		t.Errorf("MAX_VALUE: got %v, %v, want %d", got, err, math.MaxInt32)
	}
	if got, err := jni.GetStaticField[jni.Int](integerCls, "MIN_VALUE"); err != nil || got != math.MinInt32 {
		t.Errorf("MIN_VALUE: got %v, %v, want %d", got, err, math.MinInt32)
	}
	if err := jni.SetStaticField(counterCls, "created", jni.Long(1<<33)); err != nil {
		t.Fatal(err)
	}
	if got, err := jni.GetStaticField[jni.Long](counterCls, "created"); err != nil || got != 1<<33 {
		t.Errorf("created: got %v, %v, want %d", got, err, int64(1<<33))
	}
	if got, err := jni.CallStatic[jni.Long](counterCls, "sum", jni.Long(1<<33), jni.Long(-1)); err != nil || got != 1<<33-1 {
		t.Errorf("sum: got %v, %v, want %d", got, err, int64(1<<33-1))
	}
}

func TestFieldNotFound(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm, rt := newRuntime(t, jni.WithClearPending(true))
	c := newCounter(t, vm, rt, 0)
	env, free := mustEnv(t, rt)
	defer free()

	tests := []func() error{
		func() error { _, err := jni.GetField[jni.Long](c, "limit"); return err },
		func() error { _, err := jni.GetField[jni.Int](c, "missing"); return err },
		func() error { _, err := jni.GetField[jni.Void](c, "limit"); return err },
		func() error { return jni.SetField(c, "label", jni.Int(1)) },
		func() error { _, err := jni.GetStaticField[jni.Int](c.Class(), "limit"); return err },
		func() error { return jni.SetStaticField(c.Class(), "created", jni.Int(1)) },
	}
	for i, test := range tests {
		checkErrorID(t, test(), jni.ErrMemberNotFound)
		// Lookup failures always leave the exception pending.
		if got, want := vm.Pending(), "java.lang.Exception"; got != want {
			t.Errorf("%d: got pending %q, want %q", i, got, want)
		}
		env.ExceptionClear()
	}
}
