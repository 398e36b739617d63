// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni_test

import (
	"runtime"
	"testing"

	"github.com/VirtuosoChris/uJNI/jni"
	"github.com/VirtuosoChris/uJNI/jni/fakevm"
)

func TestLoadClass(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm, rt := newRuntime(t, jni.WithClearPending(true))
	vm.DefineClass("com/example/Plugin", "java/lang/Object").
		Hidden().
		StaticMethod("answer", "()I", func(*fakevm.Env, jni.Handle, []jni.Value) jni.Value {
			return jni.IntValue(42)
		})
	owner := newCounter(t, vm, rt, 0)
	env, free := mustEnv(t, rt)
	defer free()

	// Application classes aren't visible to FindClass on native threads.
	_, err := env.FindClass("com/example/Plugin")
	checkErrorID(t, err, jni.ErrClassNotFound)
	env.ExceptionClear()

	cls, err := jni.LoadClass(env, owner, "com.example.Plugin")
	if err != nil {
		t.Fatal(err)
	}
	defer cls.Release()
	if got, err := jni.CallStatic0[jni.Int](cls, "answer"); err != nil || got != 42 {
		t.Errorf("answer: got %v, %v, want 42", got, err)
	}
	if name, err := cls.Name(); err != nil || name != "com.example.Plugin" {
		t.Errorf("got %q, %v, want \"com.example.Plugin\"", name, err)
	}

	_, err = jni.LoadClass(env, owner, "com/example/Missing")
	checkErrorID(t, err, jni.ErrJavaException)
	checkContains(t, err.Error(), "java.lang.ClassNotFoundException", "com.example.Missing")
}

func TestLoadClassBootstrapOwner(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm, rt := newRuntime(t)
	owner := newInteger(t, rt, 0)
	defer owner.Release()
	env, free := mustEnv(t, rt)
	defer free()

	// Core classes have no class loader.
	_, err := jni.LoadClass(env, owner, "java/lang/String")
	checkErrorID(t, err, jni.ErrClassNotFound)
	if got, want := vm.Pending(), "java.lang.Exception"; got != want {
		t.Errorf("got pending %q, want %q", got, want)
	}
	env.ExceptionClear()

	_, err = jni.LoadClass(env, nil, "java/lang/String")
	checkErrorID(t, err, jni.ErrInvalidHandle)
	checkRaised(t, vm, rt, "java.lang.Exception")
}
