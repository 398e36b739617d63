// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakevm

import (
	"runtime"
	"strings"
	"testing"

	"github.com/VirtuosoChris/uJNI/jni"
)

func attach(t *testing.T, vm *VM) *Env {
	t.Helper()
	env, err := vm.AttachCurrentThread(jni.AttachArgs{Version: jni.Version1_6, Name: "test"})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { vm.DetachCurrentThread() })
	return env.(*Env)
}

func checkFaults(t *testing.T, vm *VM, want ...string) {
	t.Helper()
	got := vm.Faults()
	if len(got) != len(want) {
		t.Fatalf("got faults %q, want %d matching %q", got, len(want), want)
	}
	for i := range want {
		if !strings.Contains(got[i], want[i]) {
			t.Errorf("fault %d: got %q, want it to contain %q", i, got[i], want[i])
		}
	}
}

func TestAttach(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm := New()

	if _, err := vm.GetEnv(jni.Version1_6); err != jni.ErrDetached {
		t.Errorf("got %v, want %v", err, jni.ErrDetached)
	}
	env := attach(t, vm)
	got, err := vm.GetEnv(jni.Version1_6)
	if err != nil || got != env {
		t.Errorf("GetEnv: got %v, %v, want %v", got, err, env)
	}
	if _, err := vm.GetEnv(0x00010001); err == nil {
		t.Errorf("GetEnv accepted JNI 1.1")
	}
	again, err := vm.AttachCurrentThread(jni.AttachArgs{Name: "other"})
	if err != nil || again != env {
		t.Errorf("second attach: got %v, %v, want %v", again, err, env)
	}
	if got, want := vm.Attaches(), 1; got != want {
		t.Errorf("got %d attaches, want %d", got, want)
	}
	if err := vm.DetachCurrentThread(); err != nil {
		t.Fatal(err)
	}
	if err := vm.DetachCurrentThread(); err == nil {
		t.Errorf("detach of a detached thread succeeded")
	}
	vm.SetFailAttach(true)
	if _, err := vm.AttachCurrentThread(jni.AttachArgs{}); err == nil {
		t.Errorf("attach succeeded while refused")
	}
	checkFaults(t, vm)
}

func TestReferences(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm := New()
	env := attach(t, vm)

	env.PushLocalFrame(4)
	s := env.NewStringUTF("hello")
	if got := env.GetStringUTFChars(s); got != "hello" {
		t.Errorf("got %q, want \"hello\"", got)
	}
	g := env.NewGlobalRef(s)
	if !env.IsSameObject(s, g) || s == g {
		t.Errorf("global reference %#x doesn't match local %#x", g, s)
	}
	if got, want := vm.LocalRefs(), 1; got != want {
		t.Errorf("got %d local references, want %d", got, want)
	}
	kept := env.PopLocalFrame(s)
	if got, want := vm.LocalRefs(), 1; got != want {
		t.Errorf("got %d local references after pop, want %d", got, want)
	}
	if got := env.GetStringUTFChars(kept); got != "hello" {
		t.Errorf("got %q through the popped-frame result, want \"hello\"", got)
	}
	env.DeleteLocalRef(kept)
	if got := env.GetStringUTFChars(g); got != "hello" {
		t.Errorf("got %q through the global reference, want \"hello\"", got)
	}
	env.DeleteGlobalRef(g)
	if got := vm.GlobalRefs(); got != 0 {
		t.Errorf("got %d global references, want 0", got)
	}
	checkFaults(t, vm)

	env.DeleteGlobalRef(g)
	env.DeleteLocalRef(s)
	env.PopLocalFrame(0)
	checkFaults(t, vm, "DeleteGlobalRef", "DeleteLocalRef", "PopLocalFrame")
}

func TestLocalReferenceOnOtherThread(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm := New()
	env := attach(t, vm)
	s := env.NewStringUTF("mine")

	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		jenv, err := vm.AttachCurrentThread(jni.AttachArgs{Name: "other"})
		if err != nil {
			t.Error(err)
			return
		}
		jenv.GetStringUTFChars(s)
		vm.DetachCurrentThread()
	}()
	<-done
	checkFaults(t, vm, `local reference`)
}

func TestPendingException(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm := New()
	env := attach(t, vm)

	if cls := env.FindClass("com/does/not/Exist"); cls != 0 {
		t.Errorf("found a missing class: %#x", cls)
	}
	if got, want := vm.Pending(), "java.lang.NoClassDefFoundError"; got != want {
		t.Errorf("got pending %q, want %q", got, want)
	}
	if got, want := vm.PendingMessage(), "com/does/not/Exist"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
	env.FindClass("java/lang/String")
	checkFaults(t, vm, "FindClass called with java.lang.NoClassDefFoundError pending")

	exc := env.ExceptionOccurred()
	env.ExceptionClear()
	if exc == 0 || vm.Pending() != "" {
		t.Fatalf("ExceptionOccurred/ExceptionClear don't work")
	}
	if env.Throw(exc) != jni.StatusOK || vm.Pending() != "java.lang.NoClassDefFoundError" {
		t.Errorf("Throw didn't make the exception pending again")
	}
	env.ExceptionClear()
}

func TestMethods(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	vm := New()
	env := attach(t, vm)

	list := env.FindClass("java/util/ArrayList")
	ctor := env.GetMethodID(list, "<init>", "()V")
	obj := env.NewObjectA(list, ctor, nil)
	iface := env.FindClass("java/util/List")
	if !env.IsInstanceOf(obj, iface) {
		t.Errorf("ArrayList isn't a List")
	}
	add := env.GetMethodID(iface, "add", "(Ljava/lang/Object;)Z")
	size := env.GetMethodID(iface, "size", "()I")
	if ok := env.CallMethodA(jni.KindBool, obj, add, []jni.Value{jni.HandleValue(env.NewStringUTF("a"))}); !ok.Bool() {
		t.Errorf("add returned false")
	}
	if got := env.CallMethodA(jni.KindInt, obj, size, nil).Int(); got != 1 {
		t.Errorf("got size %d, want 1", got)
	}
	if env.GetSuperclass(iface) != 0 {
		t.Errorf("interface has a superclass")
	}
	checkFaults(t, vm)

	// Wrong kind.
	env.CallMethodA(jni.KindLong, obj, size, nil)
	checkFaults(t, vm, "returns int, invoked as long")

	if mid := env.GetMethodID(list, "missing", "()V"); mid != 0 {
		t.Errorf("found a missing method")
	}
	if got, want := vm.Pending(), "java.lang.NoSuchMethodError"; got != want {
		t.Errorf("got pending %q, want %q", got, want)
	}
	env.ExceptionClear()
}

func TestMonitorReleasedOnDetach(t *testing.T) {
	vm := New()
	var h jni.Handle
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		jenv, err := vm.AttachCurrentThread(jni.AttachArgs{Name: "owner"})
		if err != nil {
			t.Error(err)
			return
		}
		h = jenv.NewGlobalRef(jenv.NewStringUTF("lock"))
		jenv.MonitorEnter(h)
		jenv.MonitorEnter(h)
		vm.DetachCurrentThread()
	}()
	<-done
	if got := vm.MonitorDepth(h); got != 0 {
		t.Errorf("got monitor depth %d after detach, want 0", got)
	}
	checkFaults(t, vm)
}
