// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni_test

import (
	"strconv"
	"strings"
	"testing"

	"v.io/v23/verror"

	"github.com/VirtuosoChris/uJNI/jni"
	"github.com/VirtuosoChris/uJNI/jni/fakevm"
)

// newRuntime returns a runtime bound to a fresh fake VM.  The test fails if
// the VM recorded any misuse by the time it completes.
func newRuntime(t *testing.T, opts ...jni.Option) (*fakevm.VM, *jni.Runtime) {
	t.Helper()
	vm := fakevm.New()
	rt, err := jni.New(vm, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		for _, f := range vm.Faults() {
			t.Errorf("VM fault: %s", f)
		}
	})
	return vm, rt
}

func mustEnv(t *testing.T, rt *jni.Runtime) (*jni.Env, func()) {
	t.Helper()
	env, free, err := rt.Env()
	if err != nil {
		t.Fatal(err)
	}
	return env, free
}

// checkRaised checks that an exception of the named class is pending on the
// calling thread, and clears it.  The caller must be locked to its thread.
func checkRaised(t *testing.T, vm *fakevm.VM, rt *jni.Runtime, class string) {
	t.Helper()
	if got := vm.Pending(); got != class {
		t.Errorf("got pending %q, want %q", got, class)
	}
	env, free := mustEnv(t, rt)
	env.ExceptionClear()
	free()
}

func mustFindClass(t *testing.T, rt *jni.Runtime, name string) *jni.Class {
	t.Helper()
	cls, err := rt.FindClass(name)
	if err != nil {
		t.Fatalf("FindClass(%q) failed: %v", name, err)
	}
	t.Cleanup(func() { cls.Release() })
	return cls
}

func newInteger(t *testing.T, rt *jni.Runtime, v int32) *jni.Object {
	t.Helper()
	cls, err := rt.FindClass("java/lang/Integer")
	if err != nil {
		t.Fatal(err)
	}
	defer cls.Release()
	obj, err := jni.CallStatic[jni.Instance[integer]](cls, "valueOf", jni.Int(v))
	if err != nil {
		t.Fatalf("Integer.valueOf(%d) failed: %v", v, err)
	}
	return obj.Object
}

func intValue(t *testing.T, obj *jni.Object) int32 {
	t.Helper()
	v, err := jni.Call0[jni.Int](obj, "intValue")
	if err != nil {
		t.Fatalf("intValue failed: %v", err)
	}
	return int32(v)
}

func checkErrorID(t *testing.T, err error, id verror.IDAction) {
	t.Helper()
	if got, want := verror.ErrorID(err), id.ID; got != want {
		t.Errorf("got error %v (%v), want %v", err, got, want)
	}
}

func checkContains(t *testing.T, s string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			t.Errorf("%q doesn't contain %q", s, sub)
		}
	}
}

type integer struct{}

func (integer) ClassName() string { return "java/lang/Integer" }

type javaString struct{}

func (javaString) ClassName() string { return "java/lang/String" }

type class struct{}

func (class) ClassName() string { return "java/lang/Class" }

type counter struct{}

func (counter) ClassName() string { return "com/example/Counter" }

func nop(*fakevm.Env, jni.Handle, []jni.Value) jni.Value { return 0 }

// defineCounter defines com.example.Counter, whose instances hold an int
// count in their Go data.
func defineCounter(vm *fakevm.VM) {
	count := func(env *fakevm.Env, this jni.Handle) int32 {
		n, _ := env.Data(this).(int32)
		return n
	}
	vm.DefineClass("com/example/Counter", "java/lang/Object").
		Field("limit", jni.IntSign).
		Field("label", jni.StringSign).
		Field("peer", jni.ObjectSignOf("com/example/Counter")).
		StaticField("created", jni.LongSign).
		Method("<init>", "()V", nop).
		Method("<init>", "(I)V", func(env *fakevm.Env, this jni.Handle, args []jni.Value) jni.Value {
			env.SetData(this, args[0].Int())
			return 0
		}).
		Method("add", "(I)I", func(env *fakevm.Env, this jni.Handle, args []jni.Value) jni.Value {
			n := count(env, this) + args[0].Int()
			env.SetData(this, n)
			return jni.IntValue(n)
		}).
		Method("get", "()I", func(env *fakevm.Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.IntValue(count(env, this))
		}).
		Method("reset", "()V", func(env *fakevm.Env, this jni.Handle, _ []jni.Value) jni.Value {
			env.SetData(this, int32(0))
			return 0
		}).
		Method("isZero", "()Z", func(env *fakevm.Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.BoolValue(count(env, this) == 0)
		}).
		Method("negate", "(B)B", func(_ *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.ByteValue(-args[0].Byte())
		}).
		Method("upper", "(C)C", func(_ *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			c := args[0].Char()
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			return jni.CharValue(c)
		}).
		Method("twice", "(S)S", func(_ *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.ShortValue(2 * args[0].Short())
		}).
		Method("half", "(F)F", func(_ *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.FloatValue(args[0].Float() / 2)
		}).
		Method("scale", "(DJ)D", func(env *fakevm.Env, this jni.Handle, args []jni.Value) jni.Value {
			return jni.DoubleValue(args[0].Double() * float64(args[1].Long()))
		}).
		Method("describe", "(Ljava/lang/String;)Ljava/lang/String;", func(env *fakevm.Env, this jni.Handle, args []jni.Value) jni.Value {
			prefix := env.GetStringUTFChars(args[0].Handle())
			return jni.HandleValue(env.NewStringUTF(prefix + ":" + strconv.Itoa(int(count(env, this)))))
		}).
		Method("measure", "(Ljava/lang/CharSequence;)I", func(env *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.IntValue(int32(len(env.GetStringUTFChars(args[0].Handle()))))
		}).
		Method("self", "()Lcom/example/Counter;", func(env *fakevm.Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.HandleValue(env.NewLocalRef(this))
		}).
		Method("nothing", "()Ljava/lang/Object;", func(*fakevm.Env, jni.Handle, []jni.Value) jni.Value {
			return 0
		}).
		Method("fail", "(Ljava/lang/String;)V", func(env *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			env.ThrowByName("java/lang/IllegalStateException", env.GetStringUTFChars(args[0].Handle()))
			return 0
		}).
		StaticMethod("sum", "(JJ)J", func(_ *fakevm.Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.LongValue(args[0].Long() + args[1].Long())
		})
}
