// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakevm

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/VirtuosoChris/uJNI/jni"
)

type bootClasses struct {
	object, class, string, throwable *Class
	detailMessage, integerValue      *field
}

var throwables = []struct{ name, super string }{
	{"java/lang/Exception", "java/lang/Throwable"},
	{"java/lang/RuntimeException", "java/lang/Exception"},
	{"java/lang/ClassNotFoundException", "java/lang/Exception"},
	{"java/lang/InstantiationException", "java/lang/Exception"},
	{"java/lang/NullPointerException", "java/lang/RuntimeException"},
	{"java/lang/IllegalArgumentException", "java/lang/RuntimeException"},
	{"java/lang/IllegalStateException", "java/lang/RuntimeException"},
	{"java/lang/IllegalMonitorStateException", "java/lang/RuntimeException"},
	{"java/lang/IndexOutOfBoundsException", "java/lang/RuntimeException"},
	{"java/lang/ArithmeticException", "java/lang/RuntimeException"},
	{"java/lang/Error", "java/lang/Throwable"},
	{"java/lang/LinkageError", "java/lang/Error"},
	{"java/lang/NoClassDefFoundError", "java/lang/LinkageError"},
	{"java/lang/IncompatibleClassChangeError", "java/lang/LinkageError"},
	{"java/lang/NoSuchMethodError", "java/lang/IncompatibleClassChangeError"},
	{"java/lang/NoSuchFieldError", "java/lang/IncompatibleClassChangeError"},
	{"java/lang/AbstractMethodError", "java/lang/IncompatibleClassChangeError"},
}

func (vm *VM) bootstrap() {
	// java.lang.Object and java.lang.Class refer to each other; the class
	// objects of the two are created once both exist.
	vm.mu.Lock()
	obj := vm.defineLocked("java/lang/Object", nil)
	cls := vm.defineLocked("java/lang/Class", obj)
	vm.boot.object, vm.boot.class = obj, cls
	for _, c := range []*Class{obj, cls} {
		c.obj = vm.newObject(cls)
		c.obj.data = c
		c.boot = true
	}
	vm.mu.Unlock()

	obj.Method("<init>", "()V", nop).
		Method("hashCode", "()I", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.IntValue(env.objectID(this))
		}).
		Method("equals", "(Ljava/lang/Object;)Z", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			return jni.BoolValue(env.IsSameObject(this, args[0].Handle()))
		}).
		Method("toString", "()Ljava/lang/String;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return env.stringValue(fmt.Sprintf("%s@%x", env.className(this), env.objectID(this)))
		}).
		Method("getClass", "()Ljava/lang/Class;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.HandleValue(env.GetObjectClass(this))
		})

	cls.Method("getName", "()Ljava/lang/String;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
		return env.stringValue(binaryName(env.derefClassName(this)))
	}).
		Method("getClassLoader", "()Ljava/lang/ClassLoader;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.HandleValue(env.classLoader(this))
		})

	str := vm.DefineClass("java/lang/String", "java/lang/Object")
	vm.boot.string = str
	vm.DefineInterface("java/lang/CharSequence").
		Method("length", "()I", nil).
		Method("toString", "()Ljava/lang/String;", nil)
	str.Implements("java/lang/CharSequence").
		Method("<init>", "()V", nop).
		Method("length", "()I", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.IntValue(int32(len(env.GetStringUTFChars(this))))
		}).
		Method("toString", "()Ljava/lang/String;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.HandleValue(env.NewStringUTF(env.GetStringUTFChars(this)))
		}).
		Method("equals", "(Ljava/lang/Object;)Z", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			other := args[0].Handle()
			if other.IsNull() || env.className(other) != "java.lang.String" {
				return jni.BoolValue(false)
			}
			return jni.BoolValue(env.GetStringUTFChars(this) == env.GetStringUTFChars(other))
		}).
		Method("concat", "(Ljava/lang/String;)Ljava/lang/String;", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			other := args[0].Handle()
			if other.IsNull() {
				env.ThrowByName("java/lang/NullPointerException", "concat of null")
				return 0
			}
			return env.stringValue(env.GetStringUTFChars(this) + env.GetStringUTFChars(other))
		}).
		StaticMethod("valueOf", "(I)Ljava/lang/String;", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return env.stringValue(fmt.Sprint(args[0].Int()))
		})

	throwable := vm.DefineClass("java/lang/Throwable", "java/lang/Object").
		Field("detailMessage", jni.StringSign)
	vm.boot.throwable = throwable
	vm.boot.detailMessage = throwable.fields["detailMessage"]
	throwable.Method("getMessage", "()Ljava/lang/String;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
		env.lock()
		defer env.unlock()
		o := env.deref(this)
		if o == nil {
			return 0
		}
		return jni.HandleValue(env.newLocal(o.fields[env.vm.boot.detailMessage].obj))
	})
	throwableCtors(throwable)
	for _, t := range throwables {
		throwableCtors(vm.DefineClass(t.name, t.super))
	}

	vm.DefineClass("java/lang/ClassLoader", "java/lang/Object").
		Method("loadClass", "(Ljava/lang/String;)Ljava/lang/Class;", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			name := args[0].Handle()
			if name.IsNull() {
				env.ThrowByName("java/lang/NullPointerException", "loadClass of null")
				return 0
			}
			return jni.HandleValue(env.loadClass(env.GetStringUTFChars(name)))
		})
	vm.mu.Lock()
	vm.loader = vm.newObject(vm.classes["java/lang/ClassLoader"])
	vm.mu.Unlock()

	integer := vm.DefineClass("java/lang/Integer", "java/lang/Object").
		Field("value", jni.IntSign).
		StaticField("MAX_VALUE", jni.IntSign).
		StaticField("MIN_VALUE", jni.IntSign)
	vm.boot.integerValue = integer.fields["value"]
	integer.staticFields["MAX_VALUE"].value = slot{v: jni.IntValue(math.MaxInt32)}
	integer.staticFields["MIN_VALUE"].value = slot{v: jni.IntValue(math.MinInt32)}
	integer.Method("<init>", "(I)V", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
		env.setInt(this, args[0])
		return 0
	}).
		Method("intValue", "()I", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return env.getInt(this)
		}).
		Method("toString", "()Ljava/lang/String;", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return env.stringValue(fmt.Sprint(env.getInt(this).Int()))
		}).
		StaticMethod("valueOf", "(I)Ljava/lang/Integer;", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.HandleValue(env.newInteger(args[0]))
		}).
		StaticMethod("toHexString", "(I)Ljava/lang/String;", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return env.stringValue(fmt.Sprintf("%x", uint32(args[0].Int())))
		}).
		StaticMethod("parseInt", "(Ljava/lang/String;)I", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return env.parseInt(args[0].Handle(), 10)
		}).
		StaticMethod("parseInt", "(Ljava/lang/String;I)I", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return env.parseInt(args[0].Handle(), int(args[1].Int()))
		})

	vm.DefineClass("java/lang/Math", "java/lang/Object").
		StaticMethod("max", "(II)I", func(_ *Env, _ jni.Handle, args []jni.Value) jni.Value {
			if a, b := args[0].Int(), args[1].Int(); a < b {
				return jni.IntValue(b)
			}
			return args[0]
		}).
		StaticMethod("abs", "(J)J", func(_ *Env, _ jni.Handle, args []jni.Value) jni.Value {
			if l := args[0].Long(); l < 0 {
				return jni.LongValue(-l)
			}
			return args[0]
		}).
		StaticMethod("abs", "(F)F", func(_ *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.FloatValue(float32(math.Abs(float64(args[0].Float()))))
		}).
		StaticMethod("sqrt", "(D)D", func(_ *Env, _ jni.Handle, args []jni.Value) jni.Value {
			return jni.DoubleValue(math.Sqrt(args[0].Double()))
		}).
		StaticMethod("floorDiv", "(II)I", func(env *Env, _ jni.Handle, args []jni.Value) jni.Value {
			a, b := args[0].Int(), args[1].Int()
			if b == 0 {
				env.ThrowByName("java/lang/ArithmeticException", "/ by zero")
				return 0
			}
			q := a / b
			if (a%b != 0) && ((a < 0) != (b < 0)) {
				q--
			}
			return jni.IntValue(q)
		})

	vm.DefineInterface("java/util/List").
		Method("size", "()I", nil).
		Method("get", "(I)Ljava/lang/Object;", nil).
		Method("add", "(Ljava/lang/Object;)Z", nil)
	vm.DefineClass("java/util/ArrayList", "java/lang/Object").
		Implements("java/util/List").
		Method("<init>", "()V", nop).
		Method("size", "()I", func(env *Env, this jni.Handle, _ []jni.Value) jni.Value {
			return jni.IntValue(int32(len(env.elements(this))))
		}).
		Method("get", "(I)Ljava/lang/Object;", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			return jni.HandleValue(env.element(this, args[0].Int()))
		}).
		Method("add", "(Ljava/lang/Object;)Z", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			env.appendElement(this, args[0].Handle())
			return jni.BoolValue(true)
		})
}

func nop(*Env, jni.Handle, []jni.Value) jni.Value { return 0 }

func throwableCtors(c *Class) {
	c.Method("<init>", "()V", nop).
		Method("<init>", "(Ljava/lang/String;)V", func(env *Env, this jni.Handle, args []jni.Value) jni.Value {
			env.lock()
			defer env.unlock()
			if o := env.deref(this); o != nil {
				o.setField(env.vm.boot.detailMessage, slot{obj: env.deref(args[0].Handle())})
			}
			return 0
		})
}

func (e *Env) stringValue(s string) jni.Value {
	return jni.HandleValue(e.NewStringUTF(s))
}

func (e *Env) objectID(h jni.Handle) int32 {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		return o.id
	}
	return 0
}

func (e *Env) className(h jni.Handle) string {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		return o.cls.binaryName()
	}
	return ""
}

func (e *Env) derefClassName(h jni.Handle) string {
	e.lock()
	defer e.unlock()
	if c := e.derefClass(h); c != nil {
		return c.name
	}
	return ""
}

// classLoader returns the loader of the class h: null for the core classes,
// the application loader for all others.
func (e *Env) classLoader(h jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	c := e.derefClass(h)
	if c == nil || strings.HasPrefix(c.name, "java/") {
		return 0
	}
	return e.newLocal(e.vm.loader)
}

func (e *Env) loadClass(name string) jni.Handle {
	e.lock()
	defer e.unlock()
	c, ok := e.vm.classes[strings.Replace(name, ".", "/", -1)]
	if !ok {
		e.throwLocked("java/lang/ClassNotFoundException", name)
		return 0
	}
	return e.newLocal(c.obj)
}

func (e *Env) getInt(h jni.Handle) jni.Value {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		return o.fields[e.vm.boot.integerValue].v
	}
	return 0
}

func (e *Env) setInt(h jni.Handle, v jni.Value) {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		o.setField(e.vm.boot.integerValue, slot{v: v})
	}
}

func (e *Env) newInteger(v jni.Value) jni.Handle {
	e.lock()
	defer e.unlock()
	o := e.vm.newObject(e.vm.classes["java/lang/Integer"])
	o.setField(e.vm.boot.integerValue, slot{v: v})
	return e.newLocal(o)
}

func (e *Env) elements(h jni.Handle) []*object {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		elems, _ := o.data.([]*object)
		return elems
	}
	return nil
}

func (e *Env) element(h jni.Handle, i int32) jni.Handle {
	e.lock()
	defer e.unlock()
	o := e.deref(h)
	if o == nil {
		return 0
	}
	elems, _ := o.data.([]*object)
	if i < 0 || int(i) >= len(elems) {
		e.throwLocked("java/lang/IndexOutOfBoundsException", fmt.Sprintf("Index %d out of bounds for length %d", i, len(elems)))
		return 0
	}
	return e.newLocal(elems[i])
}

func (e *Env) appendElement(h, elem jni.Handle) {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		elems, _ := o.data.([]*object)
		o.data = append(elems, e.deref(elem))
	}
}

// parseInt implements Integer.parseInt(String, int).
func (e *Env) parseInt(str jni.Handle, radix int) jni.Value {
	s := e.GetStringUTFChars(str)
	if radix < 2 || radix > 36 {
		e.ThrowByName("java/lang/IllegalArgumentException", fmt.Sprintf("radix %d out of range", radix))
		return 0
	}
	n, err := strconv.ParseInt(s, radix, 32)
	if err != nil {
		e.ThrowByName("java/lang/IllegalArgumentException", fmt.Sprintf("For input string: %q", s))
		return 0
	}
	return jni.IntValue(int32(n))
}
