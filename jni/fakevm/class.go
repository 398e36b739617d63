// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakevm

import (
	"fmt"

	"github.com/VirtuosoChris/uJNI/jni"
)

// Class is a class or interface of a VM.  Its members are declared with the
// builder methods below, before the class is used.
type Class struct {
	vm     *VM
	name   string
	super  *Class
	ifaces []*Class
	iface  bool
	hidden bool
	boot   bool
	obj    *object

	methods      map[string]*method
	statics      map[string]*method
	fields       map[string]*field
	staticFields map[string]*field
}

type method struct {
	id     jni.MethodID
	cls    *Class
	name   string
	sig    jni.Sign
	nargs  int
	ret    jni.Kind
	static bool
	impl   Method
}

type field struct {
	id     jni.FieldID
	cls    *Class
	name   string
	sig    jni.Sign
	kind   jni.Kind
	static bool
	value  slot
}

// DefineClass defines a class with the given fully-qualified name (e.g.
// "com/example/Counter") extending the class super.  It panics if super
// isn't defined or name already is.
func (vm *VM) DefineClass(name, super string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	s, ok := vm.classes[super]
	if !ok {
		panic(fmt.Sprintf("superclass %s of %s isn't defined", super, name))
	}
	return vm.defineLocked(name, s)
}

// DefineInterface defines an interface extending the provided interfaces.
func (vm *VM) DefineInterface(name string, extends ...string) *Class {
	c := vm.DefineClass(name, "java/lang/Object")
	vm.mu.Lock()
	defer vm.mu.Unlock()
	c.super = nil
	c.iface = true
	c.implementsLocked(extends)
	return c
}

func (vm *VM) defineLocked(name string, super *Class) *Class {
	if _, ok := vm.classes[name]; ok {
		panic(fmt.Sprintf("class %s is already defined", name))
	}
	c := &Class{
		vm:           vm,
		name:         name,
		super:        super,
		methods:      make(map[string]*method),
		statics:      make(map[string]*method),
		fields:       make(map[string]*field),
		staticFields: make(map[string]*field),
	}
	if cc := vm.boot.class; cc != nil {
		c.obj = vm.newObject(cc)
		c.obj.data = c
	}
	vm.classes[name] = c
	return c
}

// Name returns the fully-qualified name of the class.
func (c *Class) Name() string { return c.name }

// Implements declares the interfaces the class implements.
func (c *Class) Implements(names ...string) *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	c.implementsLocked(names)
	return c
}

func (c *Class) implementsLocked(names []string) {
	for _, n := range names {
		i, ok := c.vm.classes[n]
		if !ok || !i.iface {
			panic(fmt.Sprintf("%s isn't a defined interface", n))
		}
		c.ifaces = append(c.ifaces, i)
	}
}

// Hidden makes the class invisible to FindClass.  It can still be loaded
// through the application class loader.
func (c *Class) Hidden() *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	c.hidden = true
	return c
}

// Method declares an instance method.  A nil impl declares an abstract
// method.  Constructors are declared as methods named "<init>".
func (c *Class) Method(name string, sig jni.Sign, impl Method) *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	m := c.vm.newMethod(c, name, sig, false, impl)
	c.methods[name+string(sig)] = m
	return c
}

// StaticMethod declares a static method.
func (c *Class) StaticMethod(name string, sig jni.Sign, impl Method) *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	m := c.vm.newMethod(c, name, sig, true, impl)
	c.statics[name+string(sig)] = m
	return c
}

// Field declares an instance field of the given type.
func (c *Class) Field(name string, sig jni.Sign) *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	c.fields[name] = c.vm.newField(c, name, sig, false)
	return c
}

// StaticField declares a static field of the given type.
func (c *Class) StaticField(name string, sig jni.Sign) *Class {
	c.vm.mu.Lock()
	defer c.vm.mu.Unlock()
	c.staticFields[name] = c.vm.newField(c, name, sig, true)
	return c
}

func (vm *VM) newMethod(c *Class, name string, sig jni.Sign, static bool, impl Method) *method {
	args, ret, err := jni.ParseFuncSign(sig)
	if err != nil {
		panic(fmt.Sprintf("method %s.%s: %v", c.name, name, err))
	}
	m := &method{
		id:     jni.MethodID(len(vm.methods) + 1),
		cls:    c,
		name:   name,
		sig:    sig,
		nargs:  len(args),
		ret:    jni.KindOf(ret),
		static: static,
		impl:   impl,
	}
	vm.methods = append(vm.methods, m)
	return m
}

func (vm *VM) newField(c *Class, name string, sig jni.Sign, static bool) *field {
	k := jni.KindOf(sig)
	if k == jni.KindInvalid || k == jni.KindVoid {
		panic(fmt.Sprintf("field %s.%s: unsupported type %q", c.name, name, sig))
	}
	f := &field{
		id:     jni.FieldID(len(vm.fields) + 1),
		cls:    c,
		name:   name,
		sig:    sig,
		kind:   k,
		static: static,
	}
	vm.fields = append(vm.fields, f)
	return f
}

func (c *Class) binaryName() string { return binaryName(c.name) }

// isSubclassOf returns true iff c is, extends or implements other.
func (c *Class) isSubclassOf(other *Class) bool {
	if c == other || other == c.vm.boot.object {
		return true
	}
	for _, i := range c.ifaces {
		if i.isSubclassOf(other) {
			return true
		}
	}
	return c.super != nil && c.super.isSubclassOf(other)
}

// resolveMethod finds the instance method that GetMethodID would return:
// declared by c, a superclass or a superinterface.
func (c *Class) resolveMethod(key string) *method {
	if m, ok := c.methods[key]; ok {
		return m
	}
	for _, i := range c.ifaces {
		if m := i.resolveMethod(key); m != nil {
			return m
		}
	}
	if c.super != nil {
		return c.super.resolveMethod(key)
	}
	if c.iface && c != c.vm.boot.object {
		return c.vm.boot.object.resolveMethod(key)
	}
	return nil
}

// implementation returns the implementation of key that virtual dispatch
// selects for instances of c.
func (c *Class) implementation(key string) *method {
	for k := c; k != nil; k = k.super {
		if m, ok := k.methods[key]; ok && m.impl != nil {
			return m
		}
	}
	return nil
}

func (c *Class) resolveStatic(key string) *method {
	for k := c; k != nil; k = k.super {
		if m, ok := k.statics[key]; ok {
			return m
		}
	}
	return nil
}

func (c *Class) resolveField(name string, sig jni.Sign, static bool) *field {
	for k := c; k != nil; k = k.super {
		fields := k.fields
		if static {
			fields = k.staticFields
		}
		if f, ok := fields[name]; ok && f.sig == sig {
			return f
		}
	}
	return nil
}
