// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakevm

import (
	"github.com/VirtuosoChris/uJNI/jni"
)

// Env is the environment of one attached thread.  It implements
// jni.JNIEnv.
type Env struct {
	vm       *VM
	tid      int64
	name     string
	frames   []map[jni.Handle]bool
	pending  *object
	monitors map[*object]bool
	detached bool
}

// lock locks the VM and checks that e is used by its own, attached, thread.
func (e *Env) lock() {
	e.vm.mu.Lock()
	if e.detached {
		e.vm.fault("environment of thread %q used after detach", e.name)
	} else if tid := threadID(); tid != e.tid {
		e.vm.fault("environment of thread %q (%d) used on thread %d", e.name, e.tid, tid)
	}
}

func (e *Env) unlock() { e.vm.mu.Unlock() }

// enter is lock for the operations that JNI forbids while an exception is
// pending.
func (e *Env) enter(op string) {
	e.lock()
	if e.pending != nil {
		e.vm.fault("%s called with %s pending", op, e.pending.cls.binaryName())
	}
}

func (e *Env) deref(h jni.Handle) *object {
	if h.IsNull() {
		return nil
	}
	r, ok := e.vm.refs[h]
	if !ok {
		e.vm.fault("invalid reference %#x", uintptr(h))
		return nil
	}
	if !r.global && r.env != e {
		e.vm.fault("local reference %#x of thread %q used by thread %q", uintptr(h), r.env.name, e.name)
	}
	return r.obj
}

func (e *Env) derefClass(h jni.Handle) *Class {
	o := e.deref(h)
	if o == nil {
		e.vm.fault("null class reference")
		return nil
	}
	c := o.class()
	if c == nil {
		e.vm.fault("reference %#x isn't a class", uintptr(h))
	}
	return c
}

func (e *Env) newLocal(o *object) jni.Handle {
	if o == nil || len(e.frames) == 0 {
		return 0
	}
	h := e.vm.newHandle()
	e.vm.refs[h] = &ref{obj: o, env: e}
	e.frames[len(e.frames)-1][h] = true
	return h
}

// throwLocked makes a new exception of the named class pending.
func (e *Env) throwLocked(className, msg string) {
	c, ok := e.vm.classes[className]
	if !ok {
		c = e.vm.boot.throwable
	}
	e.pending = e.vm.newThrowable(c, msg)
}

// ThrowByName makes a new exception of the named class pending.  It is meant
// for Method implementations.
func (e *Env) ThrowByName(className, msg string) {
	e.lock()
	defer e.unlock()
	e.throwLocked(className, msg)
}

// NewLocalRef returns a new local reference to the object referenced by h,
// as a Method returning an existing object must.
func (e *Env) NewLocalRef(h jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	return e.newLocal(e.deref(h))
}

// Data returns the Go value attached to the object referenced by h.
func (e *Env) Data(h jni.Handle) interface{} {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		return o.data
	}
	return nil
}

// SetData attaches a Go value to the object referenced by h.
func (e *Env) SetData(h jni.Handle, v interface{}) {
	e.lock()
	defer e.unlock()
	if o := e.deref(h); o != nil {
		o.data = v
	}
}

func (e *Env) FindClass(name string) jni.Handle {
	e.enter("FindClass")
	defer e.unlock()
	c, ok := e.vm.classes[name]
	if !ok || c.hidden {
		e.throwLocked("java/lang/NoClassDefFoundError", name)
		return 0
	}
	return e.newLocal(c.obj)
}

func (e *Env) GetObjectClass(obj jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	o := e.deref(obj)
	if o == nil {
		e.vm.fault("GetObjectClass of null")
		return 0
	}
	return e.newLocal(o.cls.obj)
}

func (e *Env) GetSuperclass(cls jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	c := e.derefClass(cls)
	if c == nil || c.iface || c.super == nil {
		return 0
	}
	return e.newLocal(c.super.obj)
}

func (e *Env) IsInstanceOf(obj, cls jni.Handle) bool {
	e.lock()
	defer e.unlock()
	c := e.derefClass(cls)
	o := e.deref(obj)
	if o == nil {
		return true
	}
	return c != nil && o.cls.isSubclassOf(c)
}

func (e *Env) GetMethodID(cls jni.Handle, name string, sig jni.Sign) jni.MethodID {
	e.enter("GetMethodID")
	defer e.unlock()
	c := e.derefClass(cls)
	if c == nil {
		return 0
	}
	key := name + string(sig)
	var m *method
	if name == "<init>" {
		m = c.methods[key]
	} else {
		m = c.resolveMethod(key)
	}
	if m == nil {
		e.throwLocked("java/lang/NoSuchMethodError", name+string(sig))
		return 0
	}
	return m.id
}

func (e *Env) GetStaticMethodID(cls jni.Handle, name string, sig jni.Sign) jni.MethodID {
	e.enter("GetStaticMethodID")
	defer e.unlock()
	c := e.derefClass(cls)
	if c == nil {
		return 0
	}
	m := c.resolveStatic(name + string(sig))
	if m == nil {
		e.throwLocked("java/lang/NoSuchMethodError", name+string(sig))
		return 0
	}
	return m.id
}

func (e *Env) GetFieldID(cls jni.Handle, name string, sig jni.Sign) jni.FieldID {
	return e.fieldID("GetFieldID", cls, name, sig, false)
}

func (e *Env) GetStaticFieldID(cls jni.Handle, name string, sig jni.Sign) jni.FieldID {
	return e.fieldID("GetStaticFieldID", cls, name, sig, true)
}

func (e *Env) fieldID(op string, cls jni.Handle, name string, sig jni.Sign, static bool) jni.FieldID {
	e.enter(op)
	defer e.unlock()
	c := e.derefClass(cls)
	if c == nil {
		return 0
	}
	f := c.resolveField(name, sig, static)
	if f == nil {
		e.throwLocked("java/lang/NoSuchFieldError", name)
		return 0
	}
	return f.id
}

// method returns the method with the provided ID after checking that it is
// being invoked through the right entry point.
func (e *Env) method(op string, id jni.MethodID, kind jni.Kind, static bool, nargs int) *method {
	if id <= 0 || int(id) > len(e.vm.methods) {
		e.vm.fault("%s: invalid method ID %d", op, id)
		return nil
	}
	m := e.vm.methods[id-1]
	switch {
	case m.static != static:
		e.vm.fault("%s: %s.%s%s invoked through the wrong entry point", op, m.cls.name, m.name, m.sig)
		return nil
	case m.ret != kind:
		e.vm.fault("%s: %s.%s%s returns %v, invoked as %v", op, m.cls.name, m.name, m.sig, m.ret, kind)
		return nil
	case m.nargs != nargs:
		e.vm.fault("%s: %s.%s%s invoked with %d argument(s)", op, m.cls.name, m.name, m.sig, nargs)
		return nil
	}
	return m
}

func (e *Env) CallMethodA(kind jni.Kind, obj jni.Handle, mid jni.MethodID, args []jni.Value) jni.Value {
	impl := func() Method {
		e.enter("CallMethodA")
		defer e.unlock()
		m := e.method("CallMethodA", mid, kind, false, len(args))
		if m == nil {
			return nil
		}
		o := e.deref(obj)
		if o == nil {
			e.throwLocked("java/lang/NullPointerException", "call of "+m.name+" on null")
			return nil
		}
		if m.name == "<init>" {
			e.vm.fault("CallMethodA of constructor %s", m.cls.name)
			return nil
		}
		impl := o.cls.implementation(m.name + string(m.sig))
		if impl == nil {
			e.throwLocked("java/lang/AbstractMethodError", o.cls.binaryName()+"."+m.name+string(m.sig))
			return nil
		}
		return impl.impl
	}()
	if impl == nil {
		return 0
	}
	return impl(e, obj, args)
}

func (e *Env) CallStaticMethodA(kind jni.Kind, cls jni.Handle, mid jni.MethodID, args []jni.Value) jni.Value {
	impl := func() Method {
		e.enter("CallStaticMethodA")
		defer e.unlock()
		m := e.method("CallStaticMethodA", mid, kind, true, len(args))
		if m == nil || e.derefClass(cls) == nil {
			return nil
		}
		if m.impl == nil {
			e.throwLocked("java/lang/AbstractMethodError", m.cls.binaryName()+"."+m.name+string(m.sig))
		}
		return m.impl
	}()
	if impl == nil {
		return 0
	}
	return impl(e, cls, args)
}

func (e *Env) NewObjectA(cls jni.Handle, ctor jni.MethodID, args []jni.Value) jni.Handle {
	var h jni.Handle
	impl := func() Method {
		e.enter("NewObjectA")
		defer e.unlock()
		c := e.derefClass(cls)
		m := e.method("NewObjectA", ctor, jni.KindVoid, false, len(args))
		if c == nil || m == nil {
			return nil
		}
		if m.name != "<init>" || m.cls != c {
			e.vm.fault("NewObjectA: %s.%s%s isn't a constructor of %s", m.cls.name, m.name, m.sig, c.name)
			return nil
		}
		if c.iface {
			e.throwLocked("java/lang/InstantiationException", c.binaryName())
			return nil
		}
		h = e.newLocal(e.vm.newObject(c))
		return m.impl
	}()
	if impl == nil {
		return 0
	}
	impl(e, h, args)
	e.lock()
	defer e.unlock()
	if e.pending != nil {
		e.deleteLocalLocked(h)
		return 0
	}
	return h
}

func (e *Env) instanceField(op string, obj jni.Handle, fid jni.FieldID, kind jni.Kind) (*object, *field) {
	f := e.fieldByID(op, fid, kind, false)
	if f == nil {
		return nil, nil
	}
	o := e.deref(obj)
	if o == nil {
		e.throwLocked("java/lang/NullPointerException", "access of field "+f.name+" on null")
		return nil, nil
	}
	if !o.cls.isSubclassOf(f.cls) {
		e.vm.fault("%s: %s has no field %s.%s", op, o.cls.name, f.cls.name, f.name)
		return nil, nil
	}
	return o, f
}

func (e *Env) fieldByID(op string, id jni.FieldID, kind jni.Kind, static bool) *field {
	if id <= 0 || int(id) > len(e.vm.fields) {
		e.vm.fault("%s: invalid field ID %d", op, id)
		return nil
	}
	f := e.vm.fields[id-1]
	switch {
	case f.static != static:
		e.vm.fault("%s: field %s.%s accessed through the wrong entry point", op, f.cls.name, f.name)
		return nil
	case f.kind != kind:
		e.vm.fault("%s: field %s.%s is %v, accessed as %v", op, f.cls.name, f.name, f.kind, kind)
		return nil
	}
	return f
}

func (e *Env) load(s slot, kind jni.Kind) jni.Value {
	if kind == jni.KindObject {
		return jni.HandleValue(e.newLocal(s.obj))
	}
	return s.v
}

func (e *Env) store(v jni.Value, kind jni.Kind) slot {
	if kind == jni.KindObject {
		return slot{obj: e.deref(v.Handle())}
	}
	return slot{v: v}
}

func (e *Env) GetField(kind jni.Kind, obj jni.Handle, fid jni.FieldID) jni.Value {
	e.enter("GetField")
	defer e.unlock()
	o, f := e.instanceField("GetField", obj, fid, kind)
	if f == nil {
		return 0
	}
	return e.load(o.fields[f], kind)
}

func (e *Env) SetField(kind jni.Kind, obj jni.Handle, fid jni.FieldID, v jni.Value) {
	e.enter("SetField")
	defer e.unlock()
	o, f := e.instanceField("SetField", obj, fid, kind)
	if f == nil {
		return
	}
	o.setField(f, e.store(v, kind))
}

func (e *Env) GetStaticField(kind jni.Kind, cls jni.Handle, fid jni.FieldID) jni.Value {
	e.enter("GetStaticField")
	defer e.unlock()
	f := e.fieldByID("GetStaticField", fid, kind, true)
	if f == nil || e.derefClass(cls) == nil {
		return 0
	}
	return e.load(f.value, kind)
}

func (e *Env) SetStaticField(kind jni.Kind, cls jni.Handle, fid jni.FieldID, v jni.Value) {
	e.enter("SetStaticField")
	defer e.unlock()
	f := e.fieldByID("SetStaticField", fid, kind, true)
	if f == nil || e.derefClass(cls) == nil {
		return
	}
	f.value = e.store(v, kind)
}

func (e *Env) NewGlobalRef(obj jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	return e.vm.newGlobal(e.deref(obj))
}

func (e *Env) DeleteGlobalRef(h jni.Handle) {
	e.lock()
	defer e.unlock()
	if r, ok := e.vm.refs[h]; !ok || !r.global {
		e.vm.fault("DeleteGlobalRef of %#x: not a live global reference", uintptr(h))
		return
	}
	delete(e.vm.refs, h)
}

func (e *Env) DeleteLocalRef(h jni.Handle) {
	e.lock()
	defer e.unlock()
	e.deleteLocalLocked(h)
}

func (e *Env) deleteLocalLocked(h jni.Handle) {
	r, ok := e.vm.refs[h]
	if !ok || r.global || r.env != e {
		e.vm.fault("DeleteLocalRef of %#x: not a live local reference of thread %q", uintptr(h), e.name)
		return
	}
	delete(e.vm.refs, h)
	for _, frame := range e.frames {
		delete(frame, h)
	}
}

func (e *Env) IsSameObject(a, b jni.Handle) bool {
	e.lock()
	defer e.unlock()
	return e.deref(a) == e.deref(b)
}

func (e *Env) PushLocalFrame(capacity int32) int32 {
	e.lock()
	defer e.unlock()
	if capacity < 0 {
		return jni.StatusErr
	}
	e.frames = append(e.frames, make(map[jni.Handle]bool, capacity))
	return jni.StatusOK
}

func (e *Env) PopLocalFrame(result jni.Handle) jni.Handle {
	e.lock()
	defer e.unlock()
	if len(e.frames) < 2 {
		e.vm.fault("PopLocalFrame without a matching PushLocalFrame")
		return 0
	}
	o := e.deref(result)
	top := e.frames[len(e.frames)-1]
	for h := range top {
		delete(e.vm.refs, h)
	}
	e.frames = e.frames[:len(e.frames)-1]
	return e.newLocal(o)
}

func (e *Env) MonitorEnter(obj jni.Handle) int32 {
	e.enter("MonitorEnter")
	defer e.unlock()
	o := e.deref(obj)
	if o == nil {
		return jni.StatusErr
	}
	for o.monDepth > 0 && o.monOwner != e.tid {
		e.vm.cond.Wait()
	}
	o.monOwner = e.tid
	o.monDepth++
	if e.monitors == nil {
		e.monitors = make(map[*object]bool)
	}
	e.monitors[o] = true
	return jni.StatusOK
}

func (e *Env) MonitorExit(obj jni.Handle) int32 {
	e.lock()
	defer e.unlock()
	o := e.deref(obj)
	if o == nil {
		return jni.StatusErr
	}
	if o.monDepth == 0 || o.monOwner != e.tid {
		e.throwLocked("java/lang/IllegalMonitorStateException", "current thread doesn't own the monitor")
		return jni.StatusErr
	}
	o.monDepth--
	if o.monDepth == 0 {
		o.monOwner = 0
		delete(e.monitors, o)
		e.vm.cond.Broadcast()
	}
	return jni.StatusOK
}

func (e *Env) Throw(exc jni.Handle) int32 {
	e.lock()
	defer e.unlock()
	o := e.deref(exc)
	if o == nil || !o.cls.isSubclassOf(e.vm.boot.throwable) {
		return jni.StatusErr
	}
	e.pending = o
	return jni.StatusOK
}

func (e *Env) ThrowNew(cls jni.Handle, msg string) int32 {
	e.lock()
	defer e.unlock()
	c := e.derefClass(cls)
	if c == nil || !c.isSubclassOf(e.vm.boot.throwable) {
		return jni.StatusErr
	}
	e.pending = e.vm.newThrowable(c, msg)
	return jni.StatusOK
}

func (e *Env) ExceptionOccurred() jni.Handle {
	e.lock()
	defer e.unlock()
	return e.newLocal(e.pending)
}

func (e *Env) ExceptionClear() {
	e.lock()
	defer e.unlock()
	e.pending = nil
}

func (e *Env) NewStringUTF(s string) jni.Handle {
	e.enter("NewStringUTF")
	defer e.unlock()
	return e.newLocal(e.vm.newString(s))
}

func (e *Env) GetStringUTFChars(str jni.Handle) string {
	e.lock()
	defer e.unlock()
	o := e.deref(str)
	if o == nil || o.cls != e.vm.boot.string {
		e.vm.fault("GetStringUTFChars of %#x: not a string", uintptr(str))
		return ""
	}
	return o.data.(string)
}

var _ jni.JNIEnv = (*Env)(nil)
var _ jni.JavaVM = (*VM)(nil)
