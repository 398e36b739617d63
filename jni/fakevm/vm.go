// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakevm implements an in-process Java VM for testing code written
// against package jni.  It models the parts of JNI that native code depends
// on: classes, objects and strings, local reference frames and global
// references, per-thread attachment and pending exceptions, and object
// monitors.  Methods are implemented in Go.
//
// The VM records misuse that a real VM would punish with a crash or
// undefined behavior (deleting a reference twice, using a local reference on
// another thread, calling into the VM with an exception pending, ...) as
// faults, which tests can inspect with Faults.
package fakevm

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"v.io/v23/verror"

	"github.com/VirtuosoChris/uJNI/jni"
)

const pkgPath = "github.com/VirtuosoChris/uJNI/jni/fakevm"

var (
	errAttachRefused = verror.NewIDAction(pkgPath+".errAttachRefused", verror.NoRetry)
	errNotAttached   = verror.NewIDAction(pkgPath+".errNotAttached", verror.NoRetry)
	errBadVersion    = verror.NewIDAction(pkgPath+".errBadVersion", verror.NoRetry)
)

// Method implements a Java method.  this is the receiver (or, for static
// methods, the class) and args holds one value per parameter.  Methods run
// without any VM lock held and may call back into env.
type Method func(env *Env, this jni.Handle, args []jni.Value) jni.Value

// VM is a fake Java VM.  It implements jni.JavaVM.
type VM struct {
	mu   sync.Mutex
	cond *sync.Cond

	classes map[string]*Class
	methods []*method
	fields  []*field

	refs       map[jni.Handle]*ref
	lastHandle jni.Handle
	lastObject int32

	threads map[int64]*Env

	failAttach  bool
	failGlobals bool
	attaches    int
	detaches    int
	faults      []string

	loader *object
	boot   bootClasses
}

// ref is an entry of the reference table.  Local references are owned by
// the environment that created them.
type ref struct {
	obj    *object
	global bool
	env    *Env
}

type object struct {
	id     int32
	cls    *Class
	fields map[*field]slot
	data   interface{}

	monOwner int64
	monDepth int
}

type slot struct {
	v   jni.Value
	obj *object
}

// New returns a VM with the core java.lang and java.util classes defined.
func New() *VM {
	vm := &VM{
		classes: make(map[string]*Class),
		refs:    make(map[jni.Handle]*ref),
		threads: make(map[int64]*Env),
	}
	vm.cond = sync.NewCond(&vm.mu)
	vm.bootstrap()
	return vm
}

// GetEnv implements jni.JavaVM.
func (vm *VM) GetEnv(version int32) (jni.JNIEnv, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if version < jni.Version1_6 {
		return nil, errBadVersion.Errorf(nil, "unsupported JNI version %#x", version)
	}
	if e, ok := vm.threads[threadID()]; ok {
		return e, nil
	}
	return nil, jni.ErrDetached
}

// AttachCurrentThread implements jni.JavaVM.
func (vm *VM) AttachCurrentThread(args jni.AttachArgs) (jni.JNIEnv, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.failAttach {
		return nil, errAttachRefused.Errorf(nil, "attach of thread %q refused", args.Name)
	}
	tid := threadID()
	if e, ok := vm.threads[tid]; ok {
		return e, nil
	}
	e := &Env{
		vm:     vm,
		tid:    tid,
		name:   args.Name,
		frames: []map[jni.Handle]bool{{}},
	}
	vm.threads[tid] = e
	vm.attaches++
	return e, nil
}

// DetachCurrentThread implements jni.JavaVM.  Monitors still held by the
// thread are released, as the JNI specification requires.
func (vm *VM) DetachCurrentThread() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	tid := threadID()
	e, ok := vm.threads[tid]
	if !ok {
		return errNotAttached.Errorf(nil, "thread %d isn't attached", tid)
	}
	if n := len(e.frames) - 1; n > 0 {
		vm.fault("thread %q detached with %d local frame(s) pushed", e.name, n)
	}
	for _, frame := range e.frames {
		for h := range frame {
			delete(vm.refs, h)
		}
	}
	e.frames = nil
	for o := range e.monitors {
		o.monOwner, o.monDepth = 0, 0
	}
	e.monitors = nil
	e.detached = true
	delete(vm.threads, tid)
	vm.detaches++
	vm.cond.Broadcast()
	return nil
}

// SetFailAttach makes AttachCurrentThread fail while set.
func (vm *VM) SetFailAttach(fail bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.failAttach = fail
}

// SetFailGlobalRefs makes NewGlobalRef return null while set, as a VM out of
// memory would.
func (vm *VM) SetFailGlobalRefs(fail bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.failGlobals = fail
}

// Attaches returns the number of threads attached so far.
func (vm *VM) Attaches() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.attaches
}

// Detaches returns the number of threads detached so far.
func (vm *VM) Detaches() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.detaches
}

// IsAttached returns true iff the calling thread is attached.
func (vm *VM) IsAttached() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := vm.threads[threadID()]
	return ok
}

// ThreadName returns the name the calling thread was attached under, or ""
// if it isn't attached.
func (vm *VM) ThreadName() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if e, ok := vm.threads[threadID()]; ok {
		return e.name
	}
	return ""
}

// Frames returns the number of local frames the calling thread has pushed.
func (vm *VM) Frames() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if e, ok := vm.threads[threadID()]; ok {
		return len(e.frames) - 1
	}
	return 0
}

// LocalRefs returns the number of live local references of the calling
// thread.
func (vm *VM) LocalRefs() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	n := 0
	if e, ok := vm.threads[threadID()]; ok {
		for _, frame := range e.frames {
			n += len(frame)
		}
	}
	return n
}

// GlobalRefs returns the number of live global references.
func (vm *VM) GlobalRefs() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	n := 0
	for _, r := range vm.refs {
		if r.global {
			n++
		}
	}
	return n
}

// Pending returns the binary class name of the exception pending on the
// calling thread, or "" if there is none.
func (vm *VM) Pending() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if e, ok := vm.threads[threadID()]; ok && e.pending != nil {
		return e.pending.cls.binaryName()
	}
	return ""
}

// PendingMessage returns the message of the exception pending on the calling
// thread.
func (vm *VM) PendingMessage() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if e, ok := vm.threads[threadID()]; ok && e.pending != nil {
		return vm.throwableMessage(e.pending)
	}
	return ""
}

// MonitorDepth returns how many times the monitor of the object referenced
// by h is currently entered.
func (vm *VM) MonitorDepth(h jni.Handle) int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if r, ok := vm.refs[h]; ok {
		return r.obj.monDepth
	}
	return 0
}

// Faults returns the misuse recorded so far.
func (vm *VM) Faults() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]string(nil), vm.faults...)
}

// Class returns the class with the given name, or nil.
func (vm *VM) Class(name string) *Class {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.classes[name]
}

// ClassNames returns the names of all defined classes, sorted.
func (vm *VM) ClassNames() []string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	names := make([]string, 0, len(vm.classes))
	for n := range vm.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (vm *VM) fault(format string, args ...interface{}) {
	vm.faults = append(vm.faults, fmt.Sprintf(format, args...))
}

func (vm *VM) newHandle() jni.Handle {
	vm.lastHandle += 8
	return 0x1000 + vm.lastHandle
}

func (vm *VM) newObject(cls *Class) *object {
	vm.lastObject++
	o := &object{id: vm.lastObject, cls: cls}
	if cls == vm.boot.string {
		o.data = ""
	}
	return o
}

func (vm *VM) newGlobal(o *object) jni.Handle {
	if o == nil || vm.failGlobals {
		return 0
	}
	h := vm.newHandle()
	vm.refs[h] = &ref{obj: o, global: true}
	return h
}

func (vm *VM) newString(s string) *object {
	o := vm.newObject(vm.boot.string)
	o.data = s
	return o
}

func (vm *VM) newThrowable(cls *Class, msg string) *object {
	o := vm.newObject(cls)
	o.setField(vm.boot.detailMessage, slot{obj: vm.newString(msg)})
	return o
}

func (vm *VM) throwableMessage(o *object) string {
	if msg := o.fields[vm.boot.detailMessage].obj; msg != nil {
		return msg.data.(string)
	}
	return ""
}

func (o *object) setField(f *field, s slot) {
	if o.fields == nil {
		o.fields = make(map[*field]slot)
	}
	o.fields[f] = s
}

func (o *object) class() *Class {
	if c, ok := o.data.(*Class); ok && o.cls.name == "java/lang/Class" {
		return c
	}
	return nil
}

func binaryName(name string) string {
	return strings.Replace(name, "/", ".", -1)
}
