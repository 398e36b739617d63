// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"runtime"
	"sync"

	"v.io/x/lib/vlog"
)

// Runtime binds native code to one Java VM.  It is created once, when the
// host hands over its JavaVM (typically in JNI_OnLoad), and is read-only
// afterwards; it is safe for concurrent use.
type Runtime struct {
	vm   JavaVM
	opts options
	envs *envCounter
}

// New returns a Runtime for the provided VM.
func New(vm JavaVM, opts ...Option) (*Runtime, error) {
	if vm == nil {
		return nil, ErrInvalidHandle.Errorf(nil, "nil Java VM")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Runtime{
		vm:   vm,
		opts: o,
		envs: newEnvCounter(),
	}, nil
}

// VM returns the VM the runtime was created with.
func (r *Runtime) VM() JavaVM { return r.vm }

// Env returns the Java environment for the running thread, attaching the
// thread to the VM if it isn't already.  It also returns a function which
// must be invoked when the environment is no longer needed; local references
// created through the environment are freed at that point.  The environment
// can only be used by the calling goroutine, and the function must be
// invoked by that goroutine as well.
//
// Env may be called repeatedly, including while an earlier environment is
// still held; each call must be paired with its own free.
func (r *Runtime) Env() (*Env, func(), error) {
	// Lock the goroutine to the current OS thread.  This is necessary as a
	// JNIEnv must not be shared across threads.  The scenario that can break
	// this requirement is:
	//   - goroutine A executing on thread X, obtaining env P.
	//   - goroutine A gets re-scheduled on thread Y, maintaining P.
	//   - goroutine B starts executing on thread X, obtaining P.
	//
	// By locking the goroutines to their OS thread while they hold the env,
	// the above scenario can never occur.
	runtime.LockOSThread()
	jenv, err := r.vm.GetEnv(r.opts.version)
	if err != nil {
		jenv, err = r.vm.AttachCurrentThread(AttachArgs{
			Version: r.opts.version,
			Name:    r.opts.threadName,
		})
		if err != nil || jenv == nil {
			runtime.UnlockOSThread()
			vlog.Errorf("couldn't attach thread %q to the Java VM: %v", r.opts.threadName, err)
			return nil, nil, ErrAttachFailed.Errorf(nil, "couldn't attach thread %q: %v", r.opts.threadName, err)
		}
		vlog.VI(1).Infof("attached thread %q to the Java VM", r.opts.threadName)
	}
	// Go code calling into Java must free its local references itself, as
	// there is no Java frame to return to.  Push a frame that is popped by
	// the free function below.
	if c := jenv.PushLocalFrame(r.opts.frameCapacity); c < 0 {
		jenv.ExceptionClear()
		runtime.UnlockOSThread()
		return nil, nil, ErrJavaException.Errorf(nil, "PushLocalFrame(%d) returned %d", r.opts.frameCapacity, c)
	}
	r.envs.inc(jenv)
	env := &Env{rt: r, jni: jenv}
	var once sync.Once
	return env, func() {
		once.Do(func() {
			jenv.PopLocalFrame(0)
			r.envs.dec(jenv)
			runtime.UnlockOSThread()
		})
	}, nil
}

// DetachCurrentThread detaches the calling OS thread from the VM.  Native
// threads that attached themselves must call it before they exit, while
// still locked to the thread (see runtime.LockOSThread).  It is a no-op for
// threads that aren't attached, and fails for a thread that still holds an
// environment.
func (r *Runtime) DetachCurrentThread() error {
	jenv, err := r.vm.GetEnv(r.opts.version)
	if err != nil {
		return nil
	}
	if n := r.envs.count(jenv); n > 0 {
		env := &Env{rt: r, jni: jenv}
		return env.raise(ErrInvalidHandle, "can't detach a thread holding %d environment(s)", n)
	}
	if err := r.vm.DetachCurrentThread(); err != nil {
		return ErrAttachFailed.Errorf(nil, "couldn't detach thread: %v", err)
	}
	vlog.VI(1).Infof("detached thread from the Java VM")
	return nil
}

// RunAttached runs fn with an environment for the current thread.  If the
// thread wasn't attached to the VM beforehand, it is detached again once fn
// returns.
func (r *Runtime) RunAttached(fn func(env *Env) error) (err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	_, gerr := r.vm.GetEnv(r.opts.version)
	wasAttached := gerr == nil
	env, free, err := r.Env()
	if err != nil {
		return err
	}
	func() {
		defer free()
		err = fn(env)
	}()
	if !wasAttached {
		if derr := r.DetachCurrentThread(); err == nil {
			err = derr
		}
	}
	return err
}

func newEnvCounter() *envCounter {
	return &envCounter{
		envs: make(map[JNIEnv]int),
	}
}

// envCounter counts, for each JNI environment, how many times it is
// currently held.
type envCounter struct {
	lock sync.Mutex
	envs map[JNIEnv]int
}

func (c *envCounter) inc(jenv JNIEnv) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.envs[jenv]++
}

func (c *envCounter) dec(jenv JNIEnv) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	count, ok := c.envs[jenv]
	if !ok {
		panic("env entry with zero count")
	}
	count--
	if count == 0 {
		delete(c.envs, jenv)
	} else {
		c.envs[jenv] = count
	}
	return count
}

func (c *envCounter) count(jenv JNIEnv) int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.envs[jenv]
}
