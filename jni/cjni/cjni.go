// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (java || android) && cgo
// +build java android
// +build cgo

package cjni

import (
	"unsafe"

	"v.io/v23/verror"

	"github.com/VirtuosoChris/uJNI/jni"
)

// #include <stdlib.h>
// #include "jni_wrapper.h"
import "C"

const pkgPath = "github.com/VirtuosoChris/uJNI/jni/cjni"

var errJNI = verror.NewIDAction(pkgPath+".errJNI", verror.NoRetry)

// VM is a Java VM that was handed to native code.
type VM struct {
	jvm *C.JavaVM
}

// Wrap returns the VM for the provided JavaVM pointer, as received by
// JNI_OnLoad.
func Wrap(jvm unsafe.Pointer) *VM {
	return &VM{jvm: (*C.JavaVM)(jvm)}
}

func (vm *VM) GetEnv(version int32) (jni.JNIEnv, error) {
	var env *C.JNIEnv
	switch status := C.GetEnv(vm.jvm, &env, C.jint(version)); status {
	case C.JNI_OK:
		return Env{env}, nil
	case C.JNI_EDETACHED:
		return nil, jni.ErrDetached
	default:
		return nil, errJNI.Errorf(nil, "GetEnv returned %d", int(status))
	}
}

func (vm *VM) AttachCurrentThread(args jni.AttachArgs) (jni.JNIEnv, error) {
	var env *C.JNIEnv
	name := C.CString(args.Name)
	defer C.free(unsafe.Pointer(name))
	if status := C.AttachCurrentThread(vm.jvm, &env, name, jobject(args.Group), C.jint(args.Version)); status != C.JNI_OK {
		return nil, errJNI.Errorf(nil, "AttachCurrentThread returned %d", int(status))
	}
	return Env{env}, nil
}

func (vm *VM) DetachCurrentThread() error {
	if status := C.DetachCurrentThread(vm.jvm); status != C.JNI_OK {
		return errJNI.Errorf(nil, "DetachCurrentThread returned %d", int(status))
	}
	return nil
}

// Env is the JNI function table of one thread.
type Env struct {
	env *C.JNIEnv
}

// WrapEnv returns the Env for the JNIEnv pointer passed to a native method.
func WrapEnv(env unsafe.Pointer) Env {
	return Env{(*C.JNIEnv)(env)}
}

func jobject(h jni.Handle) C.jobject {
	return C.jobject(unsafe.Pointer(uintptr(h)))
}

func handle(obj C.jobject) jni.Handle {
	return jni.Handle(uintptr(unsafe.Pointer(obj)))
}

func jmethodID(m jni.MethodID) C.jmethodID {
	return C.jmethodID(unsafe.Pointer(uintptr(m)))
}

func jfieldID(f jni.FieldID) C.jfieldID {
	return C.jfieldID(unsafe.Pointer(uintptr(f)))
}

// jvalues returns args as a jvalue array.  jni.Value has the size and layout
// of jvalue.
func jvalues(args []jni.Value) *C.jvalue {
	if len(args) == 0 {
		return nil
	}
	return (*C.jvalue)(unsafe.Pointer(&args[0]))
}

func jbool(b C.jboolean) bool { return b == C.JNI_TRUE }

func (e Env) FindClass(name string) jni.Handle {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	return handle(C.jobject(C.FindClass(e.env, cName)))
}

func (e Env) GetObjectClass(obj jni.Handle) jni.Handle {
	return handle(C.jobject(C.GetObjectClass(e.env, jobject(obj))))
}

func (e Env) GetSuperclass(cls jni.Handle) jni.Handle {
	return handle(C.jobject(C.GetSuperclass(e.env, C.jclass(jobject(cls)))))
}

func (e Env) IsInstanceOf(obj, cls jni.Handle) bool {
	return jbool(C.IsInstanceOf(e.env, jobject(obj), C.jclass(jobject(cls))))
}

func (e Env) GetMethodID(cls jni.Handle, name string, sig jni.Sign) jni.MethodID {
	cName, cSig := C.CString(name), C.CString(string(sig))
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cSig))
	return jni.MethodID(uintptr(unsafe.Pointer(C.GetMethodID(e.env, C.jclass(jobject(cls)), cName, cSig))))
}

func (e Env) GetStaticMethodID(cls jni.Handle, name string, sig jni.Sign) jni.MethodID {
	cName, cSig := C.CString(name), C.CString(string(sig))
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cSig))
	return jni.MethodID(uintptr(unsafe.Pointer(C.GetStaticMethodID(e.env, C.jclass(jobject(cls)), cName, cSig))))
}

func (e Env) GetFieldID(cls jni.Handle, name string, sig jni.Sign) jni.FieldID {
	cName, cSig := C.CString(name), C.CString(string(sig))
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cSig))
	return jni.FieldID(uintptr(unsafe.Pointer(C.GetFieldID(e.env, C.jclass(jobject(cls)), cName, cSig))))
}

func (e Env) GetStaticFieldID(cls jni.Handle, name string, sig jni.Sign) jni.FieldID {
	cName, cSig := C.CString(name), C.CString(string(sig))
	defer C.free(unsafe.Pointer(cName))
	defer C.free(unsafe.Pointer(cSig))
	return jni.FieldID(uintptr(unsafe.Pointer(C.GetStaticFieldID(e.env, C.jclass(jobject(cls)), cName, cSig))))
}

func (e Env) CallMethodA(kind jni.Kind, obj jni.Handle, mid jni.MethodID, args []jni.Value) jni.Value {
	o, m, a := jobject(obj), jmethodID(mid), jvalues(args)
	switch kind {
	case jni.KindVoid:
		C.CallVoidMethodA(e.env, o, m, a)
		return 0
	case jni.KindBool:
		return jni.BoolValue(jbool(C.CallBooleanMethodA(e.env, o, m, a)))
	case jni.KindByte:
		return jni.ByteValue(int8(C.CallByteMethodA(e.env, o, m, a)))
	case jni.KindChar:
		return jni.CharValue(uint16(C.CallCharMethodA(e.env, o, m, a)))
	case jni.KindShort:
		return jni.ShortValue(int16(C.CallShortMethodA(e.env, o, m, a)))
	case jni.KindInt:
		return jni.IntValue(int32(C.CallIntMethodA(e.env, o, m, a)))
	case jni.KindLong:
		return jni.LongValue(int64(C.CallLongMethodA(e.env, o, m, a)))
	case jni.KindFloat:
		return jni.FloatValue(float32(C.CallFloatMethodA(e.env, o, m, a)))
	case jni.KindDouble:
		return jni.DoubleValue(float64(C.CallDoubleMethodA(e.env, o, m, a)))
	case jni.KindObject:
		return jni.HandleValue(handle(C.CallObjectMethodA(e.env, o, m, a)))
	}
	panic("invalid kind " + kind.String())
}

func (e Env) CallStaticMethodA(kind jni.Kind, cls jni.Handle, mid jni.MethodID, args []jni.Value) jni.Value {
	c, m, a := C.jclass(jobject(cls)), jmethodID(mid), jvalues(args)
	switch kind {
	case jni.KindVoid:
		C.CallStaticVoidMethodA(e.env, c, m, a)
		return 0
	case jni.KindBool:
		return jni.BoolValue(jbool(C.CallStaticBooleanMethodA(e.env, c, m, a)))
	case jni.KindByte:
		return jni.ByteValue(int8(C.CallStaticByteMethodA(e.env, c, m, a)))
	case jni.KindChar:
		return jni.CharValue(uint16(C.CallStaticCharMethodA(e.env, c, m, a)))
	case jni.KindShort:
		return jni.ShortValue(int16(C.CallStaticShortMethodA(e.env, c, m, a)))
	case jni.KindInt:
		return jni.IntValue(int32(C.CallStaticIntMethodA(e.env, c, m, a)))
	case jni.KindLong:
		return jni.LongValue(int64(C.CallStaticLongMethodA(e.env, c, m, a)))
	case jni.KindFloat:
		return jni.FloatValue(float32(C.CallStaticFloatMethodA(e.env, c, m, a)))
	case jni.KindDouble:
		return jni.DoubleValue(float64(C.CallStaticDoubleMethodA(e.env, c, m, a)))
	case jni.KindObject:
		return jni.HandleValue(handle(C.CallStaticObjectMethodA(e.env, c, m, a)))
	}
	panic("invalid kind " + kind.String())
}

func (e Env) NewObjectA(cls jni.Handle, ctor jni.MethodID, args []jni.Value) jni.Handle {
	return handle(C.NewObjectA(e.env, C.jclass(jobject(cls)), jmethodID(ctor), jvalues(args)))
}

func (e Env) GetField(kind jni.Kind, obj jni.Handle, fid jni.FieldID) jni.Value {
	o, f := jobject(obj), jfieldID(fid)
	switch kind {
	case jni.KindBool:
		return jni.BoolValue(jbool(C.GetBooleanField(e.env, o, f)))
	case jni.KindByte:
		return jni.ByteValue(int8(C.GetByteField(e.env, o, f)))
	case jni.KindChar:
		return jni.CharValue(uint16(C.GetCharField(e.env, o, f)))
	case jni.KindShort:
		return jni.ShortValue(int16(C.GetShortField(e.env, o, f)))
	case jni.KindInt:
		return jni.IntValue(int32(C.GetIntField(e.env, o, f)))
	case jni.KindLong:
		return jni.LongValue(int64(C.GetLongField(e.env, o, f)))
	case jni.KindFloat:
		return jni.FloatValue(float32(C.GetFloatField(e.env, o, f)))
	case jni.KindDouble:
		return jni.DoubleValue(float64(C.GetDoubleField(e.env, o, f)))
	case jni.KindObject:
		return jni.HandleValue(handle(C.GetObjectField(e.env, o, f)))
	}
	panic("invalid field kind " + kind.String())
}

func (e Env) SetField(kind jni.Kind, obj jni.Handle, fid jni.FieldID, v jni.Value) {
	o, f := jobject(obj), jfieldID(fid)
	switch kind {
	case jni.KindBool:
		C.SetBooleanField(e.env, o, f, jboolean(v))
	case jni.KindByte:
		C.SetByteField(e.env, o, f, C.jbyte(v.Byte()))
	case jni.KindChar:
		C.SetCharField(e.env, o, f, C.jchar(v.Char()))
	case jni.KindShort:
		C.SetShortField(e.env, o, f, C.jshort(v.Short()))
	case jni.KindInt:
		C.SetIntField(e.env, o, f, C.jint(v.Int()))
	case jni.KindLong:
		C.SetLongField(e.env, o, f, C.jlong(v.Long()))
	case jni.KindFloat:
		C.SetFloatField(e.env, o, f, C.jfloat(v.Float()))
	case jni.KindDouble:
		C.SetDoubleField(e.env, o, f, C.jdouble(v.Double()))
	case jni.KindObject:
		C.SetObjectField(e.env, o, f, jobject(v.Handle()))
	default:
		panic("invalid field kind " + kind.String())
	}
}

func (e Env) GetStaticField(kind jni.Kind, cls jni.Handle, fid jni.FieldID) jni.Value {
	c, f := C.jclass(jobject(cls)), jfieldID(fid)
	switch kind {
	case jni.KindBool:
		return jni.BoolValue(jbool(C.GetStaticBooleanField(e.env, c, f)))
	case jni.KindByte:
		return jni.ByteValue(int8(C.GetStaticByteField(e.env, c, f)))
	case jni.KindChar:
		return jni.CharValue(uint16(C.GetStaticCharField(e.env, c, f)))
	case jni.KindShort:
		return jni.ShortValue(int16(C.GetStaticShortField(e.env, c, f)))
	case jni.KindInt:
		return jni.IntValue(int32(C.GetStaticIntField(e.env, c, f)))
	case jni.KindLong:
		return jni.LongValue(int64(C.GetStaticLongField(e.env, c, f)))
	case jni.KindFloat:
		return jni.FloatValue(float32(C.GetStaticFloatField(e.env, c, f)))
	case jni.KindDouble:
		return jni.DoubleValue(float64(C.GetStaticDoubleField(e.env, c, f)))
	case jni.KindObject:
		return jni.HandleValue(handle(C.GetStaticObjectField(e.env, c, f)))
	}
	panic("invalid field kind " + kind.String())
}

func (e Env) SetStaticField(kind jni.Kind, cls jni.Handle, fid jni.FieldID, v jni.Value) {
	c, f := C.jclass(jobject(cls)), jfieldID(fid)
	switch kind {
	case jni.KindBool:
		C.SetStaticBooleanField(e.env, c, f, jboolean(v))
	case jni.KindByte:
		C.SetStaticByteField(e.env, c, f, C.jbyte(v.Byte()))
	case jni.KindChar:
		C.SetStaticCharField(e.env, c, f, C.jchar(v.Char()))
	case jni.KindShort:
		C.SetStaticShortField(e.env, c, f, C.jshort(v.Short()))
	case jni.KindInt:
		C.SetStaticIntField(e.env, c, f, C.jint(v.Int()))
	case jni.KindLong:
		C.SetStaticLongField(e.env, c, f, C.jlong(v.Long()))
	case jni.KindFloat:
		C.SetStaticFloatField(e.env, c, f, C.jfloat(v.Float()))
	case jni.KindDouble:
		C.SetStaticDoubleField(e.env, c, f, C.jdouble(v.Double()))
	case jni.KindObject:
		C.SetStaticObjectField(e.env, c, f, jobject(v.Handle()))
	default:
		panic("invalid field kind " + kind.String())
	}
}

func jboolean(v jni.Value) C.jboolean {
	if v.Bool() {
		return C.JNI_TRUE
	}
	return C.JNI_FALSE
}

func (e Env) NewGlobalRef(obj jni.Handle) jni.Handle {
	return handle(C.NewGlobalRef(e.env, jobject(obj)))
}

func (e Env) DeleteGlobalRef(ref jni.Handle) { C.DeleteGlobalRef(e.env, jobject(ref)) }
func (e Env) DeleteLocalRef(ref jni.Handle)  { C.DeleteLocalRef(e.env, jobject(ref)) }

func (e Env) IsSameObject(a, b jni.Handle) bool {
	return jbool(C.IsSameObject(e.env, jobject(a), jobject(b)))
}

func (e Env) PushLocalFrame(capacity int32) int32 {
	return int32(C.PushLocalFrame(e.env, C.jint(capacity)))
}

func (e Env) PopLocalFrame(result jni.Handle) jni.Handle {
	return handle(C.PopLocalFrame(e.env, jobject(result)))
}

func (e Env) MonitorEnter(obj jni.Handle) int32 { return int32(C.MonitorEnter(e.env, jobject(obj))) }
func (e Env) MonitorExit(obj jni.Handle) int32  { return int32(C.MonitorExit(e.env, jobject(obj))) }

func (e Env) Throw(exc jni.Handle) int32 {
	return int32(C.Throw(e.env, C.jthrowable(jobject(exc))))
}

func (e Env) ThrowNew(cls jni.Handle, msg string) int32 {
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	return int32(C.ThrowNew(e.env, C.jclass(jobject(cls)), cMsg))
}

func (e Env) ExceptionOccurred() jni.Handle {
	return handle(C.jobject(C.ExceptionOccurred(e.env)))
}

func (e Env) ExceptionClear() { C.ExceptionClear(e.env) }

func (e Env) NewStringUTF(s string) jni.Handle {
	cStr := C.CString(s)
	defer C.free(unsafe.Pointer(cStr))
	return handle(C.jobject(C.NewStringUTF(e.env, cStr)))
}

func (e Env) GetStringUTFChars(str jni.Handle) string {
	s := C.jstring(jobject(str))
	chars := C.GetStringUTFChars(e.env, s)
	if chars == nil {
		return ""
	}
	defer C.ReleaseStringUTFChars(e.env, s, chars)
	return C.GoString(chars)
}

var _ jni.JavaVM = (*VM)(nil)
var _ jni.JNIEnv = Env{}
