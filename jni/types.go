// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"math"
)

// Handle is a JNI reference (jobject, jclass, jstring, jthrowable).  The zero
// Handle is the Java null reference.
type Handle uintptr

// IsNull returns true iff h is the null reference.
func (h Handle) IsNull() bool { return h == 0 }

// MethodID is a resolved method handle; zero means "not found".
type MethodID uintptr

// FieldID is a resolved field handle; zero means "not found".
type FieldID uintptr

// Value is the native representation of a single JNI argument or result
// (a jvalue).  The bits are laid out as the union would be on a little-endian
// machine: narrow types occupy the low-order bits.
type Value uint64

func BoolValue(b bool) Value {
	if b {
		return 1
	}
	return 0
}
func ByteValue(b int8) Value { return Value(uint8(b)) }
func CharValue(c uint16) Value { return Value(c) }
func ShortValue(s int16) Value { return Value(uint16(s)) }
func IntValue(i int32) Value { return Value(uint32(i)) }
func LongValue(l int64) Value { return Value(uint64(l)) }
func FloatValue(f float32) Value { return Value(math.Float32bits(f)) }
func DoubleValue(d float64) Value { return Value(math.Float64bits(d)) }
func HandleValue(h Handle) Value { return Value(h) }
func (v Value) Bool() bool { return uint8(v) != 0 }
func (v Value) Byte() int8 { return int8(uint8(v)) }
func (v Value) Char() uint16 { return uint16(v) }
func (v Value) Short() int16 { return int16(uint16(v)) }
func (v Value) Int() int32 { return int32(uint32(v)) }
func (v Value) Long() int64 { return int64(v) }
func (v Value) Float() float32 { return math.Float32frombits(uint32(v)) }
func (v Value) Double() float64 { return math.Float64frombits(uint64(v)) }
func (v Value) Handle() Handle { return Handle(v) }

// Arg is a value that can be passed to a Java method or stored in a Java
// field.  The set of implementations is closed: only the types in this
// package satisfy it, so passing an unsupported Go type is a compile error.
type Arg interface {
	Sign() Sign
	Kind() Kind
	// jvalue converts the argument into its native form.  A non-null local
	// reference returned alongside must be deleted by the caller once the
	// call completes.
	jvalue(env *Env) (Value, Handle, error)
}

// Result is a type that can be returned from a Java method or read from a
// Java field.  Like Arg, the set of implementations is closed.
type Result interface {
	Sign() Sign
	Kind() Kind
	result()
}

// Named is implemented by marker types that name a Java class, for use with
// Instance.
//
//	type Locale struct{}
//	func (Locale) ClassName() string { return "java/util/Locale" }
//
//	loc, err := jni.CallStatic0[jni.Instance[Locale]](cls, "getDefault")
type Named interface {
	ClassName() string
}

type (
	Void   struct{}
	Bool   bool
	Byte   int8
	Char   uint16
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	// String is a java.lang.String, marshalled to and from a Go string.  A
	// null Java string is returned as "".
	String string
)

func (Void) Sign() Sign { return VoidSign }
func (Bool) Sign() Sign { return BoolSign }
func (Byte) Sign() Sign { return ByteSign }
func (Char) Sign() Sign { return CharSign }
func (Short) Sign() Sign { return ShortSign }
func (Int) Sign() Sign { return IntSign }
func (Long) Sign() Sign { return LongSign }
func (Float) Sign() Sign { return FloatSign }
func (Double) Sign() Sign { return DoubleSign }
func (String) Sign() Sign { return StringSign }

func (Void) Kind() Kind { return KindVoid }
func (Bool) Kind() Kind { return KindBool }
func (Byte) Kind() Kind { return KindByte }
func (Char) Kind() Kind { return KindChar }
func (Short) Kind() Kind { return KindShort }
func (Int) Kind() Kind { return KindInt }
func (Long) Kind() Kind { return KindLong }
func (Float) Kind() Kind { return KindFloat }
func (Double) Kind() Kind { return KindDouble }
func (String) Kind() Kind { return KindObject }

func (Void) result() {}
func (Bool) result() {}
func (Byte) result() {}
func (Char) result() {}
func (Short) result() {}
func (Int) result() {}
func (Long) result() {}
func (Float) result() {}
func (Double) result() {}
func (String) result() {}

func (b Bool) jvalue(*Env) (Value, Handle, error) { return BoolValue(bool(b)), 0, nil }
func (b Byte) jvalue(*Env) (Value, Handle, error) { return ByteValue(int8(b)), 0, nil }
func (c Char) jvalue(*Env) (Value, Handle, error) { return CharValue(uint16(c)), 0, nil }
func (s Short) jvalue(*Env) (Value, Handle, error) { return ShortValue(int16(s)), 0, nil }
func (i Int) jvalue(*Env) (Value, Handle, error) { return IntValue(int32(i)), 0, nil }
func (l Long) jvalue(*Env) (Value, Handle, error) { return LongValue(int64(l)), 0, nil }
func (f Float) jvalue(*Env) (Value, Handle, error) { return FloatValue(float32(f)), 0, nil }
func (d Double) jvalue(*Env) (Value, Handle, error) { return DoubleValue(float64(d)), 0, nil }

func (s String) jvalue(env *Env) (Value, Handle, error) {
	h, err := JString(env, string(s))
	if err != nil {
		return 0, 0, err
	}
	return HandleValue(h), h, nil
}

// Instance is an object result or argument whose declared Java type is the
// class named by N.
type Instance[N Named] struct {
	*Object
}

func (Instance[N]) Sign() Sign {
	var n N
	return ObjectSignOf(n.ClassName())
}

func (Instance[N]) Kind() Kind { return KindObject }
func (Instance[N]) result() {}

func (i Instance[N]) jvalue(env *Env) (Value, Handle, error) {
	return i.Object.jvalue(env)
}

func (i *Instance[N]) setObject(o *Object) { i.Object = o }

// objectResult is implemented by pointers to object-typed results.
type objectResult interface {
	setObject(*Object)
}

// typedArg is an object argument passed under an explicitly declared type.
type typedArg struct {
	obj  *Object
	sign Sign
}

func (a typedArg) Sign() Sign { return a.sign }
func (a typedArg) Kind() Kind { return KindObject }

func (a typedArg) jvalue(env *Env) (Value, Handle, error) {
	return a.obj.jvalue(env)
}

// TypedArg returns an argument that passes obj as a parameter declared with
// the provided (object) descriptor, e.g. a String passed to a method taking
// java.lang.CharSequence.  A nil obj passes null.
func TypedArg(obj *Object, sign Sign) Arg {
	return typedArg{obj: obj, sign: sign}
}

// decodeResult converts the raw value v of kind R.Kind() into an R.  Local
// object references carried by v are consumed.
func decodeResult[R Result](env *Env, v Value) (R, error) {
	var r R
	switch p := any(&r).(type) {
	case *Void:
	case *Bool:
		*p = Bool(v.Bool())
	case *Byte:
		*p = Byte(v.Byte())
	case *Char:
		*p = Char(v.Char())
	case *Short:
		*p = Short(v.Short())
	case *Int:
		*p = Int(v.Int())
	case *Long:
		*p = Long(v.Long())
	case *Float:
		*p = Float(v.Float())
	case *Double:
		*p = Double(v.Double())
	case *String:
		h := v.Handle()
		*p = String(GoString(env, h))
		env.DeleteLocalRef(h)
	case **Object:
		obj, err := env.takeLocal(v.Handle())
		if err != nil {
			return r, err
		}
		*p = obj
	case objectResult:
		obj, err := env.takeLocal(v.Handle())
		if err != nil {
			return r, err
		}
		p.setObject(obj)
	default:
		return r, env.raise(ErrInvalidHandle, "unsupported result type %T", r)
	}
	return r, nil
}
