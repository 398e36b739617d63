// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"fmt"
	"strings"
)

// Sign is a JNI type descriptor, either of a single type ("I",
// "Ljava/lang/String;") or of a method ("(IJ)Z").
type Sign string

const (
	VoidSign   Sign = "V"
	BoolSign   Sign = "Z"
	ByteSign   Sign = "B"
	CharSign   Sign = "C"
	ShortSign  Sign = "S"
	IntSign    Sign = "I"
	LongSign   Sign = "J"
	FloatSign  Sign = "F"
	DoubleSign Sign = "D"

	ObjectSign      Sign = "Ljava/lang/Object;"
	StringSign      Sign = "Ljava/lang/String;"
	ClassSign       Sign = "Ljava/lang/Class;"
	ClassLoaderSign Sign = "Ljava/lang/ClassLoader;"
	ThrowableSign   Sign = "Ljava/lang/Throwable;"
	ListSign        Sign = "Ljava/util/List;"
)

// ObjectSignOf returns the descriptor of the object type with the given
// fully-qualified class name.  Both "java.util.List" and "java/util/List" are
// accepted.
func ObjectSignOf(className string) Sign {
	return Sign("L" + strings.Replace(className, ".", "/", -1) + ";")
}

// FuncSign returns the descriptor of a method taking the provided argument
// types and returning the provided type.
func FuncSign(args []Sign, ret Sign) Sign {
	n := len(ret) + 2
	for _, a := range args {
		n += len(a)
	}
	var b strings.Builder
	b.Grow(n)
	b.WriteByte('(')
	for _, a := range args {
		b.WriteString(string(a))
	}
	b.WriteByte(')')
	b.WriteString(string(ret))
	return Sign(b.String())
}

// Kind identifies the family of JNI entry points used to call a method or
// access a field of a given type.
type Kind int

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindByte
	KindChar
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindObject
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindVoid:    "void",
	KindBool:    "boolean",
	KindByte:    "byte",
	KindChar:    "char",
	KindShort:   "short",
	KindInt:     "int",
	KindLong:    "long",
	KindFloat:   "float",
	KindDouble:  "double",
	KindObject:  "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// KindOf returns the kind of the provided single-type descriptor, or
// KindInvalid if the descriptor isn't a supported type.  Array descriptors
// are not supported.
func KindOf(s Sign) Kind {
	if len(s) == 0 {
		return KindInvalid
	}
	switch s[0] {
	case 'V':
		return kindIfLen(s, KindVoid)
	case 'Z':
		return kindIfLen(s, KindBool)
	case 'B':
		return kindIfLen(s, KindByte)
	case 'C':
		return kindIfLen(s, KindChar)
	case 'S':
		return kindIfLen(s, KindShort)
	case 'I':
		return kindIfLen(s, KindInt)
	case 'J':
		return kindIfLen(s, KindLong)
	case 'F':
		return kindIfLen(s, KindFloat)
	case 'D':
		return kindIfLen(s, KindDouble)
	case 'L':
		if len(s) > 2 && s[len(s)-1] == ';' && !strings.ContainsAny(string(s[1:len(s)-1]), ";()[") {
			return KindObject
		}
	}
	return KindInvalid
}

func kindIfLen(s Sign, k Kind) Kind {
	if len(s) != 1 {
		return KindInvalid
	}
	return k
}

// ParseFuncSign splits a method descriptor into its argument and return
// descriptors.
func ParseFuncSign(s Sign) (args []Sign, ret Sign, err error) {
	str := string(s)
	if !strings.HasPrefix(str, "(") {
		return nil, "", ErrInvalidSign.Errorf(nil, "method descriptor %q must start with '('", str)
	}
	end := strings.IndexByte(str, ')')
	if end < 0 {
		return nil, "", ErrInvalidSign.Errorf(nil, "method descriptor %q has no ')'", str)
	}
	rest := str[1:end]
	for len(rest) > 0 {
		n := 1
		if rest[0] == 'L' {
			semi := strings.IndexByte(rest, ';')
			if semi < 0 {
				return nil, "", ErrInvalidSign.Errorf(nil, "unterminated object type in %q", str)
			}
			n = semi + 1
		}
		arg := Sign(rest[:n])
		if k := KindOf(arg); k == KindInvalid || k == KindVoid {
			return nil, "", ErrInvalidSign.Errorf(nil, "unsupported argument type %q in %q", arg, str)
		}
		args = append(args, arg)
		rest = rest[n:]
	}
	ret = Sign(str[end+1:])
	if KindOf(ret) == KindInvalid {
		return nil, "", ErrInvalidSign.Errorf(nil, "unsupported return type %q in %q", ret, str)
	}
	return args, ret, nil
}

// Signature returns the descriptor of a method returning R and taking args.
func Signature[R Result](args ...Arg) Sign {
	var r R
	return FuncSign(argSigns(args), r.Sign())
}

func argSigns(args []Arg) []Sign {
	if len(args) == 0 {
		return nil
	}
	signs := make([]Sign, len(args))
	for i, a := range args {
		signs[i] = a.Sign()
	}
	return signs
}
