// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"math"
	"reflect"
	"testing"

	"v.io/v23/verror"
)

type locale struct{}

func (locale) ClassName() string { return "java.util.Locale" }

func TestFuncSign(t *testing.T) {
	tests := []struct {
		args []Sign
		ret  Sign
		want Sign
	}{
		{nil, VoidSign, "()V"},
		{[]Sign{IntSign, LongSign}, BoolSign, "(IJ)Z"},
		{[]Sign{StringSign, ObjectSignOf("java.util.List")}, ObjectSign, "(Ljava/lang/String;Ljava/util/List;)Ljava/lang/Object;"},
		{[]Sign{ByteSign, CharSign, ShortSign, FloatSign, DoubleSign}, ClassSign, "(BCSFD)Ljava/lang/Class;"},
	}
	for _, test := range tests {
		if got := FuncSign(test.args, test.ret); got != test.want {
			t.Errorf("FuncSign(%v, %v): got %q, want %q", test.args, test.ret, got, test.want)
		}
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		got, want Sign
	}{
		{Signature[Void](), "()V"},
		{Signature[Long](Int(1), Bool(true)), "(IZ)J"},
		{Signature[Double](Float(1), Short(2), Byte(3), Char('c')), "(FSBC)D"},
		{Signature[String](String("x")), "(Ljava/lang/String;)Ljava/lang/String;"},
		{Signature[*Object]((*Object)(nil)), "(Ljava/lang/Object;)Ljava/lang/Object;"},
		{Signature[Instance[locale]](), "()Ljava/util/Locale;"},
		{Signature[Bool](Instance[locale]{}, TypedArg(nil, ListSign)), "(Ljava/util/Locale;Ljava/util/List;)Z"},
	}
	for i, test := range tests {
		if test.got != test.want {
			t.Errorf("%d: got %q, want %q", i, test.got, test.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		sign Sign
		want Kind
	}{
		{VoidSign, KindVoid},
		{BoolSign, KindBool},
		{ByteSign, KindByte},
		{CharSign, KindChar},
		{ShortSign, KindShort},
		{IntSign, KindInt},
		{LongSign, KindLong},
		{FloatSign, KindFloat},
		{DoubleSign, KindDouble},
		{StringSign, KindObject},
		{ObjectSignOf("a/B"), KindObject},
		{"", KindInvalid},
		{"II", KindInvalid},
		{"[I", KindInvalid},
		{"L;", KindInvalid},
		{"Ljava/lang/String", KindInvalid},
		{"(I)V", KindInvalid},
	}
	for _, test := range tests {
		if got := KindOf(test.sign); got != test.want {
			t.Errorf("KindOf(%q): got %v, want %v", test.sign, got, test.want)
		}
	}
}

func TestParseFuncSign(t *testing.T) {
	tests := []struct {
		sign Sign
		args []Sign
		ret  Sign
	}{
		{"()V", nil, VoidSign},
		{"(IJ)Z", []Sign{IntSign, LongSign}, BoolSign},
		{"(Ljava/lang/String;D)Ljava/lang/Object;", []Sign{StringSign, DoubleSign}, ObjectSign},
	}
	for _, test := range tests {
		args, ret, err := ParseFuncSign(test.sign)
		if err != nil {
			t.Errorf("ParseFuncSign(%q) failed: %v", test.sign, err)
			continue
		}
		if !reflect.DeepEqual(args, test.args) || ret != test.ret {
			t.Errorf("ParseFuncSign(%q): got %v %v, want %v %v", test.sign, args, ret, test.args, test.ret)
		}
	}
	for _, bad := range []Sign{"", "V", "(I", "(V)V", "([I)V", "(Ljava/lang/String)V", "()", "()[I", "(I)VV"} {
		if _, _, err := ParseFuncSign(bad); verror.ErrorID(err) != ErrInvalidSign.ID {
			t.Errorf("ParseFuncSign(%q): got %v, want %v", bad, err, ErrInvalidSign.ID)
		}
	}
}

func TestValue(t *testing.T) {
	if got := IntValue(-1).Int(); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
	if got := LongValue(math.MinInt64).Long(); got != math.MinInt64 {
		t.Errorf("got %d, want %d", got, int64(math.MinInt64))
	}
	// An int occupies the low 32 bits only.
	if got, want := IntValue(-1), Value(0xffffffff); got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
	if got := ByteValue(-128).Byte(); got != -128 {
		t.Errorf("got %d, want -128", got)
	}
	if got := ShortValue(-2).Short(); got != -2 {
		t.Errorf("got %d, want -2", got)
	}
	if got := FloatValue(-1.5).Float(); got != -1.5 {
		t.Errorf("got %v, want -1.5", got)
	}
	if got := DoubleValue(math.Pi).Double(); got != math.Pi {
		t.Errorf("got %v, want %v", got, math.Pi)
	}
	if !BoolValue(true).Bool() || BoolValue(false).Bool() {
		t.Errorf("bool values don't round-trip")
	}
}
