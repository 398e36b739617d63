// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jni

import (
	"v.io/v23/verror"
)

const pkgPath = "github.com/VirtuosoChris/uJNI/jni"

var (
	// ErrClassNotFound is returned when a class can't be resolved by name.
	ErrClassNotFound = verror.NewIDAction(pkgPath+".ErrClassNotFound", verror.NoRetry)
	// ErrMemberNotFound is returned when a method or field can't be
	// resolved by name and descriptor.
	ErrMemberNotFound = verror.NewIDAction(pkgPath+".ErrMemberNotFound", verror.NoRetry)
	// ErrJavaException is returned when a Java exception is pending after
	// (or before) a call into the VM, and by Env.Throw.
	ErrJavaException = verror.NewIDAction(pkgPath+".ErrJavaException", verror.NoRetry)
	// ErrInvalidHandle is returned when a null or released reference is
	// used where a live one is required.
	ErrInvalidHandle = verror.NewIDAction(pkgPath+".ErrInvalidHandle", verror.NoRetry)
	// ErrAttachFailed is returned when the calling thread can't be attached
	// to the VM.
	ErrAttachFailed = verror.NewIDAction(pkgPath+".ErrAttachFailed", verror.NoRetry)
	// ErrInvalidSign is returned when a method descriptor can't be parsed.
	ErrInvalidSign = verror.NewIDAction(pkgPath+".ErrInvalidSign", verror.NoRetry)
	// ErrNotList is returned by ForEachInList for objects that aren't a
	// java.util.List.
	ErrNotList = verror.NewIDAction(pkgPath+".ErrNotList", verror.NoRetry)
)
