// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file was auto-generated via go generate.
// DO NOT UPDATE MANUALLY

/*
Command jnisig prints the JNI descriptor of a Java method type, as used with
GetMethodID, or with -parse the Java types of JNI method descriptors.

Usage:
   jnisig [flags] <type>... [: <type>]

<type> is a Java type: a primitive type, void, or a class name such as
java.util.List.  The types before ':' are the argument types, the type after
it is the return type, void if omitted.  String, Object, Class and Throwable
are short for their java.lang classes.

With -parse, each argument is a method descriptor such as (JI)Z.

The jnisig flags are:
 -parse=false
   Parse method descriptors instead of building one.
*/
package main
