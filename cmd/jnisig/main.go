// Copyright 2016 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The following enables go generate to generate the doc.go file.
//go:generate go run v.io/x/lib/cmdline/gendoc .

package main

import (
	"fmt"
	"strings"

	"v.io/x/lib/cmdline"

	"github.com/VirtuosoChris/uJNI/jni"
)

var flagParse bool

func init() {
	cmdRoot.Flags.BoolVar(&flagParse, "parse", false, "Parse method descriptors instead of building one.")
}

func main() {
	cmdline.Main(cmdRoot)
}

var cmdRoot = &cmdline.Command{
	Runner: cmdline.RunnerFunc(runJNISig),
	Name:   "jnisig",
	Short:  "converts between Java method types and JNI descriptors",
	Long: `
Command jnisig prints the JNI descriptor of a Java method type, as used with
GetMethodID, or with -parse the Java types of JNI method descriptors.
`,
	ArgsName: "<type>... [: <type>]",
	ArgsLong: `
<type> is a Java type: a primitive type, void, or a class name such as
java.util.List.  The types before ':' are the argument types, the type after
it is the return type, void if omitted.  String, Object, Class and Throwable
are short for their java.lang classes.

With -parse, each argument is a method descriptor such as (JI)Z.
`,
}

func runJNISig(env *cmdline.Env, args []string) error {
	if flagParse {
		if len(args) == 0 {
			return env.UsageErrorf("jnisig: no descriptors to parse")
		}
		for _, arg := range args {
			s, err := describe(jni.Sign(arg))
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, s)
		}
		return nil
	}
	sig, err := descriptor(args)
	if err != nil {
		return env.UsageErrorf("jnisig: %v", err)
	}
	fmt.Fprintln(env.Stdout, sig)
	return nil
}

var primitives = map[string]jni.Sign{
	"void":    jni.VoidSign,
	"boolean": jni.BoolSign,
	"byte":    jni.ByteSign,
	"char":    jni.CharSign,
	"short":   jni.ShortSign,
	"int":     jni.IntSign,
	"long":    jni.LongSign,
	"float":   jni.FloatSign,
	"double":  jni.DoubleSign,
}

var shorthands = map[string]jni.Sign{
	"String":    jni.StringSign,
	"Object":    jni.ObjectSign,
	"Class":     jni.ClassSign,
	"Throwable": jni.ThrowableSign,
}

// descriptor returns the method descriptor for the type words in args.
func descriptor(args []string) (jni.Sign, error) {
	ret := jni.VoidSign
	params := args
	for i, a := range args {
		if a != ":" {
			continue
		}
		if len(args) != i+2 {
			return "", fmt.Errorf("want exactly one return type after ':', got %d", len(args)-i-1)
		}
		s, err := typeSign(args[i+1])
		if err != nil {
			return "", err
		}
		ret, params = s, args[:i]
		break
	}
	var signs []jni.Sign
	for _, p := range params {
		s, err := typeSign(p)
		if err != nil {
			return "", err
		}
		if s == jni.VoidSign {
			return "", fmt.Errorf("void is not an argument type")
		}
		signs = append(signs, s)
	}
	return jni.FuncSign(signs, ret), nil
}

func typeSign(word string) (jni.Sign, error) {
	if s, ok := primitives[word]; ok {
		return s, nil
	}
	if s, ok := shorthands[word]; ok {
		return s, nil
	}
	if strings.ContainsAny(word, "./") {
		return jni.ObjectSignOf(word), nil
	}
	return "", fmt.Errorf("unknown type %q", word)
}

// describe renders the method descriptor s as "<ret> (<args>)".
func describe(s jni.Sign) (string, error) {
	args, ret, err := jni.ParseFuncSign(s)
	if err != nil {
		return "", err
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = typeName(a)
	}
	return fmt.Sprintf("%s (%s)", typeName(ret), strings.Join(names, ", ")), nil
}

func typeName(s jni.Sign) string {
	for name, p := range primitives {
		if p == s {
			return name
		}
	}
	return strings.Replace(string(s[1:len(s)-1]), "/", ".", -1)
}
