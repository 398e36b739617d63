// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package envvar

import (
	"os"
	"reflect"
	"testing"
)

func TestOverrides(t *testing.T) {
	if err := ClearOverrides(); err != nil {
		t.Fatal(err)
	}
	defer ClearOverrides()
	os.Setenv(ThreadName, "worker")
	os.Setenv(LocalFrameCapacity, "32")
	os.Setenv(ExceptionClass, "")
	os.Setenv("NOT_UJNI_THREAD_NAME", "ignored")
	defer os.Unsetenv("NOT_UJNI_THREAD_NAME")

	got := Overrides()
	want := map[string]string{
		ThreadName:         "worker",
		LocalFrameCapacity: "32",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if err := ClearOverrides(); err != nil {
		t.Fatal(err)
	}
	if got := Overrides(); len(got) != 0 {
		t.Errorf("got %v after ClearOverrides, want none", got)
	}
}
