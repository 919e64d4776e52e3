// Package test provides helpers shared by the package tests.
package test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ReportError reports a mismatch between got and want, listing any extra
// inputs that help reproduce the failure.
func ReportError(t testing.TB, got, want interface{}, inputs ...interface{}) {
	t.Helper()
	b := &strings.Builder{}
	fmt.Fprint(b, "\n")
	for i, in := range inputs {
		fmt.Fprintf(b, "in[%v]: %v\n", i, in)
	}
	fmt.Fprintf(b, "got:  %v\nwant: %v", got, want)
	t.Error(b.String())
}

// CheckOk fails the test if result is false.
func CheckOk(result bool, msg string, t testing.TB) {
	t.Helper()
	if !result {
		t.Fatal(msg)
	}
}

// CheckIsErr fails the test if err is nil.
func CheckIsErr(t testing.TB, err error, msg string) {
	t.Helper()
	CheckOk(err != nil, msg, t)
}

// CheckNoErr fails the test if err is not nil.
func CheckNoErr(t testing.TB, err error, msg string) {
	t.Helper()
	CheckOk(err == nil, fmt.Sprintf("%v: %v", msg, err), t)
}

// CheckErrIs fails the test unless err matches target.
func CheckErrIs(t testing.TB, err, target error, msg string) {
	t.Helper()
	CheckOk(errors.Is(err, target), fmt.Sprintf("%v: got %v, want %v", msg, err, target), t)
}

// CheckPanic returns an error if f does not panic.
func CheckPanic(f func()) (err error) {
	defer func() {
		if recover() == nil {
			err = errors.New("the function did not panic")
		}
	}()
	f()
	return
}
