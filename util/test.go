package util

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"math"
	"reflect"
	"testing"
)

func AssertEqual(t *testing.T, expected any, actual any) {
	if !reflect.DeepEqual(expected, actual) {
		sigolo.Errorb(1, "Expect to be equal.\nExpected: %+v\n----------\nActual  : %+v\n", expected, actual)
		t.Fail()
	}
}

// AssertElementsMatch compares both slices ignoring the order of their elements.
func AssertElementsMatch[T comparable](t *testing.T, expected []T, actual []T) {
	remaining := map[T]int{}
	for _, e := range expected {
		remaining[e]++
	}
	for _, a := range actual {
		remaining[a]--
	}

	for _, count := range remaining {
		if count != 0 || len(expected) != len(actual) {
			sigolo.Errorb(1, "Expect same elements.\nExpected: %+v\n----------\nActual  : %+v\n", expected, actual)
			t.Fail()
			return
		}
	}
}

func AssertApprox[T float32 | float64](t *testing.T, expected T, actual T, accuracy T) {
	if math.Abs(float64(expected-actual)) > float64(accuracy) {
		sigolo.Errorb(1, "Expect %v to be approx. %v (accuracy %v)", actual, expected, accuracy)
		t.Fail()
	}
}

func AssertNil(t *testing.T, value any) {
	if value != nil && !reflect.ValueOf(value).IsNil() {
		sigolo.Errorb(1, "Expect to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func AssertNotNil(t *testing.T, value any) {
	if value == nil || reflect.ValueOf(value).IsNil() {
		sigolo.Errorb(1, "Expect NOT to be 'nil' but was: %#v", value)
		t.Fail()
	}
}

func AssertError(t *testing.T, expectedMessage string, err error) {
	if err == nil {
		sigolo.Errorb(1, "Expected error with message '%s' but got nil", expectedMessage)
		t.Fail()
		return
	}
	if expectedMessage != err.Error() {
		sigolo.Errorb(1, "Expected message: %s\nActual error message: %s", expectedMessage, err.Error())
		t.Fail()
	}
}

// AssertErrorIs checks that the given error wraps the expected one.
func AssertErrorIs(t *testing.T, expected error, err error) {
	if !errors.Is(err, expected) {
		sigolo.Errorb(1, "Expected error to wrap '%v' but was: %+v", expected, err)
		t.Fail()
	}
}

func AssertTrue(t *testing.T, b bool) {
	if !b {
		sigolo.Errorb(1, "Expected true but got false")
		t.Fail()
	}
}

func AssertFalse(t *testing.T, b bool) {
	if b {
		sigolo.Errorb(1, "Expected false but got true")
		t.Fail()
	}
}
