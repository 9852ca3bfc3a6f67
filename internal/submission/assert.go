package submission

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"

	"codequest/internal/verify"
)

// AssertPackage is the import path script cases use for assertions.
const AssertPackage = "codequest/assert"

// assertSymbols exposes the host assertion helpers to interpreted scripts.
var assertSymbols = interp.Exports{
	AssertPackage + "/assert": map[string]reflect.Value{
		"Equal":    reflect.ValueOf(assertEqual),
		"NotEqual": reflect.ValueOf(assertNotEqual),
		"True":     reflect.ValueOf(assertTrue),
		"False":    reflect.ValueOf(assertFalse),
		"Fail":     reflect.ValueOf(assertFail),
	},
}

func raise(fallback string, msg []any) {
	text := fallback
	if len(msg) > 0 {
		text = fmt.Sprint(msg...)
	}
	panic(&verify.AssertionError{Message: text})
}

func assertEqual(actual, expected any, msg ...any) {
	a, e := verify.Normalize(actual), verify.Normalize(expected)
	if !verify.EqualExact(a, e) {
		raise(fmt.Sprintf("expected %s, got %s", verify.Format(e), verify.Format(a)), msg)
	}
}

func assertNotEqual(actual, unexpected any, msg ...any) {
	a, u := verify.Normalize(actual), verify.Normalize(unexpected)
	if verify.EqualExact(a, u) {
		raise(fmt.Sprintf("did not expect %s", verify.Format(a)), msg)
	}
}

func assertTrue(cond bool, msg ...any) {
	if !cond {
		raise("expected true", msg)
	}
}

func assertFalse(cond bool, msg ...any) {
	if cond {
		raise("expected false", msg)
	}
}

func assertFail(msg ...any) {
	raise("assertion failed", msg)
}
