// Package invariant guards against programmer errors in the render loop.
//
// A violated invariant means the caller has a bug, for example popping an
// empty transform stack or reading past the light buffer. In strict mode the
// guard panics so the bug surfaces at its source. Otherwise it logs at error
// level and returns false, and the caller clamps or skips the operation so
// the frame keeps GPU state consistent.
package invariant

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/logger"
)

var strict atomic.Bool

// SetStrict toggles panicking on violations.
func SetStrict(on bool) {
	strict.Store(on)
}

// Strict reports whether violations panic.
func Strict() bool {
	return strict.Load()
}

// Violation is the panic value raised in strict mode.
type Violation struct {
	Component string
	Message   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", v.Component, v.Message)
}

// Check returns cond. When cond is false it reports the violation: a panic
// in strict mode, an error log otherwise.
func Check(cond bool, component, msg string, fields ...zap.Field) bool {
	if cond {
		return true
	}
	if strict.Load() {
		panic(Violation{Component: component, Message: msg})
	}
	logger.Error("invariant violated: "+msg, append(fields, zap.String("component", component))...)
	return false
}

// Clamp forces i into [0, n). It reports a violation when i was outside.
// n must be positive.
func Clamp(i, n int, component, what string) int {
	if Check(i >= 0 && i < n, component, what+" index out of range", zap.Int("index", i), zap.Int("len", n)) {
		return i
	}
	if i < 0 {
		return 0
	}
	return n - 1
}
