package xatlas

import (
	"sync"

	"github.com/Faultbox/xatlas-go/pkg/xatlas/abi"
)

var (
	engineMu      sync.RWMutex
	defaultEngine abi.Engine
)

// Register makes e the engine used by New when no WithEngine option is
// given. It is called from the init function of an engine package and
// panics if an engine is already registered.
func Register(e abi.Engine) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if e == nil {
		panic("xatlas: Register engine is nil")
	}
	if defaultEngine != nil {
		panic("xatlas: Register called twice")
	}
	defaultEngine = e
}

func registeredEngine() abi.Engine {
	engineMu.RLock()
	defer engineMu.RUnlock()
	return defaultEngine
}
