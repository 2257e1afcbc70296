package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

var (
	lifecycle   sync.Mutex
	initialized bool
)

// Initialize brings PortAudio up once per process. Extra calls are no-ops
// until Terminate.
func Initialize() error {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	initialized = true
	return nil
}

// Terminate balances a successful Initialize.
func Terminate() error {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if !initialized {
		return nil
	}
	initialized = false
	return portaudio.Terminate()
}
