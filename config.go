package pix

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// defaultThreads holds the process-wide default thread count read by
// ForEachRegion when a call gives no explicit hint. 0 means one per CPU.
var defaultThreads atomic.Int64

// SetThreads sets the process-wide default thread count. Pass 0 to restore
// the default of one thread per CPU.
//
// SetThreads is safe for concurrent use; ForEachRegion reads the value at
// call time.
func SetThreads(n int) {
	if n < 0 {
		n = 0
	}
	defaultThreads.Store(int64(n))
}

// Threads returns the resolved process-wide default thread count: the value
// set with SetThreads, or the CPU count when unset.
func Threads() int {
	if n := int(defaultThreads.Load()); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Settings is the on-disk library configuration.
type Settings struct {
	// Threads is the default worker count for parallel operations.
	// 0 means one per CPU.
	Threads int `yaml:"threads"`
}

// LoadSettings reads a YAML settings file. Call Apply on the result to
// install it as the process-wide default.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("pix: read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("pix: parse settings %s: %w", path, err)
	}
	return s, nil
}

// Apply installs the settings as process-wide defaults.
func (s Settings) Apply() {
	SetThreads(s.Threads)
}
