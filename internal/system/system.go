// Package system probes the host environment the renderer runs in: where
// the engine binary lives and how much headroom the machine has before a
// long video render.
package system

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// FindRenderer resolves the engine binary on PATH and confirms it
// answers --version, returning the absolute path and the reported
// version line.
func FindRenderer(binary string) (path, version string, err error) {
	path, err = exec.LookPath(binary)
	if err != nil {
		return "", "", fmt.Errorf("renderer %q not found on PATH: %w", binary, err)
	}

	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		return "", "", fmt.Errorf("renderer %q failed version probe: %w: %s", binary, err, strings.TrimSpace(string(out)))
	}

	version = strings.TrimSpace(string(out))
	if i := strings.IndexByte(version, '\n'); i >= 0 {
		version = version[:i]
	}
	return path, version, nil
}

// Resources describes the host's render-relevant capacity.
type Resources struct {
	LogicalCPUs     int
	AvailableMemory uint64
}

// Probe reads current CPU and memory figures.
func Probe() (Resources, error) {
	cpus, err := cpu.Counts(true)
	if err != nil {
		return Resources{}, fmt.Errorf("cpu probe: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Resources{}, fmt.Errorf("memory probe: %w", err)
	}
	return Resources{LogicalCPUs: cpus, AvailableMemory: vm.Available}, nil
}

// Headroom reports whether at least minBytes of memory are available.
// Advisory only; a failed check never blocks a render.
func (r Resources) Headroom(minBytes uint64) bool {
	return r.AvailableMemory >= minBytes
}
