package sandbox

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"sync"

	"github.com/codemod-rs/codemod-go/internal/config"
	"github.com/codemod-rs/codemod-go/internal/langhandle"
)

// Capabilities is the host-I/O surface a script may call into, gated by the
// caller's CapabilitySet; capability-gated built-ins are default-denied.
// Every method on this struct is reachable from a script; a method whose
// flag was not granted returns an error without performing any host I/O.
type Capabilities struct {
	caps   config.CapabilitySet
	check  ModificationCheck
	dryRun bool

	mu        sync.Mutex
	secondary []SecondaryChange
}

// NewCapabilities builds the capability surface for one execution.
func NewCapabilities(caps config.CapabilitySet) *Capabilities {
	return &Capabilities{caps: caps}
}

// Secondary returns every file jssgTransform touched during this execution.
func (c *Capabilities) Secondary() []SecondaryChange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SecondaryChange, len(c.secondary))
	copy(out, c.secondary)
	return out
}

// JssgTransform is the native, file-backed `<engine>:ast-grep.jssgTransform`
// helper: read filePath, parse it with language, call fn, and
// on a string result write the file (or the rename target, deleting the
// original if the paths differ). Requires the Filesystem capability; the
// touched file is recorded as a SecondaryChange for the runner to report
// alongside the primary change.
func (c *Capabilities) JssgTransform(fn TransformFunc, filePath, language string) (*string, error) {
	if !c.caps.Filesystem {
		return nil, fmt.Errorf("sandbox: filesystem capability not granted")
	}

	handle, err := langhandle.FromName(language)
	if err != nil {
		return nil, err
	}
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	root, err := NewSgRoot(handle, source, filePath)
	if err != nil {
		return nil, err
	}

	text, err := fn(root, Options{Language: language})
	if err != nil {
		return nil, err
	}

	renamePath, hasRename := root.RenameTarget()
	result := ClassifyTransformResult(string(source), text, renamePath, hasRename, c.check)

	if result.Kind == Modified && !c.dryRun {
		target := filePath
		if result.HasRename {
			target = result.RenamePath
		}
		if err := os.WriteFile(target, []byte(result.NewText), 0o644); err != nil {
			return nil, err
		}
		if result.HasRename && target != filePath {
			if err := os.Remove(filePath); err != nil {
				return nil, err
			}
		}
	}

	c.mu.Lock()
	c.secondary = append(c.secondary, SecondaryChange{Path: filePath, Original: string(source), Result: result})
	c.mu.Unlock()

	return text, nil
}

// ReadFile reads a file from the host filesystem. Only callable when the
// Filesystem capability was granted.
func (c *Capabilities) ReadFile(path string) (string, error) {
	if !c.caps.Filesystem {
		return "", fmt.Errorf("sandbox: filesystem capability not granted")
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// WriteFile writes a file to the host filesystem. Only callable when the
// Filesystem capability was granted.
func (c *Capabilities) WriteFile(path, content string) error {
	if !c.caps.Filesystem {
		return fmt.Errorf("sandbox: filesystem capability not granted")
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// Fetch performs an HTTP GET. Only callable when the Network capability
// was granted.
func (c *Capabilities) Fetch(url string) (string, error) {
	if !c.caps.Network {
		return "", fmt.Errorf("sandbox: network capability not granted")
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

// RunCommand executes a child process. Only callable when the ChildProcess
// capability was granted.
func (c *Capabilities) RunCommand(name string, args ...string) (string, error) {
	if !c.caps.ChildProcess {
		return "", fmt.Errorf("sandbox: child_process capability not granted")
	}
	out, err := exec.Command(name, args...).CombinedOutput()
	return string(out), err
}
