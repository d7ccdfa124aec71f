package parserloader

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codemod-rs/codemod-go/internal/langhandle"
	"github.com/codemod-rs/codemod-go/internal/logging"
)

// ErrNoCacheDir is returned when the parser cache directory cannot be
// determined.
var ErrNoCacheDir = fmt.Errorf("parserloader: no cache directory available")

var (
	registerOnce sync.Once
	registerErr  error
)

func init() {
	// Wires the dynamic loader into langhandle without an import cycle:
	// langhandle calls back into Load lazily on its first miss.
	langhandle.SetDynamicInitializer(func() error {
		return Load(namesOf(Registry), nil)
	})
}

func namesOf(langs []SupportedLanguage) []string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.Name
	}
	return names
}

// Load ensures a shared library exists locally for each named language,
// downloads any that are missing, and registers all of them with the
// language subsystem. Only the first call in a process does this work; every
// later call, whatever its language list, performs no downloads or
// registrations and returns the first call's error (nil if it succeeded).
func Load(names []string, onProgress ProgressFunc) error {
	var outerErr error
	registerOnce.Do(func() {
		for _, name := range names {
			if err := loadOne(name, onProgress); err != nil {
				outerErr = err
				return
			}
		}
	})
	if outerErr != nil {
		registerErr = outerErr
	}
	return registerErr
}

func loadOne(name string, onProgress ProgressFunc) error {
	log := logging.Get(logging.CategoryParserLoader)
	sl, ok := Find(name)
	if !ok {
		return fmt.Errorf("parserloader: %q is not a known dynamic language", name)
	}

	os_, arch, ext, err := CurrentPlatform()
	if err != nil {
		return err
	}

	path, err := CachePath(sl.Name, os_, arch, ext)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCacheDir, err)
	}

	if _, statErr := os.Stat(path); statErr != nil {
		url := URL(sl.Name, os_, arch, ext)
		log.Infow("fetching dynamic parser", "lang", sl.Name, "url", url)
		if err := Fetch(url, path, onProgress); err != nil {
			return err
		}
	}

	lang, err := loadSharedLibrary(path, sl.NormalizedSymbolName())
	if err != nil {
		return fmt.Errorf("parserloader: register %s: %w", sl.Name, err)
	}

	handle := langhandle.NewDynamicHandle(sl.Name, lang, sl.MetaVarChar, sl.ExpandoChar, sl.Extensions)
	langhandle.RegisterDynamic(handle)
	return nil
}

// loadSharedLibrary dlopen()s path, resolves symbol, and calls it (the
// tree-sitter grammar entry point takes no arguments and returns a
// TSLanguage*), wrapping the raw pointer via sitter.NewLanguage. Grounded on
// purego's dlopen/dlsym pattern (see DESIGN.md "Open Questions" #2).
func loadSharedLibrary(path, symbol string) (*sitter.Language, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}

	var fn func() unsafe.Pointer
	purego.RegisterFunc(&fn, handle, symbol)
	ptr := fn()
	if ptr == nil {
		return nil, fmt.Errorf("symbol %s returned nil language pointer", symbol)
	}
	return sitter.NewLanguage(ptr), nil
}
