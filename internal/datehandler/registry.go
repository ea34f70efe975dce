package datehandler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Builder creates a Constructor for the given settings. It fails when the
// settings cannot be honoured, e.g. an unknown time zone.
type Builder func(Settings) (Constructor, error)

const (
	Native   = "native"
	Calendar = "calendar"
)

// ErrUnknownHandler is returned by Lookup for names nobody registered.
var ErrUnknownHandler = errors.New("unknown date handler")

var (
	registryMu sync.RWMutex
	registry   = map[string]Builder{
		Native:   NewNative,
		Calendar: NewCalendar,
	}
)

// Register adds or replaces a named handler. Call it before the picker is
// composed; existing Constructors are not affected.
func Register(name string, b Builder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = b
}

// Lookup builds the Constructor registered under name.
func Lookup(name string, settings Settings) (Constructor, error) {
	registryMu.RLock()
	b, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownHandler, name, Names())
	}
	construct, err := b(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s date handler: %w", name, err)
	}
	return construct, nil
}

// Names returns the registered handler names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
