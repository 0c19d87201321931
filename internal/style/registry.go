// Package style maintains the registry of named connector styles.
package style

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ydayan/ftd/internal/types"
)

// ErrUnknownStyle indicates a lookup for a style name that was never registered.
var ErrUnknownStyle = errors.New("unknown style name")

// errorUnknownStyleFormat wraps ErrUnknownStyle with the offending name.
const errorUnknownStyleFormat = "%w: %s"

// Registry maps style names to connector glyph sets. The intended
// lifecycle is build-then-read: construct it at process start, register
// any additional styles before the first render, then treat it as
// read-only. The internal lock keeps concurrent registration safe, but
// callers should not rely on registering mid-render.
type Registry struct {
	mutex  sync.RWMutex
	styles map[string]types.ConnectorStyle
}

// NewRegistry returns a registry populated with the built-in styles.
func NewRegistry() *Registry {
	registry := &Registry{styles: make(map[string]types.ConnectorStyle)}
	registry.Register(types.StyleClassic, types.ConnectorStyle{Branch: "├── ", End: "└── ", Space: " ", Vertical: "│"})
	registry.Register(types.StyleDash, types.ConnectorStyle{Branch: "|-- ", End: "`-- ", Space: " ", Vertical: "|"})
	registry.Register(types.StyleArrow, types.ConnectorStyle{Branch: "→ ", End: "↳ ", Space: " ", Vertical: "│"})
	registry.Register(types.StylePlus, types.ConnectorStyle{Branch: "+-- ", End: "+== ", Space: " ", Vertical: "|"})
	return registry
}

// Register stores the style under styleName, replacing any previous
// registration. Registered styles persist for the process lifetime and
// are visible to every subsequent render.
func (registry *Registry) Register(styleName string, connectorStyle types.ConnectorStyle) {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	registry.styles[styleName] = connectorStyle
}

// Get returns the style registered under styleName. An unknown name is a
// configuration error surfaced at lookup time, before any traversal.
func (registry *Registry) Get(styleName string) (types.ConnectorStyle, error) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	connectorStyle, registered := registry.styles[styleName]
	if !registered {
		return types.ConnectorStyle{}, fmt.Errorf(errorUnknownStyleFormat, ErrUnknownStyle, styleName)
	}
	return connectorStyle, nil
}

// Names returns every registered style name in sorted order.
func (registry *Registry) Names() []string {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()
	names := make([]string, 0, len(registry.styles))
	for styleName := range registry.styles {
		names = append(names, styleName)
	}
	sort.Strings(names)
	return names
}
