// Package registry keeps the set of playable game variants. Variants
// register themselves from init() functions so the platform can list and
// start them without importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-suika/internal/core"
)

// Game is what the platform drives each tick.
// Implementations hold pure game logic and never touch the terminal: the
// platform maps input, keeps time and paints the screen.
type Game interface {
	// ID is the stable identifier used by the CLI and the score store.
	ID() string

	// Title is the display name.
	Title() string

	// Reset starts a fresh session. Called before the first Step and on
	// every restart.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws into dst. The screen is sized by the platform.
	Render(dst *core.Screen)

	// State returns score, game over and pause flags.
	State() core.GameState
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new, not yet reset, game instance.
type Factory func() Game

// Registry maps game IDs to factories. The zero value is not usable; use
// NewRegistry.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	titles    map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		titles:    make(map[string]string),
	}
}

// Register adds a factory. It panics on a duplicate ID, which can only
// come from a programming error in an init() function.
func (r *Registry) Register(id string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	r.factories[id] = f
	r.titles[id] = f().Title()
}

// List returns all variants sorted by ID.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GameInfo, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, GameInfo{ID: id, Title: r.titles[id]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create instantiates a variant by ID.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// Default is the process-wide registry that games register into.
var Default = NewRegistry()

// Register adds a factory to the default registry.
func Register(id string, f Factory) { Default.Register(id, f) }

// List returns the variants in the default registry.
func List() []GameInfo { return Default.List() }

// Create instantiates a variant from the default registry.
func Create(id string) (Game, error) { return Default.Create(id) }

// Exists reports whether id is in the default registry.
func Exists(id string) bool { return Default.Exists(id) }
