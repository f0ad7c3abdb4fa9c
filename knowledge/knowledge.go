// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package knowledge holds what has been learned about one analyzed artifact.
//
// A Base is a set of named plugins. Each plugin is built by its registered
// Factory on first request and the same instance is returned afterwards.
package knowledge

import (
	"fmt"
	"log/slog"

	"github.com/dacapoday/bbmap"
	"github.com/dacapoday/bbmap/blocks"
)

var (
	ErrNoPlugin   = bbmap.ErrNoPlugin
	ErrPluginType = bbmap.ErrPluginType
)

// BasicBlocksPlugin is the name of the basic-block map plugin.
const BasicBlocksPlugin = "basic_blocks"

// Factory builds a plugin for kb.
type Factory func(kb *Base) (any, error)

// Base is the knowledge about one artifact. Not thread-safe.
type Base struct {
	opt       any
	log       *slog.Logger
	plugins   map[string]any
	factories map[string]Factory
}

// New creates an empty Base. opt is handed to every store the Base builds;
// it may implement blocks.Logger and interval.CompactThreshold.
func New(opt any) *Base {
	kb := &Base{
		opt:       opt,
		log:       slog.Default(),
		plugins:   make(map[string]any),
		factories: make(map[string]Factory),
	}
	if o, ok := opt.(blocks.Logger); ok && o.Logger() != nil {
		kb.log = o.Logger()
	}
	kb.log = kb.log.With(slog.String("component", "knowledge"))
	return kb
}

// Option returns the option the Base was created with.
func (kb *Base) Option() any {
	return kb.opt
}

// Register sets the factory used to build the plugin name on first request.
func (kb *Base) Register(name string, factory Factory) {
	if _, ok := kb.factories[name]; ok {
		kb.log.Warn("replacing default plugin factory", slog.String("plugin", name))
	}
	kb.factories[name] = factory
}

// HasPlugin returns true if the plugin name has been built or registered directly.
func (kb *Base) HasPlugin(name string) bool {
	_, ok := kb.plugins[name]
	return ok
}

// Plugin returns the plugin name, building it with its factory on first request.
func (kb *Base) Plugin(name string) (any, error) {
	if plugin, ok := kb.plugins[name]; ok {
		return plugin, nil
	}
	factory, ok := kb.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPlugin, name)
	}
	plugin, err := factory(kb)
	if err != nil {
		return nil, fmt.Errorf("build plugin %s: %w", name, err)
	}
	kb.log.Debug("built plugin", slog.String("plugin", name))
	return kb.RegisterPlugin(name, plugin), nil
}

// RegisterPlugin installs plugin under name, replacing any existing instance.
func (kb *Base) RegisterPlugin(name string, plugin any) any {
	kb.plugins[name] = plugin
	return plugin
}

// ReleasePlugin drops the instance of name. A later Plugin call rebuilds it.
func (kb *Base) ReleasePlugin(name string) {
	delete(kb.plugins, name)
}

// Get returns the plugin name as a P.
func Get[P any](kb *Base, name string) (p P, err error) {
	plugin, err := kb.Plugin(name)
	if err != nil {
		return
	}
	p, ok := plugin.(P)
	if !ok {
		err = fmt.Errorf("%w: %s is %T, not %T", ErrPluginType, name, plugin, p)
	}
	return
}

// BasicBlocks returns the basic-block map of kb, creating it on first use.
// Every call with the same payload type returns the same map.
func BasicBlocks[T any](kb *Base) (*blocks.Map[T], error) {
	if _, ok := kb.factories[BasicBlocksPlugin]; !ok {
		kb.factories[BasicBlocksPlugin] = NewBasicBlocks[T]
	}
	return Get[*blocks.Map[T]](kb, BasicBlocksPlugin)
}

// NewBasicBlocks is the Factory of the basic-block map plugin.
func NewBasicBlocks[T any](kb *Base) (any, error) {
	m := new(blocks.Map[T])
	m.Load(kb.opt)
	return m, nil
}
