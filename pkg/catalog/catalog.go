// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catalog holds named, ready-made rewrite batches that rule files and the
// command line refer to as presets.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// 📚 Entry is one named batch
type Entry struct {
	Name        string
	Description string
	Batch       *rewrite.Batch
}

// 📚 Catalog is a registry of named batches
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// 🏭 New creates an empty catalog
func New() *Catalog {
	return &Catalog{entries: map[string]*Entry{}}
}

// 📝 Register adds a copy of batch named name. The batch is validated first and left as is.
func (c *Catalog) Register(name, description string, batch *rewrite.Batch) error {
	if name == "" {
		return errors.New("preset name is required")
	}
	if batch == nil {
		return errors.Errorf("preset %q: batch is nil", name)
	}
	if err := batch.Validate(); err != nil {
		return errors.Errorf("preset %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return errors.Errorf("preset %q: already registered", name)
	}
	c.entries[name] = &Entry{Name: name, Description: description, Batch: batch.Concat(name)}
	return nil
}

// 🔍 Get returns the batch registered under name
func (c *Catalog) Get(name string) (*rewrite.Batch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]
	if !ok {
		return nil, errors.Errorf("unknown preset %q (known: %s)", name, strings.Join(c.names(), ", "))
	}
	return e.Batch, nil
}

// Names returns the registered names, sorted
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names()
}

func (c *Catalog) names() []string {
	names := make([]string, 0, len(c.entries))
	for n := range c.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List returns every entry sorted by name
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.entries))
	for _, n := range c.names() {
		out = append(out, *c.entries[n])
	}
	return out
}

// 🔗 Combine concatenates the named batches, in the order given, into one batch
func (c *Catalog) Combine(name string, presets ...string) (*rewrite.Batch, error) {
	if len(presets) == 0 {
		return nil, &rewrite.RuleDefinitionError{Err: errors.New("no presets given")}
	}
	batches := make([]*rewrite.Batch, 0, len(presets))
	for _, p := range presets {
		b, err := c.Get(p)
		if err != nil {
			return nil, &rewrite.RuleDefinitionError{Err: err}
		}
		batches = append(batches, b)
	}
	return batches[0].Concat(name, batches[1:]...), nil
}
