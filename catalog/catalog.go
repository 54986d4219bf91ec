// Package catalog provides in-memory prompt and identifier lookups loaded
// from JSON files. Both types are read-only after construction.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// ErrUnknown is returned for identifiers missing from a catalog.
var ErrUnknown = errors.New("catalog: unknown id")

// Prompts maps image identifiers to their generation prompts.
type Prompts struct {
	byID map[string]string
}

// NewPrompts copies m into a Prompts catalog.
func NewPrompts(m map[string]string) *Prompts {
	byID := make(map[string]string, len(m))
	for id, prompt := range m {
		byID[id] = prompt
	}
	return &Prompts{byID: byID}
}

// LoadPrompts reads a prompts file, see DecodePrompts.
func LoadPrompts(filename string) (*Prompts, error) {
	m, err := readObject(filename, "prompts")
	if err != nil {
		return nil, err
	}
	return &Prompts{byID: m}, nil
}

// DecodePrompts reads {"<id>": "<prompt>", ...}, optionally wrapped as
// {"prompts": {...}}.
func DecodePrompts(r io.Reader) (*Prompts, error) {
	m, err := decodeObject(r, "prompts")
	if err != nil {
		return nil, err
	}
	return &Prompts{byID: m}, nil
}

// Prompt returns the prompt of id.
func (p *Prompts) Prompt(_ context.Context, id string) (string, error) {
	prompt, ok := p.byID[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, id)
	}
	return prompt, nil
}

// Exists reports whether id has a prompt.
func (p *Prompts) Exists(_ context.Context, id string) bool {
	_, ok := p.byID[id]
	return ok
}

// Len returns the number of prompts.
func (p *Prompts) Len() int { return len(p.byID) }

// IDMap resolves external references such as file names to identifiers.
type IDMap struct {
	byRef map[string]string
}

// NewIDMap copies ref -> id pairs into an IDMap. Every ref is also indexed
// by its base name with and without extension, unless that key is taken;
// refs sharing a base name resolve to the lexically first one.
func NewIDMap(m map[string]string) *IDMap {
	byRef := make(map[string]string, len(m)*2)
	for ref, id := range m {
		byRef[ref] = id
	}
	for _, ref := range slices.Sorted(maps.Keys(m)) {
		id := m[ref]
		base := path.Base(ref)
		for _, key := range []string{base, strings.TrimSuffix(base, path.Ext(base))} {
			if _, taken := byRef[key]; !taken {
				byRef[key] = id
			}
		}
	}
	return &IDMap{byRef: byRef}
}

// LoadIDMap reads {"<ref>": "<id>", ...}, optionally wrapped as
// {"ids": {...}}.
func LoadIDMap(filename string) (*IDMap, error) {
	m, err := readObject(filename, "ids")
	if err != nil {
		return nil, err
	}
	return NewIDMap(m), nil
}

// Resolve maps ref to an identifier, trying the exact ref and then its base
// name.
func (m *IDMap) Resolve(ref string) (string, bool) {
	if id, ok := m.byRef[ref]; ok {
		return id, true
	}
	base := path.Base(ref)
	if id, ok := m.byRef[base]; ok {
		return id, true
	}
	id, ok := m.byRef[strings.TrimSuffix(base, path.Ext(base))]
	return id, ok
}

func readObject(filename, envelope string) (map[string]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()
	m, err := decodeObject(f, envelope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

func decodeObject(r io.Reader, envelope string) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if inner, ok := top[envelope]; ok && bytes.HasPrefix(bytes.TrimSpace(inner), []byte("{")) {
		data = inner
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}
