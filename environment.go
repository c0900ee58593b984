package sightline

import "sync"

// Environment owns an ordered list of sources. Earlier sources take precedence.
// Sources are identified by Name(); adding a source whose name is already
// present moves it to the new position.
// Thread-safe.
type Environment struct {
	mu      sync.RWMutex
	sources []Source
}

// NewEnvironment creates an Environment with sources in precedence order.
func NewEnvironment(sources ...Source) *Environment {
	env := &Environment{}
	for _, src := range sources {
		env.AddLast(src)
	}
	return env
}

// Sources returns a copy of the current sequence.
func (e *Environment) Sources() []Source {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Source, len(e.sources))
	copy(out, e.sources)
	return out
}

// Len returns the number of sources.
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sources)
}

// Get returns the source with the given name.
func (e *Environment) Get(name string) (Source, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(name); i >= 0 {
		return e.sources[i], true
	}
	return nil, false
}

// AddFirst adds src with the highest precedence.
func (e *Environment) AddFirst(src Source) {
	if src == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.removeLocked(src.Name())
	e.insertLocked(0, src)
}

// AddLast adds src with the lowest precedence.
func (e *Environment) AddLast(src Source) {
	if src == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.removeLocked(src.Name())
	e.sources = append(e.sources, src)
}

// AddBefore adds src just ahead of the source named relative.
// It reports false, leaving the list unchanged, when relative is absent.
func (e *Environment) AddBefore(relative string, src Source) bool {
	return e.addRelative(relative, src, 0)
}

// AddAfter adds src just behind the source named relative.
// It reports false, leaving the list unchanged, when relative is absent.
func (e *Environment) AddAfter(relative string, src Source) bool {
	return e.addRelative(relative, src, 1)
}

func (e *Environment) addRelative(relative string, src Source, offset int) bool {
	if src == nil || src.Name() == relative {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(relative) < 0 {
		return false
	}
	e.removeLocked(src.Name())
	e.insertLocked(e.indexOf(relative)+offset, src)
	return true
}

// Replace swaps the source named name for src, keeping its position.
func (e *Environment) Replace(name string, src Source) bool {
	if src == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(name)
	if i < 0 {
		return false
	}
	if src.Name() != name {
		e.removeLocked(src.Name())
		i = e.indexOf(name)
	}
	e.sources[i] = src
	return true
}

// Remove deletes the source named name.
func (e *Environment) Remove(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(name)
}

// Resolver returns a Resolver that reads this environment on every call.
func (e *Environment) Resolver(opts ...ResolverOption) *Resolver {
	return NewResolver(e, opts...)
}

func (e *Environment) indexOf(name string) int {
	for i, src := range e.sources {
		if src.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Environment) removeLocked(name string) bool {
	i := e.indexOf(name)
	if i < 0 {
		return false
	}
	e.sources = append(e.sources[:i], e.sources[i+1:]...)
	return true
}

func (e *Environment) insertLocked(i int, src Source) {
	e.sources = append(e.sources, nil)
	copy(e.sources[i+1:], e.sources[i:])
	e.sources[i] = src
}
