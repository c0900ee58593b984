package sightline

import (
	"fmt"
	"log/slog"
)

// FaultHandler receives source faults that the resolver swallowed.
type FaultHandler func(fault *SourceFault)

// ResolverOption configures a Resolver using the functional options pattern.
type ResolverOption func(*Resolver)

// WithFaultHandler sets the function called for each source fault.
// A nil handler discards faults.
func WithFaultHandler(h FaultHandler) ResolverOption {
	return func(r *Resolver) {
		r.onFault = h
	}
}

// WithLogger logs source faults to logger at debug level.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger == nil {
			r.onFault = nil
			return
		}
		r.onFault = logFaults(logger)
	}
}

// Resolver finds properties across an ordered SourceList.
// The first source holding a name wins. The source list is re-read on every
// call and nothing is cached, so changes to the list are visible immediately.
// Safe for concurrent use when the sources are safe for concurrent reads.
type Resolver struct {
	sources SourceList
	onFault FaultHandler
}

// NewResolver creates a Resolver over list. Faults are logged at debug level to
// slog.Default() unless another handler is configured.
func NewResolver(list SourceList, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		sources: list,
		onFault: logFaults(slog.Default()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Find resolves a raw name in any supported spelling.
// Malformed names are reported as absent.
func (r *Resolver) Find(raw string) (Property, bool) {
	name, _ := ParseName(raw, Lenient)
	return r.FindName(name)
}

// FindStrict is like Find but returns a *NameFormatError for malformed names.
func (r *Resolver) FindStrict(raw string) (Property, bool, error) {
	name, err := ParseName(raw, Strict)
	if err != nil {
		return Property{}, false, err
	}
	p, ok := r.FindName(name)
	return p, ok, nil
}

// FindName resolves an already parsed name.
func (r *Resolver) FindName(name Name) (Property, bool) {
	if name.IsEmpty() || r.sources == nil {
		return Property{}, false
	}

	for _, src := range r.sources.Sources() {
		if src == nil {
			continue
		}
		res := r.lookup(src, name)
		switch res.Status {
		case StatusFound:
			return r.complete(src, name, res.Property), true
		case StatusFault:
			r.fault(src, name, res.Err)
		}
	}

	return Property{}, false
}

// Value returns only the value of Find.
func (r *Resolver) Value(raw string) (any, bool) {
	p, ok := r.Find(raw)
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// OriginOf returns the origin of the property Find would return.
// It is absent when nothing matches or the winning source reports no origin.
func (r *Resolver) OriginOf(raw string) (Origin, bool) {
	p, ok := r.Find(raw)
	if !ok || p.Origin == nil {
		return nil, false
	}
	return p.Origin, true
}

// lookup queries one source. Panics become faults so a single misbehaving
// source cannot abort the search.
func (r *Resolver) lookup(src Source, name Name) (res LookupResult) {
	defer func() {
		if v := recover(); v != nil {
			res = Fault(fmt.Errorf("panic: %v", v))
		}
	}()
	return src.Lookup(name)
}

// complete fills in what the winning source left out. A failing OriginOf
// is reported as a fault but the property keeps its precedence, with a nil
// Origin.
func (r *Resolver) complete(src Source, name Name, p Property) Property {
	if p.Name.IsEmpty() {
		p.Name = name
	}
	if p.Source == "" {
		p.Source = sourceName(src)
	}
	if p.Origin == nil && p.RawKey != "" {
		if ol, ok := src.(OriginLookup); ok {
			origin, err := originOf(ol, p.RawKey)
			if err != nil {
				r.fault(src, name, err)
			}
			p.Origin = origin
		}
	}
	return p
}

func originOf(ol OriginLookup, rawKey string) (origin Origin, err error) {
	defer func() {
		if v := recover(); v != nil {
			origin, err = nil, fmt.Errorf("origin of %q: panic: %v", rawKey, v)
		}
	}()
	if o, ok := ol.OriginOf(rawKey); ok {
		return o, nil
	}
	return nil, nil
}

func sourceName(src Source) (name string) {
	defer func() {
		if recover() != nil {
			name = "<unknown>"
		}
	}()
	return src.Name()
}

func (r *Resolver) fault(src Source, name Name, err error) {
	if r.onFault == nil {
		return
	}
	r.onFault(&SourceFault{Source: sourceName(src), Name: name, Err: err})
}

func logFaults(logger *slog.Logger) FaultHandler {
	return func(fault *SourceFault) {
		logger.Debug("property source lookup failed",
			slog.String("source", fault.Source),
			slog.String("name", fault.Name.String()),
			slog.Any("error", fault.Err),
		)
	}
}
