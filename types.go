package sightline

// Source is a single backing store of name/value pairs (environment,
// file, command line, in-memory map).
type Source interface {
	// Name returns a human-readable identifier (e.g., "env", "file:config.yaml").
	Name() string

	// Lookup returns the property stored under name. Internal problems should be
	// reported as Fault rather than panicking.
	Lookup(name Name) LookupResult
}

// OriginLookup is implemented by sources that can report where a raw key came from.
// The key is the source's own spelling (e.g., "SERVER_PORT"), not a canonical name.
type OriginLookup interface {
	OriginOf(rawKey string) (Origin, bool)
}

// IterableSource is implemented by sources that can enumerate their names.
type IterableSource interface {
	Source
	Names() []Name
}

// SourceList is an ordered view of sources. Earlier sources take precedence.
// Implementations must return the current sequence on every call.
type SourceList interface {
	Sources() []Source
}

// Sources is a fixed SourceList.
type Sources []Source

// Sources returns the slice itself.
func (s Sources) Sources() []Source {
	return s
}

// LookupStatus is the outcome of a single source lookup.
type LookupStatus uint8

const (
	StatusAbsent LookupStatus = iota
	StatusFound
	StatusFault
)

func (s LookupStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusFault:
		return "fault"
	default:
		return "absent"
	}
}

// LookupResult is what a Source returns from Lookup.
type LookupResult struct {
	Status   LookupStatus
	Property Property // Set when Status is StatusFound
	Err      error    // Set when Status is StatusFault
}

// Found wraps a property hit.
func Found(p Property) LookupResult {
	return LookupResult{Status: StatusFound, Property: p}
}

// Absent reports that the source has no value for the name.
func Absent() LookupResult {
	return LookupResult{Status: StatusAbsent}
}

// Fault reports an internal source failure.
func Fault(err error) LookupResult {
	return LookupResult{Status: StatusFault, Err: err}
}

// IsFound reports whether the lookup produced a property.
func (r LookupResult) IsFound() bool {
	return r.Status == StatusFound
}

// IsFault reports whether the lookup failed.
func (r LookupResult) IsFault() bool {
	return r.Status == StatusFault
}
