package sightline

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("sightline: snapshot exceeds 100MB size limit")

	// ErrNilSnapshot is returned when WriteSnapshot receives a nil snapshot.
	ErrNilSnapshot = errors.New("sightline: snapshot is nil")

	// ErrUnsupportedVersion is returned when reading a snapshot with unknown version.
	ErrUnsupportedVersion = errors.New("sightline: unsupported snapshot version")
)

// supportedVersions lists snapshot format versions that ReadSnapshot accepts.
var supportedVersions = map[string]bool{
	"1.0": true,
}

// PropertySnapshot is one resolved property inside a snapshot.
type PropertySnapshot struct {
	Name   string `json:"name"`
	Value  any    `json:"value"`
	Source string `json:"source"`
	Origin string `json:"origin,omitempty"`
}

// ConfigSnapshot is a point-in-time capture of every effective property.
type ConfigSnapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	// Properties are sorted by canonical name, secrets redacted.
	Properties []PropertySnapshot `json:"properties"`
}

// Get returns the snapshot entry for a canonical name.
func (s *ConfigSnapshot) Get(name string) (PropertySnapshot, bool) {
	parsed, _ := ParseName(name, Lenient)
	if parsed.IsEmpty() {
		return PropertySnapshot{}, false
	}
	canonical := parsed.String()
	for _, p := range s.Properties {
		if p.Name == canonical {
			return p, true
		}
	}
	return PropertySnapshot{}, false
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

// snapshotConfig holds internal configuration for snapshot creation.
type snapshotConfig struct {
	exclude []string // Names (and descendants) to leave out
	secrets []string // Names (and descendants) to redact
}

// WithExcludeNames leaves the given names and everything below them out of the snapshot.
func WithExcludeNames(names ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.exclude = append(cfg.exclude, names...)
	}
}

// WithSecretNames redacts the given names and everything below them.
func WithSecretNames(names ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.secrets = append(cfg.secrets, names...)
	}
}

// CreateSnapshot captures the effective properties of list.
// The snapshot's Timestamp is captured at creation time.
func CreateSnapshot(list SourceList, opts ...SnapshotOption) (*ConfigSnapshot, error) {
	if list == nil {
		return nil, ErrNilSources
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}

	timestamp := time.Now().UTC()
	exclude := parseNames(snapCfg.exclude)
	secrets := parseNames(snapCfg.secrets)

	props := EffectiveProperties(list)
	entries := make([]PropertySnapshot, 0, len(props))
	for _, p := range props {
		if matchesAny(p.Name, exclude) {
			continue
		}
		entry := PropertySnapshot{
			Name:   p.Name.String(),
			Value:  jsonValue(p, secrets),
			Source: p.Source,
		}
		if p.Origin != nil {
			entry.Origin = p.Origin.String()
		}
		entries = append(entries, entry)
	}

	return &ConfigSnapshot{
		Version:    SnapshotVersion,
		Timestamp:  timestamp,
		Properties: entries,
	}, nil
}

// ExpandPath expands template variables using current time.
// For consistency with snapshot metadata, prefer WriteSnapshot which
// uses the snapshot's internal timestamp for expansion.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime replaces all {{timestamp}} occurrences with t formatted as 20060102-150405.
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot to disk with atomic write semantics.
// Supports {{timestamp}} in path, expanded from snapshot.Timestamp.
// Returns the written path.
func WriteSnapshot(snapshot *ConfigSnapshot, pathTemplate string) (string, error) {
	if snapshot == nil {
		return "", ErrNilSnapshot
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if len(data) > MaxSnapshotSize {
		return "", ErrSnapshotTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	// Temp file lives next to the target so the rename stays on one filesystem.
	tempPath, err := generateTempFileName(targetPath)
	if err != nil {
		return "", err
	}

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", fmt.Errorf("rename snapshot: %w", err)
	}
	tempFileCreated = false

	return targetPath, nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*ConfigSnapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if info.Size() > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot ConfigSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if !supportedVersions[snapshot.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snapshot.Version)
	}
	return &snapshot, nil
}

// generateTempFileName returns targetPath + ".tmp." + 16 random hex chars.
func generateTempFileName(targetPath string) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return targetPath + ".tmp." + hex.EncodeToString(randomBytes), nil
}
