package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog lists the world's fixed vocabulary: the factions tracked by the
// reputation ledger and the audio cues the front-end knows how to play.
type Catalog struct {
	Factions      []string `yaml:"factions"`
	SoundEffects  []string `yaml:"sound_effects"`
	AmbientTracks []string `yaml:"ambient_tracks"`
	ImageStyle    string   `yaml:"image_style"`
}

var ErrEmptyCatalog = errors.New("catalog lists no factions")

func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Factions) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &c, nil
}

func (c *Catalog) KnownSound(name string) bool {
	return c != nil && slices.Contains(c.SoundEffects, name)
}

func (c *Catalog) KnownAmbient(name string) bool {
	return c != nil && slices.Contains(c.AmbientTracks, name)
}
