package archetype

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rocketscienceinc/minigames-backend/internal/apperror"
	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

//go:embed archetypes.yml
var defaultCatalog []byte

type file struct {
	Archetypes []entity.Archetype `yaml:"archetypes"`
}

// Catalog is a read-only set of archetypes keyed by tag.
type Catalog struct {
	byTag map[string]*entity.Archetype
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Errorf("embedded archetype catalog is broken: %w", err))
	}

	return catalog
}

func Parse(data []byte) (*Catalog, error) {
	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal archetypes: %w", err)
	}

	catalog := &Catalog{byTag: make(map[string]*entity.Archetype, len(parsed.Archetypes))}
	if err := catalog.add(parsed.Archetypes); err != nil {
		return nil, err
	}

	return catalog, nil
}

// Load reads a YAML file and merges it over the default catalog; an empty path yields the default.
func Load(path string) (*Catalog, error) {
	catalog := Default()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archetypes file: %w", err)
	}

	var parsed file
	if err = yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal archetypes: %w", err)
	}

	if err = catalog.add(parsed.Archetypes); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (that *Catalog) add(archetypes []entity.Archetype) error {
	for i := range archetypes {
		archetype := archetypes[i]
		if err := archetype.Validate(); err != nil {
			return fmt.Errorf("failed to add archetype: %w", err)
		}

		that.byTag[archetype.Tag] = &archetype
	}

	return nil
}

func (that *Catalog) Lookup(tag string) (*entity.Archetype, error) {
	archetype, ok := that.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownArchetype, tag)
	}

	return archetype, nil
}

// LookupRole is Lookup restricted to one role.
func (that *Catalog) LookupRole(tag string, role entity.Role) (*entity.Archetype, error) {
	archetype, err := that.Lookup(tag)
	if err != nil {
		return nil, err
	}

	if archetype.Role != role {
		return nil, fmt.Errorf("%w: %q is not a %s archetype", apperror.ErrUnknownArchetype, tag, role)
	}

	return archetype, nil
}

// Tags returns the sorted tags of one role.
func (that *Catalog) Tags(role entity.Role) []string {
	tags := make([]string, 0, len(that.byTag))
	for tag, archetype := range that.byTag {
		if archetype.Role == role {
			tags = append(tags, tag)
		}
	}

	sort.Strings(tags)

	return tags
}
