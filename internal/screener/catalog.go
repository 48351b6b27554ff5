package screener

import (
	_ "embed"
	"io"
	"os"

	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset is a named, ordered predicate list.
type Preset struct {
	Name        string       `yaml:"name" json:"name" validate:"required"`
	Label       string       `yaml:"label" json:"label"`
	Description string       `yaml:"description" json:"description"`
	Predicates  []Descriptor `yaml:"predicates" json:"predicates" validate:"required,min=1,dive"`
}

// Catalog is the preset table in declaration order.
type Catalog struct {
	Presets []Preset `yaml:"presets" json:"presets" validate:"dive"`
}

// DefaultCatalog returns the built-in presets.
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(defaultPresets)
	if err != nil {
		panic(err)
	}

	return catalog
}

// LoadCatalog reads a catalog from a YAML stream.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read preset catalog", err)
	}

	return ParseCatalog(data)
}

// LoadCatalogFile reads a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read preset catalog %s", path)
	}

	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse preset catalog", err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

func (c *Catalog) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid preset catalog", err)
	}

	names := lo.Map(c.Presets, func(p Preset, _ int) string { return p.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "duplicate preset %q", dup[0])
	}

	return nil
}

// Names lists preset names in catalog order.
func (c *Catalog) Names() []string {
	return lo.Map(c.Presets, func(p Preset, _ int) string { return p.Name })
}

// Get returns a preset by name.
func (c *Catalog) Get(name string) (Preset, error) {
	preset, ok := lo.Find(c.Presets, func(p Preset) bool { return p.Name == name })
	if !ok {
		return Preset{}, errors.Newf(errors.ErrCodePresetNotFound, "preset %q not found", name)
	}

	return preset, nil
}

// Compile returns the compiled predicates of a preset.
func (p Preset) Compile() ([]Predicate, error) {
	predicates, err := CompileAll(p.Predicates)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidPredicate, err, "preset %s", p.Name)
	}

	return predicates, nil
}
