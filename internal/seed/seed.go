// Package seed loads demo records from a YAML file into the stores at
// startup.
package seed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/alfagnish/exchange-api/internal/models"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// File is the layout of a seed file. Each entry uses the same field names
// as the JSON create payload of its resource.
type File struct {
	Persons      []map[string]any `yaml:"persons"`
	Addresses    []map[string]any `yaml:"addresses"`
	Conversions  []map[string]any `yaml:"conversions"`
	Destinations []map[string]any `yaml:"destinations"`
}

// Counts reports how many records of each resource were loaded.
type Counts struct {
	Persons      int
	Addresses    int
	Conversions  int
	Destinations int
}

// Total is the number of records loaded across all resources.
func (c Counts) Total() int {
	return c.Persons + c.Addresses + c.Conversions + c.Destinations
}

// LoadFile reads path and loads it into stores.
func LoadFile(path string, stores *store.Set, v *validation.Validator) (Counts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Counts{}, fmt.Errorf("reading seed file: %w", err)
	}
	return Load(data, stores, v, time.Now().UTC())
}

// Load decodes YAML seed data and creates every entry, validating each one
// exactly like a create request. Loading stops at the first invalid entry;
// entries before it stay loaded.
func Load(data []byte, stores *store.Set, v *validation.Validator, now time.Time) (Counts, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Counts{}, fmt.Errorf("parsing seed file: %w", err)
	}

	var (
		c   Counts
		err error
	)
	if c.Persons, err = load(f.Persons, "persons", v, func(in models.PersonInput) error {
		p := models.NewPerson(uuid.New(), in, now)
		return stores.Persons.Create(p.ID, p)
	}); err != nil {
		return c, err
	}
	if c.Addresses, err = load(f.Addresses, "addresses", v, func(in models.AddressInput) error {
		a := models.NewAddress(uuid.New(), in, now)
		return stores.Addresses.Create(a.ID, a)
	}); err != nil {
		return c, err
	}
	if c.Conversions, err = load(f.Conversions, "conversions", v, func(in models.ConversionInput) error {
		conv := models.NewConversion(uuid.New(), in, now)
		return stores.Conversions.Create(conv.ID, conv)
	}); err != nil {
		return c, err
	}
	if c.Destinations, err = load(f.Destinations, "destinations", v, func(in models.DestinationInput) error {
		d := models.NewDestination(uuid.New(), in, now)
		return stores.Destinations.Create(d.ID, d)
	}); err != nil {
		return c, err
	}
	return c, nil
}

func load[In any](entries []map[string]any, name string, v *validation.Validator, create func(In) error) (int, error) {
	for i, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			return i, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		var in In
		if err := validation.DecodeJSON(bytes.NewReader(raw), &in); err != nil {
			return i, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		if err := v.Struct(&in); err != nil {
			return i, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		if err := create(in); err != nil {
			return i, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return len(entries), nil
}
