package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oriumgames/ranged"
)

// KindDef defines a projectile kind loaded from YAML.
type KindDef struct {
	Name        string `yaml:"name"`
	Item        string `yaml:"item"`
	MultiEffect bool   `yaml:"multi_effect"`
}

// Validate checks that the KindDef satisfies its invariants.
func (k *KindDef) Validate() error {
	if k.Name == "" {
		return errors.New("kind name must not be empty")
	}
	return nil
}

// WeaponDef defines a weapon archetype loaded from YAML.
type WeaponDef struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
	Item    string `yaml:"item"`

	Capacity int `yaml:"capacity"` // 0 = 1
	Interval int `yaml:"interval"`
	Cooldown int `yaml:"cooldown"`

	MaxProjectileSpeed   float64  `yaml:"max_projectile_speed"`
	MaxNonCriticalDamage float64  `yaml:"max_non_critical_damage"`
	MaxUseTicks          int      `yaml:"max_use_ticks"`
	MaxChargeTicks       int      `yaml:"max_charge_ticks"`
	FiringError          float64  `yaml:"firing_error"`
	DefaultProjectile    string   `yaml:"default_projectile"`
	Launchable           []string `yaml:"launchable"`
}

// Build creates the weapon archetype. The projectile kinds it names must be
// registered.
func (d *WeaponDef) Build() (*ranged.Weapon, error) {
	v, err := ranged.ParseVariant(d.Variant)
	if err != nil {
		return nil, fmt.Errorf("weapon %q: %w", d.Name, err)
	}

	var errs []error
	def, ok := ranged.KindByName(d.DefaultProjectile)
	if !ok {
		errs = append(errs, fmt.Errorf("unknown default projectile %q", d.DefaultProjectile))
	}
	var launchable ranged.KindSet
	for _, name := range d.Launchable {
		k, ok := ranged.KindByName(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown launchable projectile %q", name))
			continue
		}
		launchable.Add(k)
	}
	if len(d.Launchable) == 0 && ok {
		launchable.Add(def)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("weapon %q: %w", d.Name, errors.Join(errs...))
	}

	opts := []ranged.WeaponOption{
		ranged.WithInterval(d.Interval),
		ranged.WithCooldown(d.Cooldown),
		ranged.WithItemName(d.Item),
	}
	if d.Capacity != 0 {
		opts = append(opts, ranged.WithCapacity(d.Capacity))
	}
	return ranged.NewWeapon(d.Name, v, ranged.Parameters{
		MaxProjectileSpeed:   d.MaxProjectileSpeed,
		MaxNonCriticalDamage: d.MaxNonCriticalDamage,
		MaxUseTicks:          d.MaxUseTicks,
		MaxChargeTicks:       d.MaxChargeTicks,
		FiringError:          d.FiringError,
		DefaultProjectile:    def,
		Launchable:           launchable,
	}, opts...)
}

// Catalog is the content of one or more weapon definition files.
type Catalog struct {
	Kinds   []KindDef   `yaml:"kinds"`
	Weapons []WeaponDef `yaml:"weapons"`
}

// Register registers the catalog's projectile kinds and builds its weapons.
// Errors of all weapons are collected.
func (c *Catalog) Register() ([]*ranged.Weapon, error) {
	for i := range c.Kinds {
		k := &c.Kinds[i]
		var opts []ranged.KindOption
		if k.Item != "" {
			opts = append(opts, ranged.WithItem(k.Item))
		}
		if k.MultiEffect {
			opts = append(opts, ranged.MultiEffect())
		}
		ranged.RegisterKind(k.Name, opts...)
	}

	var (
		weapons []*ranged.Weapon
		errs    []error
	)
	for i := range c.Weapons {
		w, err := c.Weapons[i].Build()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		weapons = append(weapons, w)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return weapons, nil
}

// Bundle registers the catalog and returns a bundle holding its weapons.
func (c *Catalog) Bundle(name string) (*ranged.Bundle, error) {
	weapons, err := c.Register()
	if err != nil {
		return nil, err
	}
	b := ranged.NewBundle(name)
	for _, w := range weapons {
		b.Weapon(w)
	}
	return b, nil
}

// LoadWeapons reads weapon definitions from path, which is either a YAML file or a
// directory whose *.yaml files are merged in name order.
func LoadWeapons(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return loadCatalogFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", path, err)
	}
	catalog := &Catalog{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		c, err := loadCatalogFile(filepath.Join(path, entry.Name()))
		if err != nil {
			return nil, err
		}
		catalog.Kinds = append(catalog.Kinds, c.Kinds...)
		catalog.Weapons = append(catalog.Weapons, c.Weapons...)
	}
	return catalog, nil
}

func loadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
	}
	for i := range c.Kinds {
		if err := c.Kinds[i].Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid kind in %q: %w", path, err)
		}
	}
	return &c, nil
}
