// Package store provides ranged.Store implementations persisting the durable state
// of weapon instances.
//
// Snapshots are encoded as little-endian NBT, the encoding Dragonfly uses for
// item and world data. Projectile kinds are stored by name, so kind ids may change
// between restarts. Kinds that are no longer registered are dropped on load.
package store

import (
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"

	"github.com/oriumgames/ranged"
)

// version is the current snapshot encoding version.
const version = 1

const (
	flagCharged = 1 << iota
	flagFired
)

type snapshotData struct {
	Version     uint8            `nbt:"version"`
	Flags       uint8            `nbt:"flags"`
	Projectiles []projectileData `nbt:"projectiles"`
}

type projectileData struct {
	Kind string `nbt:"kind"`
	Tag  string `nbt:"tag"`
}

// Encode encodes a snapshot.
func Encode(s ranged.Snapshot) ([]byte, error) {
	d := snapshotData{
		Version:     version,
		Projectiles: make([]projectileData, 0, len(s.Projectiles)),
	}
	if s.Charged {
		d.Flags |= flagCharged
	}
	if s.Fired {
		d.Flags |= flagFired
	}
	for _, p := range s.Projectiles {
		d.Projectiles = append(d.Projectiles, projectileData{Kind: p.Kind.Name(), Tag: p.Tag})
	}
	b, err := nbt.MarshalEncoding(d, nbt.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode decodes a snapshot encoded with Encode.
func Decode(b []byte) (ranged.Snapshot, error) {
	var d snapshotData
	if err := nbt.UnmarshalEncoding(b, &d, nbt.LittleEndian); err != nil {
		return ranged.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if d.Version == 0 || d.Version > version {
		return ranged.Snapshot{}, fmt.Errorf("decode snapshot: unsupported version %d", d.Version)
	}
	s := ranged.Snapshot{
		Charged: d.Flags&flagCharged != 0,
		Fired:   d.Flags&flagFired != 0,
	}
	for _, p := range d.Projectiles {
		k, ok := ranged.KindByName(p.Kind)
		if !ok {
			continue
		}
		s.Projectiles = append(s.Projectiles, ranged.Projectile{Kind: k, Tag: p.Tag})
	}
	return s, nil
}
