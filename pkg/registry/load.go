package registry

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileSpec struct {
	Nodes  []nodeSpec  `toml:"node"`
	Graphs []graphSpec `toml:"graph"`
}

type nodeSpec struct {
	ID     string     `toml:"id"`
	Name   string     `toml:"name"`
	Unique bool       `toml:"unique"`
	Ports  []portSpec `toml:"port"`
}

type portSpec struct {
	Name       string `toml:"name"`
	Direction  string `toml:"direction"`
	Type       string `toml:"type"`
	Connection string `toml:"connection"`
}

type graphSpec struct {
	Kind     string   `toml:"kind"`
	Required []string `toml:"required"`
}

// Load decodes a TOML registry from r. Node types are registered before graph
// kinds, so a graph may require a type declared later in the file.
// Unknown keys are rejected to catch typos early.
func Load(r io.Reader) (*Registry, error) {
	var spec fileSpec
	md, err := toml.NewDecoder(r).Decode(&spec)
	if err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode registry: unknown keys: %s", strings.Join(keys, ", "))
	}

	reg := New()
	for _, n := range spec.Nodes {
		t := NodeType{ID: TypeID(n.ID), Name: n.Name, Unique: n.Unique}
		for _, p := range n.Ports {
			dir, err := ParseDirection(p.Direction)
			if err != nil {
				return nil, fmt.Errorf("node %s port %s: %w", n.ID, p.Name, err)
			}
			conn, err := ParseConnectionType(p.Connection)
			if err != nil {
				return nil, fmt.Errorf("node %s port %s: %w", n.ID, p.Name, err)
			}
			t.Ports = append(t.Ports, PortSpec{
				Name:       p.Name,
				Direction:  dir,
				ValueType:  p.Type,
				Connection: conn,
			})
		}
		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("register node: %w", err)
		}
	}
	for _, g := range spec.Graphs {
		gt := GraphType{Kind: Kind(g.Kind)}
		for _, id := range g.Required {
			gt.Required = append(gt.Required, TypeID(id))
		}
		if err := reg.RegisterGraph(gt); err != nil {
			return nil, fmt.Errorf("register graph: %w", err)
		}
	}
	return reg, nil
}

// LoadFile reads a TOML registry from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
