package assemble

import (
	"os"

	"github.com/BurntSushi/toml"

	apperrors "github.com/cxflow/cxflow/pkg/errors"
)

// Manifest is the TOML flow definition accepted by the CLI. Blocks reference
// each other by ID; transitions keep their declaration order.
//
// Example:
//
//	entry = "menu"
//
//	[[blocks]]
//	id = "menu"
//	type = "GetParticipantInput"
//	default = "goodbye"
//
//	  [[blocks.branches]]
//	  equals = "1"
//	  to = "sales"
//
//	  [[blocks.errors]]
//	  type = "InputTimeLimitExceeded"
//	  to = "goodbye"
type Manifest struct {
	Version string          `toml:"version"`
	Entry   string          `toml:"entry"`
	Blocks  []ManifestBlock `toml:"blocks"`
}

// ManifestBlock is one block entry in a flow manifest.
type ManifestBlock struct {
	ID         string           `toml:"id"`
	Type       string           `toml:"type"`
	Label      string           `toml:"label"`
	Next       string           `toml:"next"`    // sequential successor
	Default    string           `toml:"default"` // fallback when no branch matches
	Branches   []ManifestBranch `toml:"branches"`
	Errors     []ManifestError  `toml:"errors"`
	Intents    []ManifestIntent `toml:"intents"`
	Parameters map[string]any   `toml:"parameters"`
}

// ManifestBranch is a conditional branch on a compared value.
type ManifestBranch struct {
	Equals string `toml:"equals"`
	To     string `toml:"to"`
}

// ManifestError is an error-handler branch.
type ManifestError struct {
	Type string `toml:"type"`
	To   string `toml:"to"`
}

// ManifestIntent is an intent branch.
type ManifestIntent struct {
	Name string `toml:"name"`
	To   string `toml:"to"`
}

// LoadManifest reads and decodes a TOML flow manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read manifest %s", path)
	}
	return ParseManifest(data)
}

// ParseManifest decodes TOML manifest bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if len(m.Blocks) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "manifest declares no blocks")
	}
	for i := range m.Blocks {
		if m.Blocks[i].Type == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "block %d has no type", i)
		}
	}
	return &m, nil
}

// Flow converts the manifest into block descriptors plus the entry ID,
// ready for [Build]. Blocks without an ID receive a generated one; such
// blocks cannot be transition targets.
func (m *Manifest) Flow() ([]*Block, string, error) {
	blocks := make([]*Block, 0, len(m.Blocks))
	for _, mb := range m.Blocks {
		b := NewBlock(mb.Type)
		if mb.ID != "" {
			b.ID = mb.ID
		}
		b.Label = mb.Label
		if mb.Parameters != nil {
			b.Parameters = mb.Parameters
		}

		if mb.Next != "" {
			b.ThenID(mb.Next)
		}
		for _, br := range mb.Branches {
			b.WhenID(br.Equals, br.To)
		}
		if mb.Default != "" {
			b.OtherwiseID(mb.Default)
		}
		for _, e := range mb.Errors {
			b.OnErrorID(e.Type, e.To)
		}
		for _, in := range mb.Intents {
			b.OnIntentID(in.Name, in.To)
		}

		blocks = append(blocks, b)
	}
	return blocks, m.Entry, nil
}
