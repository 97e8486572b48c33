package identify

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ID is the signature of a disc: the volume name and ids from its label plus the totals of a full walk. Name is only
// set on table entries.
type ID struct {
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	VolumeID         string `json:"volume_id" yaml:"volume_id"`
	VolumeUniqueID   uint32 `json:"volume_unique_id" yaml:"volume_unique_id"`
	VolumeBlockCount uint32 `json:"volume_block_count" yaml:"volume_block_count"`
	RootUniqueID     uint32 `json:"root_unique_id" yaml:"root_unique_id"`
	FileCount        uint32 `json:"file_count" yaml:"file_count"`
	TotalDataSize    uint64 `json:"total_data_size" yaml:"total_data_size"`
}

// Equal reports whether every field but the name matches.
func (id ID) Equal(other ID) bool {
	return id.MatchingFields(other) == signatureFields
}

const signatureFields = 6

// MatchingFields returns how many of the six signature fields are equal.
func (id ID) MatchingFields(other ID) int {
	n := 0
	for _, eq := range []bool{
		id.VolumeID == other.VolumeID,
		id.VolumeUniqueID == other.VolumeUniqueID,
		id.VolumeBlockCount == other.VolumeBlockCount,
		id.RootUniqueID == other.RootUniqueID,
		id.FileCount == other.FileCount,
		id.TotalDataSize == other.TotalDataSize,
	} {
		if eq {
			n++
		}
	}
	return n
}

// Signatures is the read side of a signature table.
type Signatures interface {
	Len() int
	At(i int) ID
	// FindNext returns the index of the first entry after index after that equals id, or -1.
	FindNext(id ID, after int) int
}

// Table is an ordered, immutable list of known disc signatures.
type Table struct {
	ids []ID
}

var _ Signatures = (*Table)(nil)

type tableFile struct {
	Discs []ID `yaml:"discs"`
}

// NewTable returns a table holding a copy of ids.
func NewTable(ids []ID) *Table {
	return &Table{ids: append([]ID(nil), ids...)}
}

// LoadTable parses a YAML document with a top level "discs" list.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse signature table: %w", err)
	}
	for i, id := range f.Discs {
		if id.Name == "" {
			return nil, fmt.Errorf("signature table entry %d has no name", i)
		}
	}
	return &Table{ids: f.Discs}, nil
}

// LoadTableFile reads a signature table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signature table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

func (t *Table) Len() int {
	return len(t.ids)
}

func (t *Table) At(i int) ID {
	return t.ids[i]
}

func (t *Table) FindNext(id ID, after int) int {
	for i := max(after+1, 0); i < len(t.ids); i++ {
		if t.ids[i].Equal(id) {
			return i
		}
	}
	return -1
}
