package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mosvani/blocktally/internal/bytesize"
	"github.com/mosvani/blocktally/pkg/block"
)

// seedFile is the on-disk layout of a seed file.
//
// Example:
//
//	blocks:
//	  - dataset: events
//	    partition: 0
//	    mem: 200Mi
//	    level: {memory: true, replication: 2}
//	  - name: scratch-0
//	    mem: 64Mi
type seedFile struct {
	Blocks []seedBlock `yaml:"blocks"`
}

// seedBlock describes one block. Either name is set (an opaque block) or
// dataset and partition are set (a dataset block), never both.
type seedBlock struct {
	Dataset   string    `yaml:"dataset,omitempty"`
	Partition *int      `yaml:"partition,omitempty"`
	Name      string    `yaml:"name,omitempty"`
	Mem       seedSize  `yaml:"mem,omitempty"`
	Disk      seedSize  `yaml:"disk,omitempty"`
	Level     seedLevel `yaml:"level,omitempty"`
}

// seedSize parses both bare numbers and human-readable sizes.
type seedSize struct {
	bytesize.ByteSize
}

func (s *seedSize) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := bytesize.Parse(value.Value)
	if err != nil {
		return err
	}
	s.ByteSize = parsed
	return nil
}

type seedLevel struct {
	Memory      bool `yaml:"memory"`
	Disk        bool `yaml:"disk"`
	OffHeap     bool `yaml:"offheap"`
	Replication int  `yaml:"replication"`
}

// LoadSeed reads a seed file into a block map suitable for engine
// construction. A missing level is inferred from the block's sizes with
// replication 1.
func LoadSeed(path string) (map[block.ID]block.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seed := make(map[block.ID]block.Record, len(file.Blocks))
	for i, sb := range file.Blocks {
		id, err := sb.blockID()
		if err != nil {
			return nil, fmt.Errorf("seed block %d: %w", i, err)
		}

		rec := block.Record{
			Level:    sb.storageLevel(),
			MemSize:  sb.Mem.Int64(),
			DiskSize: sb.Disk.Int64(),
		}
		if !rec.Level.IsValid() && !rec.IsZero() {
			return nil, fmt.Errorf("seed block %d (%s): invalid storage level %s", i, id, rec.Level)
		}

		seed[id] = rec
	}

	return seed, nil
}

func (sb seedBlock) blockID() (block.ID, error) {
	switch {
	case sb.Name != "" && (sb.Dataset != "" || sb.Partition != nil):
		return nil, fmt.Errorf("name and dataset/partition are mutually exclusive")
	case sb.Name != "":
		return block.OpaqueBlock{Name: sb.Name}, nil
	case sb.Dataset != "" && sb.Partition != nil:
		return block.DatasetBlock{Dataset: block.DatasetID(sb.Dataset), Partition: *sb.Partition}, nil
	default:
		return nil, fmt.Errorf("either name or both dataset and partition must be set")
	}
}

// storageLevel returns the declared level, or infers one from the sizes
// when the level stanza was omitted entirely.
func (sb seedBlock) storageLevel() block.StorageLevel {
	level := block.StorageLevel{
		UseMemory:   sb.Level.Memory,
		UseDisk:     sb.Level.Disk,
		UseOffHeap:  sb.Level.OffHeap,
		Replication: sb.Level.Replication,
	}
	if level != (block.StorageLevel{}) {
		return level
	}

	return block.StorageLevel{
		UseMemory:   sb.Mem.ByteSize > 0,
		UseDisk:     sb.Disk.ByteSize > 0,
		Replication: 1,
	}
}
