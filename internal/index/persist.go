package index

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"paperwhisper/internal/domain"
)

// On-disk layout: a directory holding the vector payload, a parallel
// passage store in the same order, and a manifest tying them together.
const (
	manifestFile = "manifest.yaml"
	vectorsFile  = "vectors.bin"
	passagesFile = "passages.json"
)

// manifest records what the two data files must agree on. Count is
// validated against both on load.
type manifest struct {
	ID        string    `yaml:"id"`
	Model     string    `yaml:"model"`
	Dimension int       `yaml:"dimension"`
	Count     int       `yaml:"count"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Save persists the index under dir, replacing any previous index
// there. The write is staged into a sibling directory and renamed into
// place, so a failed save never leaves a partial index behind.
func (ix *Index) Save(dir string) error {
	stage := dir + ".staging"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clearing stage dir: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("creating stage dir: %w", err)
	}
	m := manifest{
		ID:        uuid.NewString(),
		Model:     ix.model,
		Dimension: ix.dimension,
		Count:     len(ix.passages),
		CreatedAt: time.Now().UTC(),
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, vectorsFile), encodeVectors(ix.vectors, ix.dimension), 0o644); err != nil {
		return fmt.Errorf("writing vectors: %w", err)
	}
	passages, err := json.Marshal(ix.passages)
	if err != nil {
		return fmt.Errorf("encoding passages: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stage, passagesFile), passages, 0o644); err != nil {
		return fmt.Errorf("writing passages: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing previous index: %w", err)
	}
	if err := os.Rename(stage, dir); err != nil {
		return fmt.Errorf("activating index: %w", err)
	}
	return nil
}

// Load reads a persisted index from dir and validates it against the
// embedder that will serve queries. A missing directory is
// domain.ErrNotFound; unreadable or mutually inconsistent files are
// domain.ErrCorruptIndex.
func Load(dir string, embedder domain.Embedder) (*Index, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no index at %s", domain.ErrNotFound, dir)
		}
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading manifest: %v", domain.ErrCorruptIndex, err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decoding manifest: %v", domain.ErrCorruptIndex, err)
	}
	if m.Dimension <= 0 || m.Count <= 0 {
		return nil, fmt.Errorf("%w: manifest reports dimension %d, count %d", domain.ErrCorruptIndex, m.Dimension, m.Count)
	}
	if embedder.Model() != m.Model {
		return nil, fmt.Errorf("%w: index built with model %q, queried with %q", domain.ErrCorruptIndex, m.Model, embedder.Model())
	}
	raw, err := os.ReadFile(filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading vectors: %v", domain.ErrCorruptIndex, err)
	}
	vectors, err := decodeVectors(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptIndex, err)
	}
	if len(vectors) != m.Count || len(vectors[0]) != m.Dimension {
		return nil, fmt.Errorf("%w: vector store holds %d vectors, manifest says %d", domain.ErrCorruptIndex, len(vectors), m.Count)
	}
	pdata, err := os.ReadFile(filepath.Join(dir, passagesFile))
	if err != nil {
		return nil, fmt.Errorf("%w: reading passages: %v", domain.ErrCorruptIndex, err)
	}
	var passages []domain.Passage
	if err := json.Unmarshal(pdata, &passages); err != nil {
		return nil, fmt.Errorf("%w: decoding passages: %v", domain.ErrCorruptIndex, err)
	}
	if len(passages) != len(vectors) {
		return nil, fmt.Errorf("%w: %d passages for %d vectors", domain.ErrCorruptIndex, len(passages), len(vectors))
	}
	return &Index{
		passages:  passages,
		vectors:   vectors,
		dimension: m.Dimension,
		model:     m.Model,
	}, nil
}

// Exists reports whether a persisted index directory is present at dir.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

// encodeVectors frames all vectors as little-endian binary: an int32
// count and int32 dimension header, then the float32 payload row by
// row.
func encodeVectors(vectors [][]float32, dimension int) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, int32(len(vectors)))
	binary.Write(buf, binary.LittleEndian, int32(dimension))
	for _, v := range vectors {
		binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func decodeVectors(data []byte) ([][]float32, error) {
	buf := bytes.NewReader(data)
	var count, dimension int32
	if err := binary.Read(buf, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading vector count: %v", err)
	}
	if err := binary.Read(buf, binary.LittleEndian, &dimension); err != nil {
		return nil, fmt.Errorf("reading vector dimension: %v", err)
	}
	if count <= 0 || dimension <= 0 {
		return nil, fmt.Errorf("invalid vector header: count %d, dimension %d", count, dimension)
	}
	if int64(buf.Len()) != int64(count)*int64(dimension)*4 {
		return nil, fmt.Errorf("vector payload is %d bytes, expected %d", buf.Len(), int64(count)*int64(dimension)*4)
	}
	vectors := make([][]float32, count)
	for i := range vectors {
		v := make([]float32, dimension)
		if err := binary.Read(buf, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("reading vector %d: %v", i, err)
		}
		vectors[i] = v
	}
	return vectors, nil
}
