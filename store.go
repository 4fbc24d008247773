package vinyl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// Store loads previously extracted geometry for an identity. Load returns an
// error wrapping ErrMissingAsset when no record exists.
type Store interface {
	Load(id Identity) (*RenderData, error)
}

// record is the on-disk form of a RenderData. Vertices are flattened to
// x, y pairs; floats are stored at full precision so a record round-trips
// exactly.
type record struct {
	Category int       `cbor:"1,keyasint"`
	Index    int       `cbor:"2,keyasint"`
	Vertices []float64 `cbor:"3,keyasint"`
	Indices  []uint16  `cbor:"4,keyasint"`
	Alpha    []byte    `cbor:"5,keyasint"`
}

var (
	recordEncMode cbor.EncMode
	recordDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	recordEncMode = em
	dm, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	recordDecMode = dm
}

// MarshalRenderData encodes d as a deterministic CBOR record.
func MarshalRenderData(d *RenderData) ([]byte, error) {
	r := record{
		Category: int(d.ID.Category),
		Index:    d.ID.Index,
		Vertices: make([]float64, 0, 2*len(d.Vertices)),
		Indices:  d.Indices,
		Alpha:    d.Alpha,
	}
	for _, v := range d.Vertices {
		r.Vertices = append(r.Vertices, v.X, v.Y)
	}
	b, err := recordEncMode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("vinyl: encode %v: %w", d.ID, err)
	}
	return b, nil
}

// UnmarshalRenderData decodes a record written by MarshalRenderData and
// validates the geometry.
func UnmarshalRenderData(b []byte) (*RenderData, error) {
	var r record
	if err := recordDecMode.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("vinyl: decode record: %w", err)
	}
	if len(r.Vertices)%2 != 0 {
		return nil, fmt.Errorf("%w: odd vertex coordinate count %d", ErrInvalidRenderData, len(r.Vertices))
	}
	d := &RenderData{
		ID:       Identity{Category: Category(r.Category), Index: r.Index},
		Vertices: make([]Vec2, len(r.Vertices)/2),
		Indices:  r.Indices,
		Alpha:    r.Alpha,
	}
	for i := range d.Vertices {
		d.Vertices[i] = Vec2{r.Vertices[2*i], r.Vertices[2*i+1]}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// DirStore keeps one record file per identity at <Root>/<DirName>/<Index>.
type DirStore struct {
	Root string
}

// Path returns the record file path for id.
func (s DirStore) Path(id Identity) string {
	return filepath.Join(s.Root, id.Category.DirName(), strconv.Itoa(id.Index))
}

// Load implements Store.
func (s DirStore) Load(id Identity) (*RenderData, error) {
	p := s.Path(id)
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v: no record at %s", ErrMissingAsset, id, p)
	}
	if err != nil {
		return nil, fmt.Errorf("vinyl: load %v: %w", id, err)
	}
	d, err := UnmarshalRenderData(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if d.ID != id {
		return nil, fmt.Errorf("%w: %s holds %v, want %v", ErrInvalidRenderData, p, d.ID, id)
	}
	return d, nil
}

// Save writes d to its record file, creating the category directory.
func (s DirStore) Save(d *RenderData) error {
	b, err := MarshalRenderData(d)
	if err != nil {
		return err
	}
	p := s.Path(d.ID)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("vinyl: save %v: %w", d.ID, err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("vinyl: save %v: %w", d.ID, err)
	}
	return nil
}
