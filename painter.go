package vinyl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// The painter format is the JSON layout exchanged with the external painter
// tool. Records are listed bottom to top. The tool's parser is strict about
// layout, so export writes a fixed template instead of using a serializer.

const (
	painterHeader = "{\"shapes\":\n["
	painterFooter = "]}"

	// painterDataLen is the number of values in a record's data array:
	// x, -y, scaleX, scaleY, -angle, -skew, mask.
	painterDataLen = 7
)

// painterDocument is the import side of the format. Records stay raw so one
// bad record does not fail the whole document.
type painterDocument struct {
	Shapes []json.RawMessage `json:"shapes"`
}

type painterShape struct {
	Type  *int      `json:"type"`
	Data  []float64 `json:"data"`
	Color []int     `json:"color"`
}

// ExportPainter writes l in painter format, bottom shape first. Nothing is
// written if a shape cannot be encoded.
func ExportPainter(w io.Writer, l *Layout) error {
	recs := make([]string, 0, len(l.shapes))
	for i := len(l.shapes) - 1; i >= 0; i-- {
		rec, err := painterRecord(l.shapes[i])
		if err != nil {
			return fmt.Errorf("vinyl: export shape %d: %w", i, err)
		}
		recs = append(recs, rec)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(painterHeader)
	for i, rec := range recs {
		bw.WriteString(rec)
		if i == len(recs)-1 {
			bw.WriteString("\n")
		} else {
			bw.WriteString(",\n")
		}
	}
	bw.WriteString(painterFooter)
	return bw.Flush()
}

// MarshalPainter returns l in painter format.
func MarshalPainter(l *Layout) ([]byte, error) {
	var sb strings.Builder
	if err := ExportPainter(&sb, l); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func painterRecord(s *Shape) (string, error) {
	mask := 0
	if s.mask {
		mask = 1
	}
	vals := [painterDataLen - 1]float64{s.x, -s.y, s.scaleX, s.scaleY, -s.angle, -s.skew}
	var sb strings.Builder
	sb.WriteString(`{"type":`)
	sb.WriteString(strconv.Itoa(s.data.ID.Flatten()))
	sb.WriteString(`, "data":[`)
	for _, v := range vals {
		f, err := formatPainterFloat(v)
		if err != nil {
			return "", err
		}
		sb.WriteString(f)
		sb.WriteByte(',')
	}
	sb.WriteString(strconv.Itoa(mask))
	c := s.color
	fmt.Fprintf(&sb, `],"color":[%d,%d,%d,%d],"score":0.0}`, c.R, c.G, c.B, c.A)
	return sb.String(), nil
}

// formatPainterFloat formats v as the shortest decimal that reads back as
// the same float32, without an exponent. Negative zero prints as 0.
func formatPainterFloat(v float64) (string, error) {
	f := float32(v)
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return "", fmt.Errorf("non-finite value %v", v)
	}
	if f == 0 {
		return "0", nil
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32), nil
}

// ImportPainter reads a painter document and inserts its shapes at the top
// of l, geometry coming from c.
//
// A document that cannot be decoded returns an error wrapping
// ErrInterchange and leaves l untouched. Otherwise every record is
// validated before l is modified; records that fail are skipped and
// reported as joined *RecordError values alongside the shapes added.
func ImportPainter(r io.Reader, l *Layout, c *Cache) ([]*Shape, error) {
	var doc painterDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterchange, err)
	}
	if doc.Shapes == nil {
		return nil, fmt.Errorf("%w: no shapes array", ErrInterchange)
	}

	var (
		shapes []*Shape
		errs   []error
	)
	for i, raw := range doc.Shapes {
		s, err := decodePainterShape(raw, c)
		if err != nil {
			l.log.Warn("skip painter record", zap.Int("record", i), zap.Error(err))
			errs = append(errs, &RecordError{Record: i, Err: err})
			continue
		}
		shapes = append(shapes, s)
	}

	for _, s := range shapes {
		l.Insert(0, s)
	}
	l.log.Debug("imported painter document",
		zap.String("layout", l.Name),
		zap.Int("shapes", len(shapes)),
		zap.Int("skipped", len(errs)))
	return shapes, errors.Join(errs...)
}

func decodePainterShape(raw json.RawMessage, c *Cache) (*Shape, error) {
	var rec painterShape
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.Type == nil {
		return nil, errors.New("missing type")
	}
	if len(rec.Data) < painterDataLen {
		return nil, fmt.Errorf("data has %d values, want %d", len(rec.Data), painterDataLen)
	}
	for i, v := range rec.Data[:painterDataLen] {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("data[%d] is not finite", i)
		}
	}
	if len(rec.Color) != 4 {
		return nil, fmt.Errorf("color has %d components, want 4", len(rec.Color))
	}
	var col [4]uint8
	for i, v := range rec.Color {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("color[%d] = %d out of range", i, v)
		}
		col[i] = uint8(v)
	}

	data, err := c.Get(Deflatten(*rec.Type))
	if err != nil {
		return nil, err
	}

	d := rec.Data
	angle := math.Mod(-d[4], 360)
	if angle == 0 {
		angle = 0 // drop the sign of -0
	}
	s := NewShape(data)
	s.SetPlacement(d[0], -d[1], d[2], d[3], angle, -d[5])
	s.SetMask(d[6] != 0)
	s.SetColor(Color{col[0], col[1], col[2], col[3]})
	return s, nil
}

// LoadPainterFile imports the painter document at path into a new layout
// named after the file.
func LoadPainterFile(path string, c *Cache, opts ...Option) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vinyl: %w", err)
	}
	defer f.Close()

	l := NewLayout(opts...)
	l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, err := ImportPainter(f, l, c); err != nil {
		if errors.Is(err, ErrInterchange) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return l, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// SavePainterFile exports l to path.
func SavePainterFile(path string, l *Layout) error {
	b, err := MarshalPainter(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("vinyl: %w", err)
	}
	return nil
}
