package vinyl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Byte signatures of the blocks in a .modelbin shape asset. The format is
// undocumented; these are located by scanning and the fields around them
// are read at fixed offsets.
var (
	facesSignature    = []byte{0x02, 0x00, 0x01, 0x00, 0x39, 0x00, 0x00, 0x00}
	verticesSignature = []byte{0x01, 0x00, 0x0D, 0x00, 0x00, 0x00}
	uvSignature       = []byte{0x04, 0x00, 0x25, 0x00, 0x00, 0x00}
)

const (
	facesCountOffset    = -8
	verticesCountOffset = -10
	uvCountOffset       = -10
	scaleOffset         = -41 // relative to the faces signature

	vertexStride = 8
	uvStride     = 16
	uvAlphaField = 15 // alpha byte within a uv record

	// coordDivisor converts raw int16 coordinates to editor units.
	coordDivisor = 510
	// scaleFactor corrects the stored asset scale: the game treats 0.25 as 1.
	scaleFactor = 4

	minCount = 3
	maxCount = math.MaxUint16

	maxCoord = 65
)

// ParseModel extracts shape geometry from the raw bytes of a .modelbin
// asset. filename supplies the identity and must look like
// <letters>_<number>[.ext].
//
// Missing signatures and header fields outside the buffer are errors.
// Values outside their usual range are reported as warnings and kept as
// read; a block whose count runs past the end of the buffer is cut to the
// records present, and a negative count reads as zero.
// src is not modified or retained.
func ParseModel(src []byte, filename string) (*RenderData, []Warning, error) {
	facesAt := bytes.Index(src, facesSignature)
	if facesAt < 0 {
		return nil, nil, &SignatureError{Signature: "faces", File: filename}
	}
	verticesAt := bytes.Index(src, verticesSignature)
	if verticesAt < 0 {
		return nil, nil, &SignatureError{Signature: "vertices", File: filename}
	}
	uvAt := bytes.Index(src, uvSignature)
	if uvAt < 0 {
		return nil, nil, &SignatureError{Signature: "uv", File: filename}
	}

	id, err := ParseAssetName(filename)
	if err != nil {
		return nil, nil, err
	}

	p := modelParser{src: src, file: filename}

	indices := p.readFaces(facesAt)
	sx, sy := p.readScale(facesAt)
	vertices := p.readVertices(verticesAt, sx, sy)
	alpha := p.readAlpha(uvAt)
	if p.err != nil {
		return nil, nil, p.err
	}

	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			p.warn("face index", i, fmt.Sprintf("%d >= vertex count %d", idx, len(vertices)))
		}
	}
	if len(alpha) != len(vertices) {
		p.warn("uv count", -1, fmt.Sprintf("%d for %d vertices", len(alpha), len(vertices)))
	}

	return &RenderData{ID: id, Vertices: vertices, Indices: indices, Alpha: alpha}, p.warnings, nil
}

// modelParser carries the buffer and accumulated findings through one parse.
// The first read error sticks; later reads become no-ops.
type modelParser struct {
	src      []byte
	file     string
	err      error
	warnings []Warning
}

func (p *modelParser) warn(field string, index int, detail string) {
	p.warnings = append(p.warnings, Warning{Field: field, Index: index, Detail: detail})
}

// need reports whether src[off:off+n] is readable, recording ErrTruncated
// otherwise.
func (p *modelParser) need(what string, off, n int) bool {
	if p.err != nil {
		return false
	}
	if off < 0 || n < 0 || off > len(p.src)-n {
		p.err = fmt.Errorf("%w: %s: %s needs %d bytes at %d, have %d", ErrTruncated, p.file, what, n, off, len(p.src))
		return false
	}
	return true
}

// count reads the int32 element count at off and reports unusual values.
func (p *modelParser) count(what string, off int) int {
	if !p.need(what+" count", off, 4) {
		return 0
	}
	n := int(int32(binary.LittleEndian.Uint32(p.src[off:])))
	if n < minCount || n > maxCount {
		p.warn(what+" count", -1, fmt.Sprint(n))
	}
	return max(n, 0)
}

// records clamps a count of n records of the given stride to those that fit
// in the buffer, where each record needs width bytes from its start. A
// shortfall is reported as a warning.
func (p *modelParser) records(what string, n, start, stride, width int) int {
	if p.err != nil {
		return 0
	}
	avail := 0
	if rest := len(p.src) - start; rest >= width {
		avail = (rest-width)/stride + 1
	}
	if n > avail {
		p.warn(what, -1, fmt.Sprintf("count %d, %d in buffer", n, avail))
		return avail
	}
	return n
}

func (p *modelParser) readFaces(at int) []uint16 {
	n := p.count("face", at+facesCountOffset)
	start := at + len(facesSignature)
	n = p.records("faces", n, start, 2, 2)
	if p.err != nil {
		return nil
	}
	indices := make([]uint16, n)
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint16(p.src[start+2*i:])
	}
	return indices
}

func (p *modelParser) readScale(facesAt int) (float32, float32) {
	off := facesAt + scaleOffset
	if !p.need("scale", off, 8) {
		return 0, 0
	}
	sx := math.Float32frombits(binary.LittleEndian.Uint32(p.src[off:]))
	sy := math.Float32frombits(binary.LittleEndian.Uint32(p.src[off+4:]))
	if sx <= 0 || sx >= 2 || sy <= 0 || sy >= 2 {
		p.warn("scale", -1, fmt.Sprintf("%v,%v", sx, sy))
	}
	return sx * scaleFactor, sy * scaleFactor
}

func (p *modelParser) readVertices(at int, sx, sy float32) []Vec2 {
	n := p.count("vertex", at+verticesCountOffset)
	start := at + len(verticesSignature)
	n = p.records("vertices", n, start, vertexStride, 4)
	if p.err != nil {
		return nil
	}
	scale := [6]float64{float64(sx), 0, 0, float64(sy), 0, 0}
	vertices := make([]Vec2, n)
	for i := range vertices {
		off := start + i*vertexStride
		x := float32(int16(binary.LittleEndian.Uint16(p.src[off:]))) / coordDivisor
		y := -(float32(int16(binary.LittleEndian.Uint16(p.src[off+2:]))) / coordDivisor)
		if x < -maxCoord || x > maxCoord || y < -maxCoord || y > maxCoord {
			p.warn("vertex", i, fmt.Sprintf("%v,%v", x, y))
		}
		vx, vy := transformPoint(scale, float64(x), float64(y))
		vertices[i] = Vec2{float64(float32(vx)), float64(float32(vy))}
	}
	return vertices
}

func (p *modelParser) readAlpha(at int) []uint8 {
	n := p.count("uv", at+uvCountOffset)
	start := at + len(uvSignature) + uvAlphaField
	n = p.records("uvs", n, start, uvStride, 1)
	if p.err != nil {
		return nil
	}
	alpha := make([]uint8, n)
	for i := range alpha {
		alpha[i] = p.src[start+i*uvStride]
	}
	return alpha
}
