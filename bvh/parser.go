package bvh

import (
	"io"
	"math"
	"os"
	"strconv"

	"github.com/crosstyan/bvhio/geom"
)

// Parser for bvh file.
type Parser struct {
	s *lineScanner
}

// NewParser returns new parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{s: newLineScanner(r)}
}

func parseOffset(tokens []string, pos position) (geom.Vector3, error) {
	if len(tokens) != 3 {
		return geom.Vector3{}, syntaxError(pos, "offset must be a 3-dimensional tuple")
	}
	values := make([]geom.Element, 3)
	for i, tok := range tokens {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return geom.Vector3{}, syntaxError(pos, "offset must be numerics only")
		}
		values[i] = f
	}
	return *geom.NewVector3FromSlice(values), nil
}

// parseJoint consumes a joint body: "{", OFFSET, CHANNELS, then nested
// JOINT / End Site blocks until the closing "}". The new joint is appended
// to the arena before its children so doc.Joints stays in pre-order.
func (p *Parser) parseJoint(doc *BVH, name string, parent int) error {
	idx := len(doc.Joints)
	j := &Joint{Name: name, Parent: parent}
	doc.Joints = append(doc.Joints, j)
	if parent >= 0 {
		doc.Joints[parent].Children = append(doc.Joints[parent].Children, idx)
	}

	tokens, pos, err := p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 1 || tokens[0] != "{" {
		return syntaxError(pos, `joint header must be followed by a "{" line`)
	}

	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) < 1 || tokens[0] != "OFFSET" {
		return syntaxError(pos, "joint must declare an OFFSET")
	}
	if j.Offset, err = parseOffset(tokens[1:], pos); err != nil {
		return err
	}

	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) < 2 || tokens[0] != "CHANNELS" {
		return syntaxError(pos, "joint must declare CHANNELS")
	}
	n, err := strconv.Atoi(tokens[1])
	if err != nil || n < 0 {
		return syntaxError(pos, "channel count must be numerical")
	}
	if n != len(tokens)-2 {
		return syntaxError(pos, "channel count mismatch with labels")
	}
	for _, tok := range tokens[2:] {
		j.Channels = append(j.Channels, ParseChannel(tok))
	}

	for {
		tokens, pos, err = p.s.next()
		if err != nil {
			return err
		}
		switch {
		case len(tokens) == 2 && tokens[0] == "JOINT":
			if err := p.parseJoint(doc, tokens[1], idx); err != nil {
				return err
			}
		case len(tokens) == 2 && tokens[0] == "End" && tokens[1] == "Site":
			if err := p.parseEndSite(j); err != nil {
				return err
			}
		case len(tokens) == 1 && tokens[0] == "}":
			return nil
		default:
			return syntaxError(pos, "unexpected token %q in joint body", tokens[0])
		}
	}
}

func (p *Parser) parseEndSite(j *Joint) error {
	tokens, pos, err := p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 1 || tokens[0] != "{" {
		return syntaxError(pos, `End Site must be followed by a "{" line`)
	}
	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) < 1 || tokens[0] != "OFFSET" {
		return syntaxError(pos, "End Site must declare an OFFSET")
	}
	offset, err := parseOffset(tokens[1:], pos)
	if err != nil {
		return err
	}
	j.EndSite = &offset
	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 1 || tokens[0] != "}" {
		return syntaxError(pos, `End Site block must end with a "}" line`)
	}
	return nil
}

// frameCursor is the read position into one frame's value vector. Each joint
// advances it by exactly len(Channels) during the pre-order walk.
type frameCursor struct {
	values []geom.Element
	pos    int
}

func (c *frameCursor) next() geom.Element {
	v := c.values[c.pos]
	c.pos++
	return v
}

// decodeJointFrame consumes one value per channel in file order. Position
// axes overwrite the static offset, rotation axes accumulate an angle and
// their letter; the rotation is composed in declared order about the rotated
// frame (intrinsic). Unknown channels consume their value unseen.
func (doc *BVH) decodeJointFrame(idx int, cur *frameCursor) {
	j := doc.Joints[idx]
	pos := j.Offset
	var axes []byte
	var degs []geom.Element
	for _, ch := range j.Channels {
		v := cur.next()
		switch ch.Kind {
		case ChannelXPosition:
			pos.X = v
		case ChannelYPosition:
			pos.Y = v
		case ChannelZPosition:
			pos.Z = v
		case ChannelXRotation, ChannelYRotation, ChannelZRotation:
			axes = append(axes, ch.Axis())
			degs = append(degs, v)
		}
	}
	q := geom.NewIdentityQuaternion()
	for i, a := range axes {
		q = q.Mul(geom.AxisRotation(a, degs[i]*math.Pi/180))
	}
	j.Keyframes = append(j.Keyframes, Keyframe{Position: pos, Rotation: *q})
	for _, c := range j.Children {
		doc.decodeJointFrame(c, cur)
	}
}

func (p *Parser) parseMotion(doc *BVH) error {
	tokens, pos, err := p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 1 || tokens[0] != "MOTION" {
		return syntaxError(pos, `after end of hierarchy must follow "MOTION"`)
	}

	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 2 || tokens[0] != "Frames:" {
		return syntaxError(pos, `expected "Frames:" line`)
	}
	frames, err := strconv.Atoi(tokens[1])
	if err != nil || frames < 0 {
		return syntaxError(pos, "frame count must be a non-negative integer")
	}
	doc.FrameCount = frames

	tokens, pos, err = p.s.next()
	if err != nil {
		return err
	}
	if len(tokens) != 3 || tokens[0] != "Frame" || tokens[1] != "Time:" {
		return syntaxError(pos, `expected "Frame Time:" line`)
	}
	ft, err := strconv.ParseFloat(tokens[2], 64)
	if err != nil || ft <= 0 {
		return syntaxError(pos, "frame time must be a positive number")
	}
	doc.FrameTime = ft

	total := doc.TotalChannels()
	for f := 0; f < doc.FrameCount; f++ {
		tokens, pos, err = p.s.next()
		if err != nil {
			return err
		}
		if len(tokens) != total {
			return syntaxError(pos, "keyframe has %d values, expected %d", len(tokens), total)
		}
		values := make([]geom.Element, total)
		for i, tok := range tokens {
			if values[i], err = strconv.ParseFloat(tok, 64); err != nil {
				return syntaxError(pos, "keyframe must be numerics only")
			}
		}
		doc.decodeJointFrame(0, &frameCursor{values: values})
	}
	return nil
}

// Parse reads a document without rebasing: channel values keep the
// file-native chained-rotation semantics.
func (p *Parser) Parse() (*BVH, error) {
	tokens, pos, err := p.s.next()
	if err != nil {
		return nil, err
	}
	if len(tokens) != 1 || tokens[0] != "HIERARCHY" {
		return nil, syntaxError(pos, `first line must be "HIERARCHY"`)
	}

	tokens, pos, err = p.s.next()
	if err != nil {
		return nil, err
	}
	if len(tokens) != 2 || tokens[0] != "ROOT" {
		return nil, syntaxError(pos, "hierarchy must declare a ROOT joint")
	}

	var doc BVH
	if err := p.parseJoint(&doc, tokens[1], -1); err != nil {
		return nil, err
	}
	if err := p.parseMotion(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Parse reads a raw document from r.
func Parse(r io.Reader) (*BVH, error) {
	return NewParser(r).Parse()
}

// LoadRaw reads path without rebasing.
func LoadRaw(path string) (*BVH, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return NewParser(r).Parse()
}

// Load reads path and rebases every joint's keyframes onto its own bind
// rotation. Use LoadRaw for the file-native representation.
func Load(path string) (*BVH, error) {
	doc, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	doc.Rebase()
	return doc, nil
}
