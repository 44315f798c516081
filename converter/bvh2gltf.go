package converter

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/crosstyan/bvhio/bvh"
	"github.com/crosstyan/bvhio/geom"
)

func toVec3(v *geom.Vector3) [3]float32 {
	var a [3]geom.Element
	v.ToArray(a[:])
	return [3]float32{float32(a[0]), float32(a[1]), float32(a[2])}
}

type BVHToGLTFOption struct {
	// Scale applied to offsets and position samples. 0 means 1.
	Scale float32
	// FrameRate overrides the document's frame time when > 0.
	FrameRate float64
	// AnimationName for the generated animation. Empty means "motion".
	AnimationName string
}

type bvhToGltf struct {
	*gltf.Document
	options *BVHToGLTFOption
}

func NewBVHToGLTFConverter(options *BVHToGLTFOption) *bvhToGltf {
	if options == nil {
		options = &BVHToGLTFOption{}
	}
	return &bvhToGltf{
		Document: gltf.NewDocument(),
		options:  options,
	}
}

func (m *bvhToGltf) addNodes(doc *bvh.BVH, scale geom.Element) {
	m.Nodes = make([]*gltf.Node, len(doc.Joints))
	for i, j := range doc.Joints {
		m.Nodes[i] = &gltf.Node{
			Name:        j.Name,
			Translation: toVec3(j.Offset.Scale(scale)),
			Rotation:    [4]float32{0, 0, 0, 1},
		}
		for _, c := range j.Children {
			m.Nodes[i].Children = append(m.Nodes[i].Children, uint32(c))
		}
	}
	m.Scenes[0].Nodes = append(m.Scenes[0].Nodes, 0)
}

func (m *bvhToGltf) frameTimes(doc *bvh.BVH) []float32 {
	dt := doc.FrameTime
	if m.options.FrameRate > 0 {
		dt = 1 / m.options.FrameRate
	}
	keys := make([]float32, doc.FrameCount)
	for f := 0; f < doc.FrameCount; f++ {
		keys[f] = float32(dt) * float32(f)
	}
	return keys
}

func (m *bvhToGltf) addAnimation(doc *bvh.BVH, scale geom.Element) {
	name := m.options.AnimationName
	if name == "" {
		name = "motion"
	}
	a := &gltf.Animation{Name: name}
	keysAcc := modeler.WriteAccessor(m.Document, gltf.TargetArrayBuffer, m.frameTimes(doc))

	addSampler := func(output uint32, node int, path gltf.TRSProperty) {
		a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keysAcc),
			Output:        gltf.Index(output),
			Interpolation: gltf.InterpolationLinear,
		})
		a.Channels = append(a.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(uint32(node)),
				Path: path,
			},
		})
	}

	for i, j := range doc.Joints {
		hasPosition := false
		for _, c := range j.Channels {
			if c.IsPosition() {
				hasPosition = true
			}
		}

		if j.RotationOrder() != "" {
			rotations := make([][4]float32, len(j.Keyframes))
			for f, kf := range j.Keyframes {
				rotations[f] = [4]float32{
					float32(kf.Rotation.X),
					float32(kf.Rotation.Y),
					float32(kf.Rotation.Z),
					float32(kf.Rotation.W),
				}
			}
			// vec4 float accessor
			addSampler(modeler.WriteTangent(m.Document, rotations), i, gltf.TRSRotation)
		}

		if hasPosition {
			translations := make([][3]float32, len(j.Keyframes))
			for f, kf := range j.Keyframes {
				translations[f] = toVec3(kf.Position.Scale(scale))
			}
			addSampler(modeler.WritePosition(m.Document, translations), i, gltf.TRSTranslation)
		}
	}
	if len(a.Channels) > 0 {
		m.Animations = append(m.Animations, a)
	}
}

// Convert builds a glTF document with one node per joint and the motion as
// a single animation. Expects a rebased document: node rest poses come from
// the joint offsets and keyframe rotations feed the samplers as-is.
func (m *bvhToGltf) Convert(doc *bvh.BVH) (*gltf.Document, error) {
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no joints")
	}
	scale := geom.Element(m.options.Scale)
	if scale == 0 {
		scale = 1
	}
	m.addNodes(doc, scale)
	if doc.FrameCount > 0 {
		m.addAnimation(doc, scale)
	}
	return m.Document, nil
}
