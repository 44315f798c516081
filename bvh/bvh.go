package bvh

import (
	"github.com/crosstyan/bvhio/geom"
)

type ChannelKind int

const (
	ChannelUnknown ChannelKind = iota
	ChannelXPosition
	ChannelYPosition
	ChannelZPosition
	ChannelXRotation
	ChannelYRotation
	ChannelZRotation
)

var channelNames = map[string]ChannelKind{
	"Xposition": ChannelXPosition,
	"Yposition": ChannelYPosition,
	"Zposition": ChannelZPosition,
	"Xrotation": ChannelXRotation,
	"Yrotation": ChannelYRotation,
	"Zrotation": ChannelZRotation,
}

// Channel is one animated scalar of a joint. Unrecognized channel labels are
// kept as ChannelUnknown with the raw token in Name, so the hierarchy still
// round-trips; their values are consumed but not interpreted.
type Channel struct {
	Kind ChannelKind
	Name string
}

func ParseChannel(token string) Channel {
	return Channel{Kind: channelNames[token], Name: token}
}

func (c Channel) IsPosition() bool {
	return c.Kind == ChannelXPosition || c.Kind == ChannelYPosition || c.Kind == ChannelZPosition
}

func (c Channel) IsRotation() bool {
	return c.Kind == ChannelXRotation || c.Kind == ChannelYRotation || c.Kind == ChannelZRotation
}

// Axis returns 'X', 'Y' or 'Z' for position and rotation channels.
func (c Channel) Axis() byte {
	switch c.Kind {
	case ChannelXPosition, ChannelXRotation:
		return 'X'
	case ChannelYPosition, ChannelYRotation:
		return 'Y'
	case ChannelZPosition, ChannelZRotation:
		return 'Z'
	}
	return 0
}

func (c Channel) String() string {
	return c.Name
}

// Keyframe is one decoded sample of a joint.
type Keyframe struct {
	Position geom.Vector3
	Rotation geom.Quaternion
}

// Joint is a node of the skeleton arena. Parent is -1 for the root and
// Children holds arena indices, so the tree has no pointer cycles and a
// pre-order traversal is a plain walk over BVH.Joints.
type Joint struct {
	Name     string
	Offset   geom.Vector3
	Channels []Channel
	EndSite  *geom.Vector3
	Parent   int
	Children []int

	Keyframes []Keyframe
}

// RotationOrder returns the rotation-axis letters of the joint's channels in
// declared order, e.g. "ZXY".
func (j *Joint) RotationOrder() string {
	var order []byte
	for _, c := range j.Channels {
		if c.IsRotation() {
			order = append(order, c.Axis())
		}
	}
	return string(order)
}

// BVH holds a parsed document. Joints are stored in pre-order; Joints[0] is
// the root. Every joint has exactly FrameCount keyframes after parsing.
type BVH struct {
	Joints     []*Joint
	FrameCount int
	FrameTime  float64
}

func (doc *BVH) Root() *Joint {
	if len(doc.Joints) == 0 {
		return nil
	}
	return doc.Joints[0]
}

// TotalChannels is the number of scalar values each motion line carries.
func (doc *BVH) TotalChannels() int {
	n := 0
	for _, j := range doc.Joints {
		n += len(j.Channels)
	}
	return n
}
