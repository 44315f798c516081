package bvh

import (
	"github.com/crosstyan/bvhio/geom"
)

// Rebase rewrites keyframes so each joint's motion is expressed against its
// own bind rotation instead of being chained through its ancestors. The bind
// rotation of a joint is its first-frame rotation (identity when the joint
// has no rotation channels). For every child, the inverse of the bind
// rotation is applied to all of its recorded positions and rotations.
//
// The arena is in pre-order, so each joint is processed after its parent has
// already been stripped of its own parent's influence. Applying this more
// than once corrupts the samples.
func (doc *BVH) Rebase() {
	for _, j := range doc.Joints {
		bind := geom.NewIdentityQuaternion()
		if len(j.Keyframes) > 0 && j.RotationOrder() != "" {
			b := j.Keyframes[0].Rotation
			bind = &b
		}
		inv := bind.Inverse()
		for _, ci := range j.Children {
			c := doc.Joints[ci]
			for f := range c.Keyframes {
				c.Keyframes[f].Position = *inv.ApplyTo(&c.Keyframes[f].Position)
				c.Keyframes[f].Rotation = *inv.Mul(&c.Keyframes[f].Rotation)
			}
		}
	}
}
