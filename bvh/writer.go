package bvh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/crosstyan/bvhio/geom"
)

// DefaultPrecision is the number of decimal places used by Save.
const DefaultPrecision = 9

type writer struct {
	w         *bufio.Writer
	precision int
}

func (w *writer) fmtFloat(v geom.Element) string {
	return strconv.FormatFloat(v, 'f', w.precision, 64)
}

func (w *writer) writeOffset(indent string, v *geom.Vector3) {
	fmt.Fprintf(w.w, "%sOFFSET %s %s %s\n", indent, w.fmtFloat(v.X), w.fmtFloat(v.Y), w.fmtFloat(v.Z))
}

func (w *writer) writeJoint(doc *BVH, idx, depth int) {
	j := doc.Joints[idx]
	indent := strings.Repeat("\t", depth)
	keyword := "JOINT"
	if j.Parent < 0 {
		keyword = "ROOT"
	}
	fmt.Fprintf(w.w, "%s%s %s\n", indent, keyword, j.Name)
	fmt.Fprintf(w.w, "%s{\n", indent)
	w.writeOffset(indent+"\t", &j.Offset)
	fmt.Fprintf(w.w, "%s\tCHANNELS %d", indent, len(j.Channels))
	for _, c := range j.Channels {
		fmt.Fprintf(w.w, " %s", c.Name)
	}
	w.w.WriteString("\n")
	if len(j.Children) == 0 {
		// End-site offsets are not kept in the joint representation, so a
		// zero offset is emitted for every leaf.
		fmt.Fprintf(w.w, "%s\tEnd Site\n", indent)
		fmt.Fprintf(w.w, "%s\t{\n", indent)
		w.writeOffset(indent+"\t\t", &geom.Vector3{})
		fmt.Fprintf(w.w, "%s\t}\n", indent)
	}
	for _, c := range j.Children {
		w.writeJoint(doc, c, depth+1)
	}
	fmt.Fprintf(w.w, "%s}\n", indent)
}

// fullRotationOrder extends the declared rotation letters to a three-axis
// order, appending the missing axes in X, Y, Z sequence.
func fullRotationOrder(declared string) geom.RotationOrder {
	order := []byte(declared)
	for _, a := range []byte("XYZ") {
		if strings.IndexByte(declared, a) < 0 {
			order = append(order, a)
		}
	}
	if ro, ok := geom.ParseRotationOrder(string(order)); ok {
		return ro
	}
	return geom.RotationOrderXYZ
}

func (w *writer) writeFrame(doc *BVH, orders []geom.RotationOrder, f int) {
	first := true
	for i, j := range doc.Joints {
		if len(j.Channels) == 0 {
			continue
		}
		kf := &j.Keyframes[f]
		var euler *geom.EulerAngles
		if j.RotationOrder() != "" {
			euler = geom.NewEulerFromQuaternion(&kf.Rotation, orders[i])
		}
		for _, c := range j.Channels {
			var v geom.Element
			switch c.Kind {
			case ChannelXPosition:
				v = kf.Position.X
			case ChannelYPosition:
				v = kf.Position.Y
			case ChannelZPosition:
				v = kf.Position.Z
			case ChannelXRotation:
				v = euler.X * 180 / math.Pi
			case ChannelYRotation:
				v = euler.Y * 180 / math.Pi
			case ChannelZRotation:
				v = euler.Z * 180 / math.Pi
			}
			if !first {
				w.w.WriteString(" ")
			}
			first = false
			w.w.WriteString(w.fmtFloat(v))
		}
	}
	w.w.WriteString("\n")
}

// Write serializes doc. Frame values are regenerated from the stored
// quaternions using each joint's own declared rotation order.
func Write(doc *BVH, ww io.Writer, precision int) error {
	if doc.Root() == nil {
		return fmt.Errorf("document has no joints")
	}
	if precision <= 0 {
		precision = DefaultPrecision
	}
	w := &writer{w: bufio.NewWriter(ww), precision: precision}

	w.w.WriteString("HIERARCHY\n")
	w.writeJoint(doc, 0, 0)
	w.w.WriteString("MOTION\n")
	fmt.Fprintf(w.w, "Frames: %d\n", doc.FrameCount)
	fmt.Fprintf(w.w, "Frame Time: %s\n", strconv.FormatFloat(doc.FrameTime, 'f', -1, 64))

	orders := make([]geom.RotationOrder, len(doc.Joints))
	for i, j := range doc.Joints {
		orders[i] = fullRotationOrder(j.RotationOrder())
	}
	for f := 0; f < doc.FrameCount; f++ {
		w.writeFrame(doc, orders, f)
	}
	return w.w.Flush()
}

// Save writes doc to path. A precision <= 0 selects DefaultPrecision.
func Save(doc *BVH, path string, precision int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(doc, f, precision)
}
