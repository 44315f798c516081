package bvh

import (
	"bytes"
	"io/ioutil"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(doc, &buf, DefaultPrecision); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	lines := strings.Split(out, "\n")
	if lines[0] != "HIERARCHY" || lines[1] != "ROOT Hip" {
		t.Error("header: ", lines[0], lines[1])
	}
	if !strings.Contains(out, "CHANNELS 4 Xposition Yposition Zposition Zrotation") {
		t.Error("hip channels missing:\n", out)
	}
	if !strings.Contains(out, "JOINT Knee") {
		t.Error("knee missing:\n", out)
	}
	if !strings.Contains(out, "Frames: 1") || !strings.Contains(out, "Frame Time: 0.0333") {
		t.Error("motion header:\n", out)
	}
	// End-site offsets are regenerated as zeros, not round-tripped.
	if !strings.Contains(out, "End Site") {
		t.Error("end site missing:\n", out)
	}
	if strings.Contains(out, "-5") {
		t.Error("end site offset should not survive:\n", out)
	}
}

func TestRoundTrip(t *testing.T) {
	const eps = 0.000000001

	src := `HIERARCHY
ROOT Hips
{
	OFFSET 0.5 36.75 -1.25
	CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
	JOINT Spine
	{
		OFFSET 0 4.5 0
		CHANNELS 3 Zrotation Xrotation Yrotation
		JOINT Head
		{
			OFFSET 0 6.25 0.5
			CHANNELS 3 Yrotation Zrotation Xrotation
		}
	}
	JOINT Leg
	{
		OFFSET 1.5 -2 0
		CHANNELS 3 Xrotation Yrotation Zrotation
	}
}
MOTION
Frames: 2
Frame Time: 0.033333333
1.5 36 0 10 -20 30 5 15 -25 40 -10 20 12 -34 56
0 35.5 -0.25 -15 25 -35 -5 -15 25 -40 10 -20 -12 34 -56
`
	d1, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(d1, &buf, DefaultPrecision); err != nil {
		t.Fatal(err)
	}
	d2, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}

	if len(d2.Joints) != len(d1.Joints) {
		t.Fatal("joint count: ", len(d2.Joints))
	}
	if d2.FrameCount != d1.FrameCount || math.Abs(d2.FrameTime-d1.FrameTime) > eps {
		t.Error("motion header: ", d2.FrameCount, d2.FrameTime)
	}
	for i, j1 := range d1.Joints {
		j2 := d2.Joints[i]
		if j2.Name != j1.Name || j2.Parent != j1.Parent {
			t.Error("joint identity: ", j2.Name, j2.Parent)
		}
		if j2.Offset.Sub(&j1.Offset).Len() > eps {
			t.Error("offset: ", j1.Name, j2.Offset)
		}
		if len(j2.Channels) != len(j1.Channels) {
			t.Fatal("channels: ", j1.Name, j2.Channels)
		}
		for c := range j1.Channels {
			if j2.Channels[c] != j1.Channels[c] {
				t.Error("channel: ", j1.Name, c, j2.Channels[c])
			}
		}
		for f := range j1.Keyframes {
			k1, k2 := &j1.Keyframes[f], &j2.Keyframes[f]
			if k2.Position.Sub(&k1.Position).Len() > eps {
				t.Error("position: ", j1.Name, f, k1.Position, k2.Position)
			}
			if quatDist(&k1.Rotation, &k2.Rotation) > eps {
				t.Error("rotation: ", j1.Name, f, k1.Rotation, k2.Rotation)
			}
		}
	}
}

func TestWritePartialRotationOrder(t *testing.T) {
	const eps = 0.000000001

	// A joint with a single rotation channel must regenerate the same angle.
	src := "HIERARCHY\nROOT a\n{\n\tOFFSET 0 0 0\n\tCHANNELS 1 Zrotation\n}\nMOTION\nFrames: 1\nFrame Time: 0.1\n73.25\n"
	d1, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(d1, &buf, DefaultPrecision); err != nil {
		t.Fatal(err)
	}
	d2, err := Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if quatDist(&d1.Joints[0].Keyframes[0].Rotation, &d2.Joints[0].Keyframes[0].Rotation) > eps {
		t.Error("rotation: ", d2.Joints[0].Keyframes[0].Rotation)
	}
}

func TestSave(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.bvh")

	if err := Save(doc, path, 2); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "OFFSET 0.00 -10.00 0.00") {
		t.Error("precision 2 offsets:\n", string(b))
	}

	if err := Save(doc, path, 0); err != nil {
		t.Fatal(err)
	}
	b, err = ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "OFFSET 0.000000000 -10.000000000 0.000000000") {
		t.Error("default precision offsets:\n", string(b))
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&BVH{}, &buf, DefaultPrecision); err == nil {
		t.Error("writing an empty document should fail")
	}
}
