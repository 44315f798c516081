package bvh

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/crosstyan/bvhio/geom"
)

func TestParseBlankLines(t *testing.T) {
	src := "HIERARCHY\n\nROOT a\n{\n\n\tOFFSET 0 0 0\n\tCHANNELS 0\n}\n\nMOTION\nFrames: 0\nFrame Time: 0.1\n"
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Joints[0].Name != "a" {
		t.Error("name: ", doc.Joints[0].Name)
	}
}

func TestParseLongLines(t *testing.T) {
	const eps = 0.000000001

	// CHANNELS and motion lines grow with the channel count; both must get
	// past the 64KiB default line cap.
	const extra = 20000
	var b strings.Builder
	b.WriteString("HIERARCHY\nROOT a\n{\n\tOFFSET 0 0 0\n\tCHANNELS ")
	b.WriteString(strconv.Itoa(extra + 1))
	b.WriteString(" Zrotation")
	b.WriteString(strings.Repeat(" Wobble", extra))
	b.WriteString("\n}\nMOTION\nFrames: 1\nFrame Time: 0.1\n90")
	b.WriteString(strings.Repeat(" 1.25", extra))
	b.WriteString("\n")

	doc, err := Parse(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if doc.TotalChannels() != extra+1 {
		t.Error("total channels: ", doc.TotalChannels())
	}
	if quatDist(&doc.Joints[0].Keyframes[0].Rotation, geom.AxisRotation('Z', math.Pi/2)) > eps {
		t.Error("rotation: ", doc.Joints[0].Keyframes[0].Rotation)
	}
}

func TestParseReadError(t *testing.T) {
	fail := errors.New("read failed")
	r := io.MultiReader(strings.NewReader("HIERARCHY\n"), iotest.ErrReader(fail))

	_, err := Parse(r)
	if !errors.Is(err, fail) {
		t.Fatal("category: ", err)
	}
	// Stream errors carry a position like every other parse failure.
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("not a ParseError: ", err)
	}
	if pe.Line != 2 {
		t.Error("line: ", pe.Line)
	}
}

func TestParseShiftJIS(t *testing.T) {
	name := "腰"
	src := "HIERARCHY\nROOT " + name + "\n{\n\tOFFSET 0 0 0\n\tCHANNELS 0\n}\nMOTION\nFrames: 0\nFrame Time: 0.1\n"
	encoded, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), src)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := Parse(strings.NewReader(encoded))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Joints[0].Name != name {
		t.Error("name: ", doc.Joints[0].Name)
	}
}
