package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/crosstyan/bvhio/bvh"
	"github.com/crosstyan/bvhio/converter"
)

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	return base + ".glb"
}

func saveDocument(doc *bvh.BVH, output string, precision int, opt *converter.BVHToGLTFOption) error {
	ext := strings.ToLower(filepath.Ext(output))
	if ext == ".glb" {
		gltfdoc, err := converter.NewBVHToGLTFConverter(opt).Convert(doc)
		if err != nil {
			return err
		}
		return gltf.SaveBinary(gltfdoc, output)
	} else if ext == ".bvh" {
		return bvh.Save(doc, output, precision)
	}
	return fmt.Errorf("Unsuppored output type: %v", ext)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.bvh [output.glb|output.bvh]\n", os.Args[0])
		flag.PrintDefaults()
	}
	raw := flag.Bool("raw", false, "keep file-native chained rotations (skip rebasing)")
	scale := flag.Float64("scale", 0, "0:auto")
	fps := flag.Float64("fps", 0, "override frame rate (.glb)")
	precision := flag.Int("precision", bvh.DefaultPrecision, "decimal places (.bvh)")
	confFile := flag.String("config", "", "yaml export config file")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := ""
	if flag.NArg() >= 2 {
		output = flag.Arg(1)
	}
	if output == "" {
		output = defaultOutputFile(input)
	}

	opt := &converter.BVHToGLTFOption{Scale: float32(*scale), FrameRate: *fps}
	if *confFile != "" {
		conf, err := converter.LoadExportConfig(*confFile)
		if err != nil {
			log.Fatal(err)
		}
		opt = conf.Option()
	}

	var doc *bvh.BVH
	var err error
	if *raw {
		doc, err = bvh.LoadRaw(input)
	} else {
		doc, err = bvh.Load(input)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s: %d joints, %d frames (%f sec/frame)", input, len(doc.Joints), doc.FrameCount, doc.FrameTime)

	if err := saveDocument(doc, output, *precision, opt); err != nil {
		log.Fatal(err)
	}
	log.Println("saved: ", output)
}
