package main

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/mpromonet/movenet-tflite/pose"
)

var (
	limbColor  = color.RGBA{0, 255, 0, 0}
	jointColor = color.RGBA{0, 0, 255, 0}
)

// drawDetections renders the skeleton of every person, skipping joints below scoreTh.
func drawDetections(img *gocv.Mat, dets pose.Detections, scoreTh float32) {
	width, height := float32(img.Cols()), float32(img.Rows())
	pt := func(j pose.Joint) image.Point {
		return image.Pt(int(j.X*width), int(j.Y*height))
	}

	for _, d := range dets {
		for _, limb := range pose.Skeleton {
			if limb[0] >= len(d.Joints) || limb[1] >= len(d.Joints) {
				continue
			}
			a, b := d.Joints[limb[0]], d.Joints[limb[1]]
			if a.Confidence < scoreTh || b.Confidence < scoreTh {
				continue
			}
			gocv.Line(img, pt(a), pt(b), limbColor, 2)
		}
		for _, j := range d.Joints {
			if j.Confidence >= scoreTh {
				gocv.Circle(img, pt(j), 3, jointColor, -1)
			}
		}
	}
}

func writeAnnotated(path string, img gocv.Mat, dets pose.Detections, scoreTh float32) error {
	annotated := img.Clone()
	defer annotated.Close()

	drawDetections(&annotated, dets, scoreTh)
	if !gocv.IMWrite(path, annotated) {
		return fmt.Errorf("cannot write %s", path)
	}
	return nil
}
