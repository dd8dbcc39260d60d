// Command simpleScene lowers a small CSG tree — a cube union a sphere,
// minus a cylindrical bore — and prints the resulting tree's bounding box.
package main

import (
	"fmt"
	"log"

	"github.com/akmonengine/csgkernel"
	"github.com/akmonengine/csgkernel/csg"
	"github.com/akmonengine/csgkernel/scad"
)

func main() {
	tree, err := csgkernel.Lower(scene(), csgkernel.Options{
		MaxFN: 64,
	})
	if err != nil {
		log.Fatalf("lower: %v", err)
	}

	bb := csg.BoundingBox(tree, false)
	if bb.Empty {
		fmt.Println("empty scene")
		return
	}
	fmt.Printf("bounding box: min=%v max=%v\n", bb.Min, bb.Max)
}

func scene() scad.Node {
	cube := &scad.Cube{Size: scad.Vec3{X: 2, Y: 2, Z: 2}, Center: true}
	sphere := &scad.Sphere{Radius: 1.3, FN: 24}
	bore := &scad.Cylinder{
		Height:  4,
		Radius1: 0.4,
		Radius2: 0.4,
		Center:  true,
		FN:      24,
	}

	solid := &scad.Union{Children: []scad.Node{cube, sphere}}
	return &scad.Difference{Children: []scad.Node{solid, bore}}
}
