package geometry

import (
	"math"
	"testing"
)

func TestBoundingBoxExtend(t *testing.T) {
	bbox := NewBoundingBox()
	if !bbox.IsEmpty() {
		t.Fatal("new bounding box should be empty")
	}

	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	if bbox.IsEmpty() {
		t.Fatal("bounding box should not be empty after Extend")
	}
	if expected := NewVector3(-1, 0, 2); bbox.Min != expected {
		t.Errorf("Min failed: expected %v, got %v", expected, bbox.Min)
	}
	if expected := NewVector3(4, 5, 6); bbox.Max != expected {
		t.Errorf("Max failed: expected %v, got %v", expected, bbox.Max)
	}
}

func TestBoundingBoxSizeAndCenter(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(10, 20, 30))

	if size := bbox.Size(); size != NewVector3(10, 20, 30) {
		t.Errorf("Size failed: got %v", size)
	}
	if center := bbox.Center(); center != NewVector3(5, 10, 15) {
		t.Errorf("Center failed: got %v", center)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	bbox := NewBoundingBox()

	if size := bbox.Size(); size != (Vector3{}) {
		t.Errorf("empty Size should be zero, got %v", size)
	}
	if center := bbox.Center(); center != (Vector3{}) {
		t.Errorf("empty Center should be zero, got %v", center)
	}
}

func TestBoundingBoxDiagonal(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(0, 0, 0))
	bbox.Extend(NewVector3(3, 4, 0))

	if d := bbox.Diagonal(); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Diagonal failed: expected 5, got %v", d)
	}
}
