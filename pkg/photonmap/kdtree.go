package photonmap

import (
	"github.com/df07/go-progressive-photonmapper/pkg/core"
)

// PointIndex is a static balanced k-d tree over photon positions.
//
// The tree is pointerless: Build reorders the photon slice so that the node of
// every subrange [lo, hi) sits at its midpoint, with smaller coordinates on the
// split axis to its left and larger ones to its right. Indices returned by Query
// refer to this reordered slice and are resolved with At.
type PointIndex struct {
	photons []Photon
	axes    []uint8 // split axis of the node stored at the same position
	built   bool
}

// NewPointIndex creates an empty index with room for capacity photons
func NewPointIndex(capacity int) *PointIndex {
	idx := &PointIndex{}
	idx.Reserve(capacity)
	return idx
}

// Reserve grows the backing storage to hold at least capacity photons
func (idx *PointIndex) Reserve(capacity int) {
	if capacity <= cap(idx.photons) {
		return
	}
	photons := make([]Photon, len(idx.photons), capacity)
	copy(photons, idx.photons)
	idx.photons = photons
}

// Append adds a photon. The index must be (re)built before it can be queried again.
func (idx *PointIndex) Append(p Photon) {
	idx.photons = append(idx.photons, p)
	idx.built = false
}

// AppendAll adds a batch of photons
func (idx *PointIndex) AppendAll(photons []Photon) {
	idx.photons = append(idx.photons, photons...)
	idx.built = false
}

// Len returns the number of stored photons
func (idx *PointIndex) Len() int {
	return len(idx.photons)
}

// Built reports whether the index is ready for queries
func (idx *PointIndex) Built() bool {
	return idx.built
}

// At returns the i-th photon of the built index
func (idx *PointIndex) At(i int) Photon {
	return idx.photons[i]
}

// Build organizes the stored photons into the k-d tree
func (idx *PointIndex) Build() {
	if cap(idx.axes) >= len(idx.photons) {
		idx.axes = idx.axes[:len(idx.photons)]
	} else {
		idx.axes = make([]uint8, len(idx.photons))
	}
	idx.build(0, len(idx.photons))
	idx.built = true
}

// build splits [lo, hi) at its median along the axis of largest extent
func (idx *PointIndex) build(lo, hi int) {
	for hi-lo > 1 {
		bounds := core.EmptyAABB()
		for i := lo; i < hi; i++ {
			bounds = bounds.Extend(idx.photons[i].Position)
		}
		axis := bounds.LongestAxis()
		mid := lo + (hi-lo)/2

		idx.selectNth(lo, hi, mid, axis)
		idx.axes[mid] = uint8(axis)

		// Recurse left, continue with the right half
		idx.build(lo, mid)
		lo = mid + 1
	}
	if hi-lo == 1 {
		idx.axes[lo] = 0
	}
}

// selectNth partially orders [lo, hi) so position k holds the element that would be
// there if the range were sorted along axis, with no larger element before it and no
// smaller one after it.
func (idx *PointIndex) selectNth(lo, hi, k, axis int) {
	p := idx.photons
	for hi-lo > 1 {
		pivot := medianOfThree(
			p[lo].Position.Axis(axis),
			p[lo+(hi-lo)/2].Position.Axis(axis),
			p[hi-1].Position.Axis(axis),
		)

		// Three-way partition: [lo,lt) < pivot, [lt,gt) == pivot, [gt,hi) > pivot
		lt, i, gt := lo, lo, hi
		for i < gt {
			v := p[i].Position.Axis(axis)
			switch {
			case v < pivot:
				p[lt], p[i] = p[i], p[lt]
				lt++
				i++
			case v > pivot:
				gt--
				p[i], p[gt] = p[gt], p[i]
			default:
				i++
			}
		}

		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return
		}
	}
}

func medianOfThree(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		return a
	}
	return b
}

// Query appends to dst the index of every photon within radius of center (closed ball)
// and returns the extended slice. An index that has not been built yields nothing.
func (idx *PointIndex) Query(center core.Vec3, radius float64, dst []int) []int {
	if !idx.built || radius < 0 {
		return dst
	}
	return idx.query(0, len(idx.photons), center, radius, radius*radius, dst)
}

func (idx *PointIndex) query(lo, hi int, center core.Vec3, radius, radiusSq float64, dst []int) []int {
	for hi > lo {
		mid := lo + (hi-lo)/2
		position := idx.photons[mid].Position
		if position.Subtract(center).LengthSquared() <= radiusSq {
			dst = append(dst, mid)
		}

		axis := int(idx.axes[mid])
		d := center.Axis(axis) - position.Axis(axis)
		switch {
		case d < -radius:
			hi = mid
		case d > radius:
			lo = mid + 1
		default:
			dst = idx.query(lo, mid, center, radius, radiusSq, dst)
			lo = mid + 1
		}
	}
	return dst
}
