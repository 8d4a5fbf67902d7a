package space

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
)

// overlapTolerance is the distance under which two shapes are considered touching rather than overlapping.
const overlapTolerance = 1e-9

// Shape is a collision shape attached to a body, expressed in the local space of the body.
type Shape interface {
	shape()
}

// Box is an axis aligned box.
type Box struct {
	BBox cube.BBox
}

// Plane is an infinite plane. Everything behind the plane, opposite to its normal, is solid.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// Ray is a separation ray. It keeps the body at Length from whatever it hits along Direction, and is used
// to let a character glide over small steps and slopes.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Length    float64
}

func (Box) shape()   {}
func (Plane) shape() {}
func (Ray) shape()   {}

// bounds returns the segment covered by the ray as a box with no volume.
func (r Ray) bounds() cube.BBox {
	end := r.Origin.Add(game.SafeNormalize(r.Direction).Mul(r.Length))
	return cube.Box(r.Origin[0], r.Origin[1], r.Origin[2], end[0], end[1], end[2])
}

// obstacle is a Box or Plane shape of a body, placed in world space.
type obstacle struct {
	body  *body
	index int

	plane    bool
	box      cube.BBox
	normal   mgl64.Vec3
	distance float64
}

// place returns the shape at index i of b as an obstacle, if it is one. Planes without a normal are left
// out.
func place(b *body, i int, origin mgl64.Vec3) (obstacle, bool) {
	switch s := b.shapes[i].(type) {
	case Box:
		return obstacle{body: b, index: i, box: s.BBox.Translate(origin)}, true
	case Plane:
		n := game.SafeNormalize(s.Normal)
		if game.IsZeroVec(n) {
			return obstacle{}, false
		}
		return obstacle{body: b, index: i, plane: true, normal: n, distance: s.Distance + n.Dot(origin)}, true
	}
	return obstacle{}, false
}

// penetration returns how deep box overlaps the obstacle and the normal along which the box must move to
// stop overlapping it.
func (o obstacle) penetration(box cube.BBox) (float64, mgl64.Vec3, bool) {
	if o.plane {
		depth := -supportDistance(box, o.normal, o.distance)
		if depth <= overlapTolerance {
			return 0, mgl64.Vec3{}, false
		}
		return depth, o.normal, true
	}

	best, axis, dir := math.MaxFloat64, 0, 0.0
	for i := range 3 {
		pos := o.box.Max()[i] - box.Min()[i]
		neg := box.Max()[i] - o.box.Min()[i]
		if pos <= overlapTolerance || neg <= overlapTolerance {
			return 0, mgl64.Vec3{}, false
		}
		if pos < best {
			best, axis, dir = pos, i, 1
		}
		if neg < best {
			best, axis, dir = neg, i, -1
		}
	}
	var n mgl64.Vec3
	n[axis] = dir
	return best, n, true
}

// sweep returns the fraction of motion box can travel before coming within margin of the obstacle, along
// with the normal of the face hit.
func (o obstacle) sweep(box cube.BBox, motion mgl64.Vec3, margin float64) (float64, mgl64.Vec3, bool) {
	if o.plane {
		approach := -o.normal.Dot(motion)
		if approach <= 1e-12 {
			return 0, mgl64.Vec3{}, false
		}
		t := (supportDistance(box, o.normal, o.distance) - margin) / approach
		if t > 1 {
			return 0, mgl64.Vec3{}, false
		}
		return math.Max(t, 0), o.normal, true
	}

	other := o.box.Grow(margin)
	entry, exit := math.Inf(-1), math.Inf(1)
	var n mgl64.Vec3
	for i := range 3 {
		before, after := box.Max()[i]-other.Min()[i], other.Max()[i]-box.Min()[i]
		switch {
		case math.Abs(motion[i]) < 1e-12:
			if before <= overlapTolerance || after <= overlapTolerance {
				return 0, mgl64.Vec3{}, false
			}
			continue
		case motion[i] > 0 && after <= overlapTolerance, motion[i] < 0 && before <= overlapTolerance:
			// Moving away from the obstacle on this axis.
			return 0, mgl64.Vec3{}, false
		}

		var enter, leave float64
		if motion[i] > 0 {
			enter, leave = -before/motion[i], after/motion[i]
		} else {
			enter, leave = after/motion[i], -before/motion[i]
		}
		if enter > entry {
			entry = enter
			n = mgl64.Vec3{}
			n[i] = -math.Copysign(1, motion[i])
		}
		exit = math.Min(exit, leave)
	}
	if math.IsInf(entry, -1) || entry >= exit || entry > 1 {
		return 0, mgl64.Vec3{}, false
	}
	return math.Max(entry, 0), n, true
}

// cast returns the distance along dir at which a ray starting at origin hits the obstacle, if it does so
// within maxLength. A ray starting inside the obstacle hits it at distance zero.
func (o obstacle) cast(origin, dir mgl64.Vec3, maxLength float64) (float64, mgl64.Vec3, bool) {
	if o.plane {
		s := o.normal.Dot(origin) - o.distance
		if s < 0 {
			return 0, o.normal, true
		}
		denom := o.normal.Dot(dir)
		if denom >= -1e-12 {
			return 0, mgl64.Vec3{}, false
		}
		if h := s / -denom; h <= maxLength {
			return h, o.normal, true
		}
		return 0, mgl64.Vec3{}, false
	}

	entry, exit := math.Inf(-1), math.Inf(1)
	var n mgl64.Vec3
	for i := range 3 {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < o.box.Min()[i] || origin[i] > o.box.Max()[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		enter, leave := (o.box.Min()[i]-origin[i])/dir[i], (o.box.Max()[i]-origin[i])/dir[i]
		if enter > leave {
			enter, leave = leave, enter
		}
		if enter > entry {
			entry = enter
			n = mgl64.Vec3{}
			n[i] = -math.Copysign(1, dir[i])
		}
		exit = math.Min(exit, leave)
	}
	if entry > exit || exit < 0 || entry > maxLength {
		return 0, mgl64.Vec3{}, false
	}
	if entry < 0 {
		return 0, dir.Mul(-1), true
	}
	return entry, n, true
}

// closest returns the point of the obstacle closest to p.
func (o obstacle) closest(p mgl64.Vec3) mgl64.Vec3 {
	if o.plane {
		return p.Sub(o.normal.Mul(o.normal.Dot(p) - o.distance))
	}
	for i := range 3 {
		p[i] = math.Max(o.box.Min()[i], math.Min(p[i], o.box.Max()[i]))
	}
	return p
}

// supportDistance returns the signed distance from the plane to the point of box furthest behind it.
func supportDistance(box cube.BBox, n mgl64.Vec3, d float64) float64 {
	center := box.Min().Add(box.Max()).Mul(0.5)
	ext := box.Max().Sub(box.Min()).Mul(0.5)
	return n.Dot(center) - d - (math.Abs(n[0])*ext[0] + math.Abs(n[1])*ext[1] + math.Abs(n[2])*ext[2])
}

// center returns the center of box.
func center(box cube.BBox) mgl64.Vec3 {
	return box.Min().Add(box.Max()).Mul(0.5)
}
