package sapling

import "github.com/go-gl/mathgl/mgl32"

// Triangle is a projected, shaded triangle ready to be filled.
type Triangle struct {
	Points [3]mgl32.Vec2 // pixels, origin top-left, Y down
	Depth  float32       // mean normalized device Z; larger is farther
	Color  mgl32.Vec3    // shaded color, components in [0, 1]
	order  int
}

// Point light attenuation: 1 / (1 + kLinear*d + kQuadratic*d*d).
const (
	kLinear    = 0.09
	kQuadratic = 0.032
)

// Rasterizer turns a recorded frame into screen-space triangles. It reuses
// its buffers between frames; the zero value is ready to use.
type Rasterizer struct {
	tris    []Triangle
	sortBuf []Triangle
}

// Rasterize projects every draw of buf onto a width x height screen, drops
// back faces and triangles crossing the near or far plane, flat shades the
// rest and returns them sorted back to front. The returned slice is only
// valid until the next call.
func (r *Rasterizer) Rasterize(buf *CommandBuffer, width, height int) []Triangle {
	r.tris = r.tris[:0]
	vp := buf.Proj.Mul4(buf.View)
	w, h := float32(width), float32(height)

	for i := range buf.Draws {
		d := &buf.Draws[i]
		mvp := vp.Mul4(d.Model)
		m := d.Mesh
		for t := 0; t+2 < len(m.Indices); t += 3 {
			var (
				world [3]mgl32.Vec3
				ndc   [3]mgl32.Vec3
				ok    = true
			)
			for k := range 3 {
				v := m.Vertices[m.Indices[t+k]].Vec4(1)
				world[k] = d.Model.Mul4x1(v).Vec3()
				clip := mvp.Mul4x1(v)
				if clip.W() <= 1e-6 {
					ok = false
					break
				}
				ndc[k] = clip.Vec3().Mul(1 / clip.W())
				if ndc[k].Z() < -1 || ndc[k].Z() > 1 {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}

			// Counter-clockwise in device space is front facing.
			area := (ndc[1].X()-ndc[0].X())*(ndc[2].Y()-ndc[0].Y()) -
				(ndc[1].Y()-ndc[0].Y())*(ndc[2].X()-ndc[0].X())
			if area <= 0 {
				continue
			}
			normal := world[1].Sub(world[0]).Cross(world[2].Sub(world[0]))
			if normal.Len() == 0 {
				continue
			}
			normal = normal.Normalize()
			center := world[0].Add(world[1]).Add(world[2]).Mul(1.0 / 3)

			var tri Triangle
			for k := range 3 {
				tri.Points[k] = mgl32.Vec2{
					(ndc[k].X() + 1) * 0.5 * w,
					(1 - ndc[k].Y()) * 0.5 * h,
				}
			}
			tri.Depth = (ndc[0].Z() + ndc[1].Z() + ndc[2].Z()) / 3
			tri.Color = shade(buf, d.Color, normal, center)
			tri.order = len(r.tris)
			r.tris = append(r.tris, tri)
		}
	}

	r.mergeSort()
	return r.tris
}

// Rasterize is a convenience wrapper around a fresh Rasterizer.
func Rasterize(buf *CommandBuffer, width, height int) []Triangle {
	var r Rasterizer
	return r.Rasterize(buf, width, height)
}

// shade applies ambient and Lambert diffuse terms from every recorded light.
// Without any light the base color is returned unchanged.
func shade(buf *CommandBuffer, base, normal, center mgl32.Vec3) mgl32.Vec3 {
	if !buf.HasSun && len(buf.Points) == 0 {
		return base
	}
	var light mgl32.Vec3
	if buf.HasSun && buf.SunDir.Len() > 0 {
		toSun := buf.SunDir.Normalize().Mul(-1)
		diffuse := max(0, normal.Dot(toSun))
		light = light.Add(buf.Sun.Color.Mul(buf.Sun.Ambient + buf.Sun.Diffuse*diffuse))
	}
	for _, p := range buf.Points {
		to := p.Pos.Sub(center)
		dist := to.Len()
		var diffuse float32
		if dist > 0 {
			diffuse = max(0, normal.Dot(to.Mul(1/dist)))
		}
		att := 1 / (1 + kLinear*dist + kQuadratic*dist*dist)
		light = light.Add(p.Light.Color.Mul((p.Light.Ambient + p.Light.Diffuse*diffuse) * att))
	}
	var out mgl32.Vec3
	for i := range 3 {
		out[i] = min(1, max(0, base[i]*light[i]))
	}
	return out
}

// triangleLessOrEqual returns true if a should be painted before or at the
// same position as b. Using <= for order ensures stability.
func triangleLessOrEqual(a, b *Triangle) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.order <= b.order
}

// mergeSort sorts r.tris in-place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (r *Rasterizer) mergeSort() {
	n := len(r.tris)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]Triangle, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a := r.tris
	b := r.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(r.tris, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []Triangle, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if triangleLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
