// Package light accumulates dynamic point and simple lights for the drawers.
//
// Lights attenuate linearly: a light contributes (256 - min(dist*256/radius,
// 256)) of its colour, further scaled by the angle to the surface normal for
// point lights. The summed contribution is multiplied by the unshaded
// material colour and added to the shaded colour.
package light

import (
	"math"

	"github.com/taigrr/swdraw/pkg/math3d"
)

// MaxLights is the most lights a single drawer call considers.
const MaxLights = 16

// Light is a dynamic light in view or world space; drawers only care about
// distances so either works as long as fragments use the same space.
type Light struct {
	Pos    math3d.Vec3
	Color  uint32 // 0xRRGGBB
	Radius float64
	// Simple lights ignore the surface normal.
	Simple bool
}

// RGB is an accumulated light contribution, 0..256 per channel before
// clamping.
type RGB struct {
	R, G, B uint32
}

// IsZero reports whether no light reached the fragment.
func (c RGB) IsZero() bool {
	return c.R|c.G|c.B == 0
}

// Prepared is a light set up for one column or span. Every axis except the
// one the run moves along is folded into Hoisted.
type Prepared struct {
	Color   uint32
	Hoisted float64 // squared distance along the fixed axes
	Target  float64 // light coordinate on the varying axis
	Dir     float64 // normal dot light vector, 0 for simple and in-plane lights
	Scale   float64 // 256 / radius
}

func scale(radius float64) float64 {
	return 256 / radius
}

// PrepareColumn sets up lights for a vertical run at (x, y) whose z varies.
// The surface normal is horizontal, so the directional term does not change
// along the run. Point lights behind the surface are dropped; one level with
// the surface has no direction and lights like a simple light.
func PrepareColumn(dst []Prepared, lights []Light, x, y float64, normal math3d.Vec3) []Prepared {
	dst = dst[:0]
	for _, l := range lights {
		if len(dst) == MaxLights {
			break
		}
		if l.Radius <= 0 {
			continue
		}
		dx, dy := l.Pos.X-x, l.Pos.Y-y
		p := Prepared{
			Color:   l.Color,
			Hoisted: dx*dx + dy*dy,
			Target:  l.Pos.Z,
			Scale:   scale(l.Radius),
		}
		if !l.Simple {
			p.Dir = normal.X*dx + normal.Y*dy
			if p.Dir < 0 {
				continue
			}
		}
		dst = append(dst, p)
	}
	return dst
}

// PrepareSpan sets up lights for a horizontal run at depth y and height z
// whose x varies. normalZ is +1 for floors and -1 for ceilings.
func PrepareSpan(dst []Prepared, lights []Light, y, z, normalZ float64) []Prepared {
	dst = dst[:0]
	for _, l := range lights {
		if len(dst) == MaxLights {
			break
		}
		if l.Radius <= 0 {
			continue
		}
		dy, dz := l.Pos.Y-y, l.Pos.Z-z
		p := Prepared{
			Color:   l.Color,
			Hoisted: dy*dy + dz*dz,
			Target:  l.Pos.X,
			Scale:   scale(l.Radius),
		}
		if !l.Simple {
			p.Dir = normalZ * dz
			if p.Dir < 0 {
				continue
			}
		}
		dst = append(dst, p)
	}
	return dst
}

func attenuation(dist, scale float64) float64 {
	return 256 - min(dist*scale, 256)
}

// channel widens an 8-bit channel to 0..256 so full white scales exactly.
func channel(c uint32) uint32 {
	return c + c>>7
}

func accumulate(sum *RGB, color uint32, atten float64) {
	a := uint32(atten)
	sum.R += channel((color>>16)&0xff) * a >> 8
	sum.G += channel((color>>8)&0xff) * a >> 8
	sum.B += channel(color&0xff) * a >> 8
}

// Accumulate sums the prepared lights for a fragment at coordinate t on the
// varying axis.
func Accumulate(lights []Prepared, t float64) RGB {
	var sum RGB
	for i := range lights {
		l := &lights[i]
		d := l.Target - t
		dist2 := l.Hoisted + d*d
		dist := math.Sqrt(dist2)
		atten := attenuation(dist, l.Scale)
		if atten <= 0 {
			continue
		}
		if l.Dir != 0 && dist > 0 {
			atten *= min(l.Dir/dist, 1)
		}
		accumulate(&sum, l.Color, atten)
	}
	return sum
}

// Tilted sums lights for a fragment on a sloped plane with a true per-pixel
// normal dot product.
func Tilted(lights []Light, pos, normal math3d.Vec3) RGB {
	var sum RGB
	for i := range lights {
		l := &lights[i]
		if l.Radius <= 0 {
			continue
		}
		v := l.Pos.Sub(pos)
		dist := v.Len()
		atten := attenuation(dist, scale(l.Radius))
		if atten <= 0 {
			continue
		}
		if !l.Simple && dist > 0 {
			atten *= max(normal.Dot(v.Div(dist)), 0)
		}
		accumulate(&sum, l.Color, atten)
	}
	return sum
}

// Flat returns the contribution of a single light colour on a sprite lit at
// brightness light (0..256). The light only tops the sprite up to full
// brightness.
func Flat(color uint32, light uint32) RGB {
	add := func(c uint32) uint32 {
		return min(light+c, 256) - light
	}
	return RGB{
		R: add((color >> 16) & 0xff),
		G: add((color >> 8) & 0xff),
		B: add(color & 0xff),
	}
}

// Apply adds lit*material to base per channel, clamped to 255. base and
// material are 0xAARRGGBB; the result is opaque. A zero contribution
// returns base unchanged.
func Apply(base, material uint32, lit RGB) uint32 {
	if lit.IsZero() {
		return base
	}
	r := min(((base>>16)&0xff)+(lit.R*((material>>16)&0xff))>>8, 255)
	g := min(((base>>8)&0xff)+(lit.G*((material>>8)&0xff))>>8, 255)
	b := min((base&0xff)+(lit.B*(material&0xff))>>8, 255)
	return 0xff000000 | r<<16 | g<<8 | b
}
