package scene

import (
	"math"

	"github.com/taigrr/swdraw/pkg/math3d"
)

// Camera is a first person viewer on the grid. World space has z up; a yaw
// of zero looks along +x.
type Camera struct {
	// Position in world space. Z is the eye height.
	Position math3d.Vec3
	// Yaw in radians.
	Yaw float64
	// FOV is the horizontal field of view in radians.
	FOV float64

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a camera at pos looking along yaw.
func NewCamera(pos math3d.Vec3, yaw, fovDegrees float64) *Camera {
	return &Camera{
		Position:  pos,
		Yaw:       yaw,
		FOV:       fovDegrees * math.Pi / 180,
		viewDirty: true,
	}
}

// Forward returns the horizontal view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), math.Sin(c.Yaw), 0)
}

// Right returns the direction of increasing screen x.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Sin(c.Yaw), -math.Cos(c.Yaw), 0)
}

// Focal returns the projection distance in pixels for a screen width.
func (c *Camera) Focal(width int) float64 {
	return float64(width) / 2 / math.Tan(c.FOV/2)
}

// ViewMatrix maps world space to view space: x right, y forward and z up,
// relative to the eye.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateZ(math.Pi/2 - c.Yaw)
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ToView transforms a world point into view space.
func (c *Camera) ToView(p math3d.Vec3) math3d.Vec3 {
	return c.ViewMatrix().MulVec3(p)
}

// MoveForward moves along the view direction, or backward if negative.
// Movement into a blocked cell is dropped per axis so the camera slides
// along walls.
func (c *Camera) MoveForward(m *Map, distance float64) {
	c.move(m, c.Forward().Scale(distance))
}

// Strafe moves right, or left if negative.
func (c *Camera) Strafe(m *Map, distance float64) {
	c.move(m, c.Right().Scale(distance))
}

func (c *Camera) move(m *Map, d math3d.Vec3) {
	next := c.Position
	if p := next.Add(math3d.V3(d.X, 0, 0)); m == nil || m.Walkable(p) {
		next = p
	}
	if p := next.Add(math3d.V3(0, d.Y, 0)); m == nil || m.Walkable(p) {
		next = p
	}
	c.Position = next
	c.viewDirty = true
}

// Turn rotates the view by delta radians, counter clockwise seen from
// above.
func (c *Camera) Turn(delta float64) {
	c.Yaw = math.Mod(c.Yaw+delta, 2*math.Pi)
	if c.Yaw < 0 {
		c.Yaw += 2 * math.Pi
	}
	c.viewDirty = true
}
