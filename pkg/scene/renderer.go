package scene

import (
	"cmp"
	"image/color"
	"math"
	"runtime"
	"slices"

	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/config"
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/math3d"
	"github.com/taigrr/swdraw/pkg/palette"
	"github.com/taigrr/swdraw/pkg/render"
	"github.com/taigrr/swdraw/pkg/workq"
)

// GlobVis scales the diminishing light term: a surface at distance d gets
// a visibility of GlobVis/d.
const GlobVis = 1536

// maxLayers caps the grates and glass panes a single column collects.
const maxLayers = 8

// skyRepeats is how many times the sky texture wraps around a full turn.
const skyRepeats = 4

// Options are the render knobs a scene honours.
type Options struct {
	FadeSky       bool
	DoubleSky     bool
	TiltedFloor   bool
	DynamicLights bool
	Crosshair     bool
	Fuzz          render.FuzzMode
	// Workers is the number of strip workers. Zero uses one per CPU.
	Workers int

	// SkyTop, SkyBottom and Fog are 0xRRGGBB.
	SkyTop, SkyBottom, Fog uint32
	// LightLevel is the 0..255 ambient level.
	LightLevel int
	// FOV is the horizontal field of view in degrees.
	FOV float64
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.Default())
	return opts
}

// OptionsFromConfig extracts the scene knobs from a validated config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	fuzz, err := cfg.Render.FuzzMode()
	if err != nil {
		return Options{}, err
	}
	top, bottom, fog, err := cfg.Scene.Colors()
	if err != nil {
		return Options{}, err
	}
	return Options{
		FadeSky:       cfg.Render.FadeSky,
		DoubleSky:     cfg.Render.DoubleSky,
		TiltedFloor:   cfg.Render.TiltedFloor,
		DynamicLights: cfg.Render.DynamicLights,
		Crosshair:     cfg.Render.Crosshair,
		Fuzz:          fuzz,
		Workers:       cfg.Render.Workers,
		SkyTop:        top,
		SkyBottom:     bottom,
		Fog:           fog,
		LightLevel:    cfg.Scene.LightLevel,
		FOV:           cfg.Scene.FOV,
	}, nil
}

// Renderer draws a map from a camera. Render splits the screen into
// column strips and draws them on a worker pool, each worker with its own
// drawers; fuzz runs afterwards on the calling goroutine.
type Renderer[P render.Pixel] struct {
	Map      *Map
	Camera   *Camera
	Textures *Textures[P]
	Options  Options

	drawers  *render.Drawers[P]
	colormap *palette.Colormap
	shade    int32
	fuzz     *render.FuzzState
	workers  []*worker[P]
	q        *workq.Q[workq.Strip]

	shadowColor, glowColor, crossColor P

	f    frame[P]
	zbuf []float64
}

type worker[P render.Pixel] struct {
	d        *render.Drawers[P]
	prepared []light.Prepared
	hits     []hit
	layers   []layer
}

// frame is the per-frame state workers read but never write.
type frame[P render.Pixel] struct {
	canvas        *render.Canvas[P]
	w, h          int
	cx, cy, focal float64
	pos, dir, rgt math3d.Vec3

	viewLights []light.Light
	sprites    []sprite
	particles  []particle[P]
}

type hit struct {
	kind   Kind
	tex    int
	depth  float64
	u      float64 // 0..1 across the face
	side   int
	world  math3d.Vec3
	normal math3d.Vec3
}

type sprite struct {
	thing       *Thing
	depth       float64
	left, top   float64
	scale       float64
	x0, x1      int
	shade       render.Shade
	dyn         uint32
	translation *palette.Translation
}

type particle[P render.Pixel] struct {
	depth          float64
	sx, sy, radius float64
	x0, x1         int
	color          P
}

type layerKind uint8

const (
	layerWall layerKind = iota
	layerSprite
	layerParticle
)

type layer struct {
	depth float64
	kind  layerKind
	idx   int
}

// NewRenderer starts the worker pool. Close stops it.
func NewRenderer[P render.Pixel](d *render.Drawers[P], tables *palette.Tables, m *Map, tex *Textures[P], opts Options) *Renderer[P] {
	n := opts.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if opts.FOV <= 0 {
		opts.FOV = 66
	}
	fog := color.RGBA{uint8(opts.Fog >> 16), uint8(opts.Fog >> 8), uint8(opts.Fog), 255}
	white := color.RGBA{255, 255, 255, 255}
	f := d.Format()
	r := &Renderer[P]{
		Map:         m,
		Camera:      NewCamera(m.Start, m.StartYaw, opts.FOV),
		Textures:    tex,
		Options:     opts,
		drawers:     d,
		colormap:    palette.BuildColormap(tables, white, fog, 0),
		shade:       palette.LightToShade(opts.LightLevel),
		fuzz:        render.NewFuzzState(1),
		shadowColor: f.Pack(0x000000),
		glowColor:   f.Pack(render.RGB(0x40, 0xff, 0x80)),
		crossColor:  f.Pack(0xffffff),
	}
	for range n {
		r.workers = append(r.workers, &worker[P]{d: d.Worker()})
	}
	r.q = workq.NewQ[workq.Strip](n, n*4, r.drawStrip)
	swdraw.Logger().Debug("scene renderer started", "format", f.Name(), "workers", n,
		"things", len(m.Things), "lights", len(m.Lights))
	return r
}

// Close stops the workers.
func (r *Renderer[P]) Close() {
	r.q.Close()
}

// Format returns the pixel format the renderer draws in.
func (r *Renderer[P]) Format() render.Format[P] {
	return r.drawers.Format()
}

// SetLightLevel changes the ambient light.
func (r *Renderer[P]) SetLightLevel(level int) {
	r.Options.LightLevel = level
	r.shade = palette.LightToShade(level)
}

// Render draws one frame into c and advances the fuzz animation.
func (r *Renderer[P]) Render(c *render.Canvas[P]) {
	if c.Width <= 0 || c.Height <= 0 {
		return
	}
	r.setup(c)
	for _, s := range workq.Strips(c.Width, r.q.Workers()*4) {
		r.q.Submit(s)
	}
	r.q.Wait()

	r.drawFuzz()
	if r.Options.Crosshair {
		r.drawCrosshair()
	}
	r.fuzz.NextFrame()
}

func (r *Renderer[P]) vis(dist float64) float64 {
	return GlobVis / dist
}

func (r *Renderer[P]) setup(c *render.Canvas[P]) {
	f := &r.f
	f.canvas = c
	f.w, f.h = c.Width, c.Height
	f.cx = float64(f.w)/2 - 0.5
	f.cy = float64(f.h)/2 - 0.5
	f.focal = r.Camera.Focal(f.w)
	f.pos = r.Camera.Position
	f.dir = r.Camera.Forward()
	f.rgt = r.Camera.Right()

	f.viewLights = f.viewLights[:0]
	if r.Options.DynamicLights {
		for _, l := range r.Map.Lights {
			l.Pos = r.Camera.ToView(l.Pos)
			f.viewLights = append(f.viewLights, l)
		}
	}
	if len(r.zbuf) < f.w {
		r.zbuf = make([]float64, f.w)
	}
	r.projectSprites()
	r.projectParticles()
}

// project returns the view depth, screen x offset from the centre and the
// pixels per world unit of a world point.
func (r *Renderer[P]) project(p math3d.Vec3) (depth, xs, scale float64) {
	f := &r.f
	rel := p.Sub(f.pos)
	depth = rel.Dot(f.dir)
	if depth < 1 {
		return depth, 0, 0
	}
	scale = f.focal / depth
	return depth, rel.Dot(f.rgt) * scale, scale
}

// screenRange returns the pixel columns whose centres fall in [left, right)
// relative to the screen centre.
func (r *Renderer[P]) screenRange(left, right float64) (x0, x1 int) {
	f := &r.f
	x0 = max(int(math.Ceil(f.cx+left)), 0)
	x1 = min(int(math.Ceil(f.cx+right)), f.w)
	return x0, x1
}

func (r *Renderer[P]) projectSprites() {
	f := &r.f
	f.sprites = f.sprites[:0]
	for i := range r.Map.Things {
		th := &r.Map.Things[i]
		tex := r.Textures.Sprites[th.Sprite]
		depth, xs, scale := r.project(th.Pos)
		if scale == 0 {
			continue
		}
		sp := sprite{
			thing: th,
			depth: depth,
			scale: scale,
			left:  xs - float64(tex.Width)/2*scale,
			top:   f.cy + (f.pos.Z-th.Pos.Z-float64(tex.Height))*scale,
			shade: render.Shade{Colormap: r.colormap, Light: palette.ShadeAt(r.vis(depth), r.shade)},
		}
		sp.x0, sp.x1 = r.screenRange(sp.left, sp.left+float64(tex.Width)*scale)
		if sp.x0 >= sp.x1 {
			continue
		}
		if th.Sprite == SpriteLamp {
			sp.shade = render.Fullbright
		} else if r.Options.DynamicLights {
			sp.dyn = lightAt(r.Map.Lights, th.Pos.Add(math3d.V3(0, 0, float64(tex.Height)/2)))
		}
		if th.Sprite == SpriteFigure && th.Style != StyleNormal {
			sp.translation = r.Textures.Translation
		}
		f.sprites = append(f.sprites, sp)
	}
	slices.SortFunc(f.sprites, func(a, b sprite) int { return cmp.Compare(b.depth, a.depth) })
}

// projectParticles places a glow at every point light that is not a lamp.
func (r *Renderer[P]) projectParticles() {
	const size = 6
	f := &r.f
	f.particles = f.particles[:0]
	pack := r.drawers.Format().Pack
	for _, l := range r.Map.Lights {
		if l.Simple {
			continue
		}
		depth, xs, scale := r.project(l.Pos)
		if scale == 0 {
			continue
		}
		p := particle[P]{
			depth:  depth,
			sx:     f.cx + xs,
			sy:     f.cy + (f.pos.Z-l.Pos.Z)*scale,
			radius: size * scale,
			color:  pack(l.Color),
		}
		p.x0, p.x1 = r.screenRange(xs-p.radius, xs+p.radius)
		if p.x0 < p.x1 {
			f.particles = append(f.particles, p)
		}
	}
}

// lightAt sums the lights reaching p into one 0xRRGGBB colour, fading each
// linearly over its radius.
func lightAt(lights []light.Light, p math3d.Vec3) uint32 {
	var sum [3]float64
	for _, l := range lights {
		d := l.Pos.Distance(p)
		if l.Radius <= 0 || d >= l.Radius {
			continue
		}
		a := 1 - d/l.Radius
		sum[0] += a * float64((l.Color>>16)&0xff)
		sum[1] += a * float64((l.Color>>8)&0xff)
		sum[2] += a * float64(l.Color&0xff)
	}
	var out uint32
	for _, c := range sum {
		out = out<<8 | uint32(min(c, 255))
	}
	return out
}

func (r *Renderer[P]) drawStrip(id int, s workq.Strip) {
	w := r.workers[id]
	r.drawFloor(w, s)
	for x := s.X0; x < s.X1; x++ {
		r.drawColumn(w, x)
	}
}

// horizon is the first floor row. Rows above it are sky.
func (r *Renderer[P]) horizon() int {
	return int(math.Floor(r.f.cy)) + 1
}

func (r *Renderer[P]) drawFloor(w *worker[P], s workq.Strip) {
	f := &r.f
	tex := r.Textures.Floor
	for y := r.horizon(); y < f.h; y++ {
		dist := f.pos.Z * f.focal / (float64(y) - f.cy)
		if r.Options.TiltedFloor {
			r.drawTiltedRow(w, s, y, dist)
			continue
		}
		xs0 := float64(s.X0) - f.cx
		step := dist / f.focal
		wx := f.pos.X + f.dir.X*dist + f.rgt.X*xs0*step
		wy := f.pos.Y + f.dir.Y*dist + f.rgt.Y*xs0*step
		a := render.SpanArgs[P]{
			Dest: f.canvas, Y: y, X1: s.X0, X2: s.X1 - 1,
			Source: tex.Pixels, Width: tex.Width, Height: tex.Height,
			XFrac: fixed.Norm(wx / CellSize), YFrac: fixed.Norm(wy / CellSize),
			XStep: fixed.Norm(f.rgt.X * step / CellSize), YStep: fixed.Norm(f.rgt.Y * step / CellSize),
			Shade: render.Shade{Colormap: r.colormap, Light: palette.ShadeAt(r.vis(dist), r.shade)},
		}
		if len(f.viewLights) > 0 {
			w.prepared = light.PrepareSpan(w.prepared, f.viewLights, dist, -f.pos.Z, 1)
			a.Lights = w.prepared
			a.ViewX, a.ViewXStep = xs0*step, step
		}
		w.d.DrawSpan(&a)
	}
}

// drawTiltedRow draws a floor row through the perspective correct drawer.
// The floor is level so 1/z only varies per row, but the gradients are
// the general plane form.
func (r *Renderer[P]) drawTiltedRow(w *worker[P], s workq.Strip, y int, dist float64) {
	const k = (1 << 32) / CellSize
	f := &r.f
	tex := r.Textures.Floor
	a := render.TiltedArgs[P]{
		Dest: f.canvas, Y: y, X1: s.X0, X2: s.X1 - 1,
		Source: tex.Pixels, Width: tex.Width, Height: tex.Height,
		SZ:      [3]float64{0, -1 / (f.pos.Z * f.focal), 0},
		SU:      [3]float64{f.rgt.X / f.focal * k, 0, f.dir.X * k},
		SV:      [3]float64{f.rgt.Y / f.focal * k, 0, f.dir.Y * k},
		CenterX: f.cx, CenterY: f.cy,
		PViewX: fixed.Norm(f.pos.X / CellSize), PViewY: fixed.Norm(f.pos.Y / CellSize),
		Shade:      render.Shade{Colormap: r.colormap},
		PlaneShade: r.shade,
		PlaneLight: GlobVis,
	}
	if len(f.viewLights) > 0 {
		step := dist / f.focal
		a.Lights = f.viewLights
		a.ViewPos = math3d.V3((float64(s.X0)-f.cx)*step, dist, -f.pos.Z)
		a.ViewPosStep = math3d.V3(step, 0, 0)
		a.Normal = math3d.V3(0, 0, 1)
	}
	w.d.DrawTiltedSpan(&a)
}

func (r *Renderer[P]) drawColumn(w *worker[P], x int) {
	f := &r.f
	xs := float64(x) - f.cx
	ray := f.dir.Add(f.rgt.Scale(xs / f.focal))
	w.hits = r.cast(w.hits[:0], ray)
	solid := &w.hits[len(w.hits)-1]
	r.zbuf[x] = solid.depth

	r.drawSky(w, x, xs)
	if a, ok := r.wallArgs(w, x, solid, r.wallTexture(solid)); ok {
		w.d.DrawWall(&a)
	}

	w.layers = w.layers[:0]
	for i := range len(w.hits) - 1 {
		w.layers = append(w.layers, layer{w.hits[i].depth, layerWall, i})
	}
	for i := range f.sprites {
		sp := &f.sprites[i]
		if sp.thing.Style != StyleFuzz && x >= sp.x0 && x < sp.x1 && sp.depth < solid.depth {
			w.layers = append(w.layers, layer{sp.depth, layerSprite, i})
		}
	}
	for i := range f.particles {
		p := &f.particles[i]
		if x >= p.x0 && x < p.x1 && p.depth < solid.depth {
			w.layers = append(w.layers, layer{p.depth, layerParticle, i})
		}
	}
	slices.SortStableFunc(w.layers, func(a, b layer) int { return cmp.Compare(b.depth, a.depth) })

	for _, l := range w.layers {
		switch l.kind {
		case layerWall:
			r.drawPane(w, x, &w.hits[l.idx])
		case layerSprite:
			r.drawSprite(w, x, &f.sprites[l.idx])
		case layerParticle:
			r.drawParticle(w, x, &f.particles[l.idx])
		}
	}
}

func (r *Renderer[P]) wallTexture(h *hit) *render.Texture[P] {
	switch h.kind {
	case Grate:
		return r.Textures.Grate
	case Glass:
		return r.Textures.Glass
	}
	return r.Textures.Walls[min(h.tex, len(r.Textures.Walls)-1)]
}

// cast walks the grid along ray and returns the grates and glass it passes
// followed by the solid wall that stops it.
func (r *Renderer[P]) cast(hits []hit, ray math3d.Vec3) []hit {
	m := r.Map
	px, py := r.f.pos.X/CellSize, r.f.pos.Y/CellSize
	mx, my := int(math.Floor(px)), int(math.Floor(py))

	ddx, ddy := math.Inf(1), math.Inf(1)
	if ray.X != 0 {
		ddx = math.Abs(1 / ray.X)
	}
	if ray.Y != 0 {
		ddy = math.Abs(1 / ray.Y)
	}
	stepX, sideX := 1, (float64(mx)+1-px)*ddx
	if ray.X < 0 {
		stepX, sideX = -1, (px-float64(mx))*ddx
	}
	stepY, sideY := 1, (float64(my)+1-py)*ddy
	if ray.Y < 0 {
		stepY, sideY = -1, (py-float64(my))*ddy
	}

	layers := 0
	for range 2*(m.Width+m.Height) + 4 {
		var t float64
		side := 0
		if sideX < sideY {
			t, mx = sideX, mx+stepX
			sideX += ddx
		} else {
			t, my, side = sideY, my+stepY, 1
			sideY += ddy
		}
		c := m.At(mx, my)
		if c.Kind == Empty || (c.Kind != Solid && layers == maxLayers) {
			continue
		}

		hx, hy := px+ray.X*t, py+ray.Y*t
		h := hit{kind: c.Kind, tex: c.Tex, depth: max(t*CellSize, 1), side: side}
		if side == 0 {
			h.u = hy - math.Floor(hy)
			if ray.X > 0 {
				h.u = 1 - h.u
			}
			h.normal = math3d.V3(-float64(stepX), 0, 0)
		} else {
			h.u = hx - math.Floor(hx)
			if ray.Y < 0 {
				h.u = 1 - h.u
			}
			h.normal = math3d.V3(0, -float64(stepY), 0)
		}
		h.world = math3d.V3(hx*CellSize, hy*CellSize, 0)
		hits = append(hits, h)
		if c.Kind == Solid {
			return hits
		}
		layers++
	}
	// At is solid outside the map, so this only happens on a degenerate ray.
	return append(hits, hit{kind: Solid, depth: math.MaxFloat32})
}

// wallArgs sets up the column for a wall face, clipped to the screen.
func (r *Renderer[P]) wallArgs(w *worker[P], x int, h *hit, tex *render.Texture[P]) (render.ColumnArgs[P], bool) {
	f := &r.f
	scale := f.focal / h.depth
	top := f.cy + (f.pos.Z-CellSize)*scale
	bottom := f.cy + f.pos.Z*scale
	y0 := max(int(math.Ceil(top)), 0)
	y1 := min(int(math.Ceil(bottom)), f.h)
	if y1 <= y0 {
		return render.ColumnArgs[P]{}, false
	}

	u := h.u * float64(tex.Width)
	tx := min(int(u), tex.Width-1)
	step := 1 / (CellSize * scale)
	bits := fixed.WallBits(tex.Height)
	level := palette.ShadeAt(r.vis(h.depth), r.shade)
	if h.side == 1 {
		level += fixed.Unit
	}
	a := render.ColumnArgs[P]{
		Dest: f.canvas, X: x, Y: y0, Count: y1 - y0,
		Source: tex.Column(tx), Height: tex.Height, FracBits: bits,
		TexFrac: fixed.WallPos(fixed.Norm((float64(y0)-top)*step), tex.Height, bits),
		TexStep: fixed.WallPos(fixed.Norm(step), tex.Height, bits),
		Shade:   render.Shade{Colormap: r.colormap, Light: level},
	}
	if w.d.Filter() == render.FilterBilinear {
		a.Source2 = tex.Column(tx + 1)
		a.FilterX = uint32((u - math.Floor(u)) * 16)
	}
	if r.Options.DynamicLights && len(r.Map.Lights) > 0 {
		w.prepared = light.PrepareColumn(w.prepared, r.Map.Lights, h.world.X, h.world.Y, h.normal)
		a.Lights = w.prepared
		a.ViewZ = f.pos.Z - (float64(y0)-f.cy)/scale
		a.ViewZStep = -1 / scale
	}
	return a, true
}

// drawPane draws a grate or glass face in front of the solid wall.
func (r *Renderer[P]) drawPane(w *worker[P], x int, h *hit) {
	a, ok := r.wallArgs(w, x, h, r.wallTexture(h))
	if !ok {
		return
	}
	if h.kind == Glass {
		a.SrcAlpha, a.DestAlpha = fixed.Unit/3, fixed.Unit*2/3
		w.d.DrawWallAdd(&a)
		return
	}
	w.d.DrawWallMasked(&a)
}

func (r *Renderer[P]) drawSky(w *worker[P], x int, xs float64) {
	f := &r.f
	count := min(r.horizon(), f.h)
	if count <= 0 {
		return
	}
	angle := r.Camera.Yaw - math.Atan2(xs, f.focal)
	sky := r.Textures.Sky
	col := int(math.Floor(-angle / (2 * math.Pi) * float64(sky.Width*skyRepeats)))
	a := render.SkyArgs[P]{
		Dest: f.canvas, X: x, Count: count,
		Front: sky.Column(col), FrontHeight: sky.Height,
		TexStep:  int32((2 << 24) / count),
		TopColor: r.Options.SkyTop, BottomColor: r.Options.SkyBottom,
		FadeSky: r.Options.FadeSky,
	}
	if r.Options.DoubleSky {
		clouds, stars := r.Textures.Clouds, r.Textures.Stars
		a.Front, a.FrontHeight = clouds.Column(col), clouds.Height
		a.Back, a.BackHeight = stars.Column(col/2), stars.Height
		w.d.DrawDoubleSkyColumn(&a)
		return
	}
	w.d.DrawSingleSkyColumn(&a)
}

// postArgs positions a for the visible pixels of post p of a sprite whose
// texture top lands at screen row top. a.TexStep must be set. It reports
// false when nothing of the post is on screen.
func postArgs[P render.Pixel](a *render.ColumnArgs[P], top, scale float64, p post, height int) bool {
	y0 := int(math.Ceil(top + float64(p.Top)*scale))
	frac := max(uint32((float64(y0)-top)/scale*fixed.Unit), uint32(p.Top)<<16)
	end := uint32(p.Bottom) << 16
	if frac >= end {
		return false
	}
	count := int((end-1-frac)/a.TexStep) + 1
	if y0 < 0 {
		skip := -y0
		if skip >= count {
			return false
		}
		frac += uint32(skip) * a.TexStep
		count -= skip
		y0 = 0
	}
	count = min(count, height-y0)
	if count <= 0 {
		return false
	}
	a.Y, a.Count, a.TexFrac = y0, count, frac
	return true
}

// spriteColumn returns the texture column of sp under screen column x and
// the 16.16 texel step.
func (r *Renderer[P]) spriteColumn(sp *sprite, x int) (col []uint8, tx int, step uint32, ok bool) {
	tex := r.Textures.Sprites[sp.thing.Sprite]
	tx = int(math.Floor((float64(x) - r.f.cx - sp.left) / sp.scale))
	if tx < 0 || tx >= tex.Width {
		return nil, 0, 0, false
	}
	return tex.Column(tx), tx, max(uint32(fixed.Unit/sp.scale), 1), true
}

func (r *Renderer[P]) drawSprite(w *worker[P], x int, sp *sprite) {
	col, tx, step, ok := r.spriteColumn(sp, x)
	if !ok {
		return
	}
	a := render.ColumnArgs[P]{
		Dest: r.f.canvas, X: x,
		Indexed: col, Height: len(col), TexStep: step,
		Translation: sp.translation,
		Shade:       sp.shade,
		DynLight:    sp.dyn,
	}
	for _, p := range r.Textures.Posts[sp.thing.Sprite][tx] {
		if postArgs(&a, sp.top, sp.scale, p, r.f.h) {
			r.drawPost(w.d, sp, &a)
		}
	}
}

// drawPost picks the drawer for a sprite style. Translated variants are
// used whenever the sprite carries a translation.
func (r *Renderer[P]) drawPost(d *render.Drawers[P], sp *sprite, a *render.ColumnArgs[P]) {
	tr := a.Translation != nil
	switch sp.thing.Style {
	case StyleTranslated:
		d.DrawTranslatedColumn(a)
	case StyleAdd:
		a.SrcAlpha, a.DestAlpha = fixed.Unit/2, fixed.Unit/2
		if tr {
			d.DrawTranslatedAddColumn(a)
		} else {
			d.DrawAddColumn(a)
		}
	case StyleAddClamp:
		a.SrcAlpha, a.DestAlpha = fixed.Unit, fixed.Unit
		if tr {
			d.DrawAddClampTranslatedColumn(a)
		} else {
			d.DrawAddClampColumn(a)
		}
	case StyleSubClamp:
		a.SrcAlpha, a.DestAlpha = fixed.Unit, fixed.Unit
		if tr {
			d.DrawSubClampTranslatedColumn(a)
		} else {
			d.DrawSubClampColumn(a)
		}
	case StyleRevSubClamp:
		a.SrcAlpha, a.DestAlpha = fixed.Unit, fixed.Unit
		if tr {
			d.DrawRevSubClampTranslatedColumn(a)
		} else {
			d.DrawRevSubClampColumn(a)
		}
	case StyleShadow:
		a.Mask, a.Color = r.Textures.Mask, r.shadowColor
		d.DrawShadedColumn(a)
	case StyleGlow:
		a.Mask, a.Color = r.Textures.Mask, r.glowColor
		d.DrawAddClampShadedColumn(a)
	default:
		d.DrawColumn(a)
	}
}

func (r *Renderer[P]) drawParticle(w *worker[P], x int, p *particle[P]) {
	dx := float64(x) - p.sx
	half := math.Sqrt(max(p.radius*p.radius-dx*dx, 0))
	y0 := max(int(math.Ceil(p.sy-half)), 0)
	y1 := min(int(math.Ceil(p.sy+half)), r.f.h)
	a := render.ColumnArgs[P]{
		Dest: r.f.canvas, X: x, Y: y0, Count: y1 - y0,
		Color: p.color, SrcAlpha: fixed.Unit / 2,
	}
	w.d.DrawParticleColumn(&a)
}

// drawFuzz draws fuzz sprites after the workers finish. The fuzz phase is
// shared, so these columns run on one goroutine.
func (r *Renderer[P]) drawFuzz() {
	f := &r.f
	for i := range f.sprites {
		sp := &f.sprites[i]
		if sp.thing.Style != StyleFuzz {
			continue
		}
		for x := sp.x0; x < sp.x1; x++ {
			if sp.depth >= r.zbuf[x] {
				continue
			}
			_, tx, step, ok := r.spriteColumn(sp, x)
			if !ok {
				continue
			}
			a := render.ColumnArgs[P]{TexStep: step}
			for _, p := range r.Textures.Posts[sp.thing.Sprite][tx] {
				if !postArgs(&a, sp.top, sp.scale, p, f.h) {
					continue
				}
				r.drawers.DrawFuzz(r.Options.Fuzz, &render.FuzzArgs[P]{
					Dest: f.canvas, X: x, Y: a.Y, Count: a.Count,
					Colormap: r.colormap,
				}, r.fuzz)
			}
		}
	}
}

func (r *Renderer[P]) drawCrosshair() {
	const arm = 3
	f := &r.f
	cx, cy := f.w/2, f.h/2
	r.drawers.FillSpan(&render.SpanArgs[P]{
		Dest: f.canvas, Y: cy,
		X1: max(cx-arm, 0), X2: min(cx+arm, f.w-1),
		Color: r.crossColor,
	})
	y0 := max(cy-arm, 0)
	r.drawers.FillColumn(&render.ColumnArgs[P]{
		Dest: f.canvas, X: cx, Y: y0, Count: min(cy+arm, f.h-1) - y0 + 1,
		Color: r.crossColor,
	})
}
