package softhost

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/relight-go/baker/host"
	"github.com/Carmen-Shannon/relight-go/common"
	xdraw "golang.org/x/image/draw"
)

// texelCoverage maps one lightmap texel to the triangle covering it and the
// barycentric weights of the texel center inside that triangle's UV island.
type texelCoverage struct {
	tri        int32 // -1 = uncovered
	b0, b1, b2 float64
}

// soupTri is one precomputed occluder triangle: base vertex plus edge vectors
// for the intersection test.
type soupTri struct {
	a, e1, e2 Vec3
}

// bakeContext carries the immutable per-bake state shared by all shading bands.
type bakeContext struct {
	mesh       *Mesh
	occluders  []soupTri
	lights     []Light
	surface    *Node
	req        host.BakeRequest
	aoDistance float64
}

// ExecuteBake runs the CPU lightmap renderer for one object: rasterize the
// first UV channel into the bound bake image, shade each covered texel with
// direct lighting, hard shadows and (for Combined) cosine-weighted ambient
// occlusion, then dilate island borders by the requested margin. The image is
// cleared before baking. Texel shading fans out over the scene's worker pool;
// the call blocks until the bake is complete.
//
// The surface response sampled is whatever currently feeds the first
// material's output socket, so a bake faithfully reproduces the object's
// present wiring — baking an object left in baked wiring would sample its own
// lightmap, which is why the orchestrator re-applies the original wiring
// before re-baking.
func (s *scene) ExecuteBake(obj host.Object, req host.BakeRequest) error {
	o, err := s.own(obj)
	if err != nil {
		return fmt.Errorf("%v: %w", err, host.ErrBakeFailed)
	}
	if req.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d: %w", req.Samples, host.ErrBakeFailed)
	}
	if req.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %d: %w", req.Margin, host.ErrBakeFailed)
	}
	if !req.Type.Valid() {
		return fmt.Errorf("invalid bake type %d: %w", int(req.Type), host.ErrBakeFailed)
	}
	if o.mesh.FaceCount() == 0 {
		return fmt.Errorf("%s: %w", o.name, host.ErrNoGeometry)
	}
	if len(o.mesh.Channels) == 0 {
		return fmt.Errorf("%s: no UV channel to bake into: %w", o.name, host.ErrBakeFailed)
	}
	lights := s.Lights()
	if len(lights) == 0 {
		return fmt.Errorf("no light sources in scene: %w", host.ErrBakeFailed)
	}
	target := bakeTargetImage(o)
	if target == nil {
		return fmt.Errorf("%s: no bake target bound: %w", o.name, host.ErrBakeFailed)
	}

	size := target.Width() * s.supersample
	buf := target
	if s.supersample > 1 {
		buf = newImage(target.name, size, target.alpha)
	}
	buf.Clear()

	bc := &bakeContext{
		mesh:       o.mesh,
		occluders:  s.triangleSoup(),
		lights:     lights,
		surface:    surfaceNode(o),
		req:        req,
		aoDistance: s.aoDistance,
	}
	cov := rasterizeCoverage(o.mesh, o.mesh.Channels[0], size)

	// Fan texel shading out over the pool in row bands, synchronized with an
	// external WaitGroup. Bands write disjoint rows so no locking is needed.
	var wg sync.WaitGroup
	rows := max(size/(s.bakeWorkers*4), 1)
	taskID := 0
	for y0 := 0; y0 < size; y0 += rows {
		y1 := min(y0+rows, size)
		wg.Add(1)
		y0c, y1c := y0, y1
		id := taskID
		taskID++
		s.bakePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				// Deterministic per-band seed: identical requests shade
				// identical texels.
				seed := int64(uint64(y0c+1)*0x9e3779b97f4a7c15 ^ uint64(req.Samples))
				rng := rand.New(rand.NewSource(seed))
				bc.shadeBand(buf, cov, size, y0c, y1c, rng)
				return nil, nil
			},
		})
	}
	wg.Wait()

	covered := make([]bool, len(cov))
	for i := range cov {
		covered[i] = cov[i].tri >= 0
	}
	dilate(buf, covered, req.Margin*s.supersample)

	if buf != target {
		target.Clear()
		downscaleInto(target, buf)
	}
	common.Logger().Info("bake complete", "object", o.name, "type", req.Type, "size", target.Width(), "samples", req.Samples)
	return nil
}

// bakeTargetImage resolves the softhost image bound as the object's bake
// target. All materials share one bake image, so the first binding wins.
func bakeTargetImage(o *object) *Image {
	for _, g := range o.materials {
		id, ok := g.BakeTarget()
		if !ok {
			continue
		}
		n := g.Node(id)
		if n == nil {
			continue
		}
		if im, ok := n.Image.(*Image); ok {
			return im
		}
	}
	return nil
}

// surfaceNode resolves the node feeding the first material's output socket.
// Per-face material assignment is not modeled; the first slot shades the
// whole object.
func surfaceNode(o *object) *Node {
	if len(o.materials) == 0 {
		return nil
	}
	return o.materials[0].surface()
}

// rasterizeCoverage computes, for every texel center, the triangle of the UV
// channel covering it and the barycentric weights inside it.
func rasterizeCoverage(mesh *Mesh, ch UVChannel, size int) []texelCoverage {
	cov := make([]texelCoverage, size*size)
	for i := range cov {
		cov[i].tri = -1
	}
	fsize := float64(size)
	for t := range mesh.Triangles {
		uv := ch.Coords[t]
		minU := math.Min(uv[0].U, math.Min(uv[1].U, uv[2].U))
		maxU := math.Max(uv[0].U, math.Max(uv[1].U, uv[2].U))
		minV := math.Min(uv[0].V, math.Min(uv[1].V, uv[2].V))
		maxV := math.Max(uv[0].V, math.Max(uv[1].V, uv[2].V))
		x0 := max(int(minU*fsize)-1, 0)
		x1 := min(int(maxU*fsize)+1, size-1)
		y0 := max(int(minV*fsize)-1, 0)
		y1 := min(int(maxV*fsize)+1, size-1)

		denom := (uv[1].V-uv[2].V)*(uv[0].U-uv[2].U) + (uv[2].U-uv[1].U)*(uv[0].V-uv[2].V)
		if denom == 0 {
			continue // degenerate island
		}
		for y := y0; y <= y1; y++ {
			pv := (float64(y) + 0.5) / fsize
			for x := x0; x <= x1; x++ {
				pu := (float64(x) + 0.5) / fsize
				b0 := ((uv[1].V-uv[2].V)*(pu-uv[2].U) + (uv[2].U-uv[1].U)*(pv-uv[2].V)) / denom
				b1 := ((uv[2].V-uv[0].V)*(pu-uv[2].U) + (uv[0].U-uv[2].U)*(pv-uv[2].V)) / denom
				b2 := 1 - b0 - b1
				const eps = -1e-9
				if b0 >= eps && b1 >= eps && b2 >= eps {
					cov[y*size+x] = texelCoverage{tri: int32(t), b0: b0, b1: b1, b2: b2}
				}
			}
		}
	}
	return cov
}

// shadeBand shades the covered texels of rows [y0, y1).
func (bc *bakeContext) shadeBand(buf *Image, cov []texelCoverage, size, y0, y1 int, rng *rand.Rand) {
	fsize := float64(size)
	for y := y0; y < y1; y++ {
		for x := 0; x < size; x++ {
			c := cov[y*size+x]
			if c.tri < 0 {
				continue
			}
			tri := bc.mesh.Triangles[c.tri]
			p0, p1, p2 := bc.mesh.Positions[tri[0]], bc.mesh.Positions[tri[1]], bc.mesh.Positions[tri[2]]
			P := p0.Scale(c.b0).Add(p1.Scale(c.b1)).Add(p2.Scale(c.b2))
			N := bc.mesh.Normal(int(c.tri))
			u := (float64(x) + 0.5) / fsize
			v := (float64(y) + 0.5) / fsize
			col := bc.shade(P, N, u, v, rng)
			buf.set(x, y, [4]float32{float32(col[0]), float32(col[1]), float32(col[2]), 1})
		}
	}
}

// shade computes one texel's baked color.
func (bc *bakeContext) shade(P, N Vec3, u, v float64, rng *rand.Rand) [3]float64 {
	albedo, emissive, rough := evalSurface(bc.surface, u, v)
	origin := P.Add(N.Scale(1e-4))
	shininess := 2 + (1-rough)*126

	var direct, ambient, spec [3]float64
	for _, l := range bc.lights {
		switch l.Type {
		case LightTypeAmbient:
			ambient = addRGB(ambient, scaleRGB(l.Color, l.Intensity))

		case LightTypeDirectional:
			L := l.Direction.Scale(-1)
			ndl := N.Dot(L)
			if ndl <= 0 || bc.occluded(origin, L, math.Inf(1)) {
				continue
			}
			direct = addRGB(direct, scaleRGB(l.Color, l.Intensity*ndl))
			spec = addRGB(spec, scaleRGB(l.Color, l.Intensity*specTerm(N, L, shininess)))

		case LightTypePoint:
			toL := l.Position.Sub(P)
			dist := toL.Length()
			if dist <= 0 || (l.Range > 0 && dist > l.Range) {
				continue
			}
			L := toL.Scale(1 / dist)
			ndl := N.Dot(L)
			if ndl <= 0 || bc.occluded(origin, L, dist-1e-4) {
				continue
			}
			att := l.Intensity / (1 + dist*dist)
			direct = addRGB(direct, scaleRGB(l.Color, att*ndl))
			spec = addRGB(spec, scaleRGB(l.Color, att*specTerm(N, L, shininess)))
		}
	}

	switch bc.req.Type {
	case common.BakeTypeDiffuse:
		return mulRGB(albedo, addRGB(direct, ambient))
	case common.BakeTypeGlossy:
		return spec
	default: // Combined
		ao := bc.ambientOcclusion(origin, N, rng)
		lit := addRGB(direct, scaleRGB(ambient, ao))
		return addRGB(mulRGB(albedo, lit), emissive)
	}
}

// evalSurface evaluates the surface response at a texel: a shader node yields
// its color parameters, a texture node samples its image, an unwired output
// falls back to mid grey.
func evalSurface(n *Node, u, v float64) (albedo, emissive [3]float64, rough float64) {
	if n == nil {
		return [3]float64{0.8, 0.8, 0.8}, [3]float64{}, 0.8
	}
	if n.Kind == NodeKindTexture {
		if im, ok := n.Image.(*Image); ok {
			c := im.Sample(u, v)
			return [3]float64{float64(c[0]), float64(c[1]), float64(c[2])}, [3]float64{}, 0.8
		}
		return [3]float64{}, [3]float64{}, 0.8
	}
	return n.BaseColor, n.Emissive, n.Roughness
}

// specTerm is a Blinn-Phong highlight with the surface normal standing in for
// the view direction, keeping the lightmap view-independent.
func specTerm(N, L Vec3, shininess float64) float64 {
	H := L.Add(N).Normalize()
	ndh := N.Dot(H)
	if ndh <= 0 {
		return 0
	}
	return math.Pow(ndh, shininess)
}

// ambientOcclusion estimates sky visibility with cosine-weighted hemisphere
// sampling: the fraction of sample rays that escape within aoDistance.
func (bc *bakeContext) ambientOcclusion(origin, N Vec3, rng *rand.Rand) float64 {
	hits := 0
	for i := 0; i < bc.req.Samples; i++ {
		if bc.occluded(origin, sampleHemisphere(N, rng), bc.aoDistance) {
			hits++
		}
	}
	return 1 - float64(hits)/float64(bc.req.Samples)
}

// sampleHemisphere returns a cosine-weighted unit direction on the hemisphere
// around unit normal n: uniform disk sample lifted by sqrt(1-r^2).
func sampleHemisphere(n Vec3, rng *rand.Rand) Vec3 {
	u, w := orthonormalBasis(n)
	r := math.Sqrt(rng.Float64())
	theta := 2 * math.Pi * rng.Float64()
	x := r * math.Cos(theta)
	y := r * math.Sin(theta)
	z := math.Sqrt(math.Max(0, 1-r*r))
	return u.Scale(x).Add(w.Scale(y)).Add(n.Scale(z)).Normalize()
}

// occluded reports whether any scene triangle blocks the ray within maxDist.
// Möller-Trumbore, both-sided.
func (bc *bakeContext) occluded(origin, dir Vec3, maxDist float64) bool {
	const eps = 1e-9
	for _, tr := range bc.occluders {
		p := dir.Cross(tr.e2)
		det := tr.e1.Dot(p)
		if det > -eps && det < eps {
			continue
		}
		inv := 1 / det
		tvec := origin.Sub(tr.a)
		u := tvec.Dot(p) * inv
		if u < 0 || u > 1 {
			continue
		}
		q := tvec.Cross(tr.e1)
		v := dir.Dot(q) * inv
		if v < 0 || u+v > 1 {
			continue
		}
		t := tr.e2.Dot(q) * inv
		if t > 1e-4 && t < maxDist {
			return true
		}
	}
	return false
}

// triangleSoup gathers every object's world-space triangles as occluders, in
// registration order.
func (s *scene) triangleSoup() []soupTri {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var soup []soupTri
	for _, name := range s.order {
		m := s.objects[name].mesh
		if m == nil {
			continue
		}
		for _, tri := range m.Triangles {
			a, b, c := m.Positions[tri[0]], m.Positions[tri[1]], m.Positions[tri[2]]
			soup = append(soup, soupTri{a: a, e1: b.Sub(a), e2: c.Sub(a)})
		}
	}
	return soup
}

// dilate grows island borders outward one texel per pass, so bilinear
// sampling at display time does not bleed background into the islands.
func dilate(im *Image, covered []bool, passes int) {
	size := im.Width()
	for p := 0; p < passes; p++ {
		next := make([]bool, len(covered))
		copy(next, covered)
		changed := false
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				i := y*size + x
				if covered[i] {
					continue
				}
				var sum [4]float32
				cnt := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= size || ny >= size || (dx == 0 && dy == 0) {
							continue
						}
						if !covered[ny*size+nx] {
							continue
						}
						c := im.At(nx, ny)
						sum[0] += c[0]
						sum[1] += c[1]
						sum[2] += c[2]
						sum[3] += c[3]
						cnt++
					}
				}
				if cnt > 0 {
					f := 1 / float32(cnt)
					im.set(x, y, [4]float32{sum[0] * f, sum[1] * f, sum[2] * f, sum[3] * f})
					next[i] = true
					changed = true
				}
			}
		}
		covered = next
		if !changed {
			break
		}
	}
}

// downscaleInto rescales the supersampled buffer into the target with a
// Catmull-Rom filter.
func downscaleInto(dst, src *Image) {
	srcImg := src.toNRGBA()
	dstImg := image.NewNRGBA(image.Rect(0, 0, dst.Width(), dst.Height()))
	xdraw.CatmullRom.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			c := dstImg.NRGBAAt(x, y)
			dst.set(x, y, [4]float32{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
				float32(c.A) / 255,
			})
		}
	}
}

func addRGB(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func mulRGB(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func scaleRGB(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}
