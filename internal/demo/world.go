package demo

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/engine/drawlist"
	"github.com/Faultbox/drawqueue/internal/engine/lighting"
	"github.com/Faultbox/drawqueue/internal/engine/model"
	"github.com/Faultbox/drawqueue/internal/engine/scene"
	"github.com/Faultbox/drawqueue/internal/engine/texture"
	"github.com/Faultbox/drawqueue/internal/logger"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Uploader creates the GPU resources a world needs.
type Uploader interface {
	UploadMesh(md *model.Mesh) (*drawlist.Geometry, error)
	UploadTexture(img image.Image) drawlist.Texture
	UploadCubeMap(faces [6]image.Image) drawlist.Texture
	UploadTransforms(mats []math.Mat4)
}

// WorldOptions replace generated textures with image files.
type WorldOptions struct {
	GroundTexture  string
	HullTexture    string
	MaxTextureSize int
}

// load returns the file at path, or gen's output when path is empty or
// the file cannot be decoded.
func (o WorldOptions) load(path string, gen func() image.Image) image.Image {
	if path == "" {
		return gen()
	}
	img, err := texture.Load(path)
	if err != nil {
		logger.Named("demo").Warn("using generated texture", zap.String("path", path), zap.Error(err))
		return gen()
	}
	texture.ApplyColorKey(img)
	return texture.Fit(img, o.MaxTextureSize)
}

// World is the demo scene plus the handles the frame loop animates.
type World struct {
	Scene  *scene.Scene
	EnvMap drawlist.Texture
	// EnvMapAlpha is set when the sky's alpha masks reflections.
	EnvMapAlpha bool

	Ship    *scene.Object
	Station *scene.Object

	// Turret spin fed into the batched submodel matrices.
	turretAngle float32
	transforms  []math.Mat4
}

const (
	texSize    = 128
	shipLength = 20
)

// turretPivot is the turret's center in ship space, matching model.Ship.
var turretPivot = math.Vec3{Y: shipLength / 2 * 0.35, Z: shipLength / 2 * 0.2}

var (
	grey     = color.RGBA{150, 150, 160, 255}
	darkGrey = color.RGBA{70, 70, 80, 255}
)

// BuildWorld uploads meshes and textures and lays out the demo scene.
func BuildWorld(up Uploader, opts WorldOptions) (*World, error) {
	mesh := func(name string, md *model.Mesh) (*drawlist.Geometry, error) {
		g, err := up.UploadMesh(md)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		return g, nil
	}

	groundGeo, err := mesh("ground", model.Plane(400, 20))
	if err != nil {
		return nil, err
	}
	boxGeo, err := mesh("box", model.Box(8, 8, 8))
	if err != nil {
		return nil, err
	}
	ringGeo, err := mesh("ring", model.Ring(30, 40, 48))
	if err != nil {
		return nil, err
	}
	shipMesh := model.Ship(shipLength)
	shipGeo, err := mesh("ship", shipMesh)
	if err != nil {
		return nil, err
	}

	checker := up.UploadTexture(Checker(texSize, 8, grey, darkGrey))
	groundTex := up.UploadTexture(opts.load(opts.GroundTexture, func() image.Image {
		return Checker(texSize, 8, grey, darkGrey)
	}))
	hull := up.UploadTexture(opts.load(opts.HullTexture, func() image.Image {
		return Solid(texSize/8, color.RGBA{255, 255, 255, 255})
	}))
	panels := up.UploadTexture(Panels(texSize, 4))
	height := up.UploadTexture(Checker(texSize, 4, color.RGBA{40, 40, 40, 255}, color.RGBA{200, 200, 200, 255}))
	white := up.UploadTexture(Solid(texSize/8, color.RGBA{255, 255, 255, 255}))
	// Alpha scales the environment reflection.
	spec := up.UploadTexture(Solid(texSize/8, color.RGBA{180, 180, 180, 90}))
	glow := up.UploadTexture(Checker(texSize, 16, color.RGBA{A: 255}, color.RGBA{255, 160, 40, 255}))
	stripes := up.UploadTexture(Stripes(texSize, 6))

	// The horizon reflects less than the zenith.
	sky := Sky(texSize/2, color.RGBA{120, 128, 140, 140}, color.RGBA{40, 60, 120, 255})
	w := &World{
		Scene:  scene.New(),
		EnvMap: up.UploadCubeMap(sky),
	}
	for _, face := range sky {
		w.EnvMapAlpha = w.EnvMapAlpha || texture.HasAlpha(face)
	}
	s := w.Scene
	id := 0
	next := func() int { id++; return id }

	ground := scene.NewObject(next(), groundGeo, 283)
	ground.Textures[drawlist.SlotBase] = groundTex
	ground.Textures[drawlist.SlotNormal] = panels
	ground.Textures[drawlist.SlotHeight] = height
	ground.CastsShadow = false

	w.Ship = scene.NewObject(next(), shipGeo, shipMesh.Bounds.Radius())
	w.Ship.Position = math.Vec3{Y: 12}
	w.Ship.Textures[drawlist.SlotBase] = hull
	w.Ship.Textures[drawlist.SlotSpecular] = spec
	w.Ship.Textures[drawlist.SlotGlow] = glow
	w.Ship.Textures[drawlist.SlotMisc] = stripes
	w.Ship.TeamColor = &drawlist.TeamColor{
		Set:    true,
		Base:   math.Vec3{X: 0.2, Y: 0.35, Z: 0.8},
		Stripe: math.Vec3{X: 0.9, Y: 0.8, Z: 0.2},
	}
	w.Ship.TransformOffset = 0
	w.Ship.ThrustScale = 1
	w.Ship.Parts[1].Thruster = true
	w.transforms = make([]math.Mat4, 3)
	w.updateTransforms(up)

	w.Station = scene.NewObject(next(), ringGeo, 40)
	w.Station.Position = math.Vec3{Y: 4}
	w.Station.Textures[drawlist.SlotBase] = checker
	w.Station.Textures[drawlist.SlotNormal] = panels
	w.Station.Cull = drawlist.CullNone
	w.Station.SpinRate = 0.2
	// Hide the far half of the ring.
	w.Station.Clip = &drawlist.ClipPlane{Normal: math.Vec3{Z: 1}}

	pylon := scene.NewObject(next(), boxGeo, 7)
	pylon.Position = math.Vec3{X: 35, Y: 4}
	pylon.Textures[drawlist.SlotBase] = checker
	pylon.ArcRate = 3
	arcBox := scene.NewObject(next(), boxGeo, 7)
	arcBox.Position = math.Vec3{X: -35, Y: 4}
	arcBox.Textures[drawlist.SlotBase] = checker
	arcBox.ArcRate = 2
	arcBox.ArcKind = drawlist.ArcEMP

	glass := scene.NewObject(next(), boxGeo, 7)
	glass.Position = math.Vec3{Z: 30, Y: 6}
	glass.Textures[drawlist.SlotBase] = white
	glass.Blend = drawlist.BlendAlpha
	glass.Alpha = 0.4
	glass.Depth = drawlist.DepthRead
	glass.CastsShadow = false

	beacon := scene.NewObject(next(), boxGeo, 7)
	beacon.Position = math.Vec3{Y: 20}
	beacon.Scale = math.Vec3{X: 0.25, Y: 0.25, Z: 0.25}
	beacon.Textures[drawlist.SlotBase] = glow
	beacon.Blend = drawlist.BlendAdditive
	beacon.Depth = drawlist.DepthRead
	beacon.Lit = false
	beacon.CastsShadow = false
	beacon.AnimatedEffect = 1
	beacon.Parts[0].Animated = true
	// The beacon rides on the ship.
	w.Ship.Children = append(w.Ship.Children, beacon)

	s.Add(ground, w.Station, w.Ship, pylon, arcBox, glass)

	s.Lights = []lighting.Light{
		lighting.Sun(40, 35, math.Vec3{X: 1, Y: 0.95, Z: 0.85}, 0.9),
		{
			Kind:      lighting.Point,
			Position:  math.Vec3{X: 35, Y: 14},
			Color:     math.Vec3{X: 0.4, Y: 0.5, Z: 1},
			Radius:    40,
			Intensity: 1.5,
		},
		{
			Kind:      lighting.Tube,
			Position:  math.Vec3{X: -40, Y: 2, Z: -20},
			End:       math.Vec3{X: -40, Y: 2, Z: 20},
			Color:     math.Vec3{X: 1, Y: 0.6, Z: 0.2},
			Radius:    25,
			Intensity: 1.2,
		},
	}
	s.Fog = scene.Fog{R: 150, G: 160, B: 185, Near: 150, Far: 600}
	return w, nil
}

// Update animates the world and refreshes the ship's batched matrices.
func (w *World) Update(up Uploader, dt float32) {
	w.Scene.Update(dt)
	t := w.Scene.Time()
	w.Ship.ThrustScale = 1 + 0.5*math32.Sin(t*3)
	w.turretAngle += dt * 0.8
	w.updateTransforms(up)
}

// updateTransforms uploads the hull, turret and engine matrices addressed
// by the ship's submodel ids.
func (w *World) updateTransforms(up Uploader) {
	s, c := math32.Sincos(w.turretAngle)
	turret := math.Mat3{
		R: math.Vec3{X: c, Z: -s},
		U: math.Vec3{Y: 1},
		F: math.Vec3{X: s, Z: c},
	}
	w.transforms[0] = math.Identity()
	// Spin about the pivot rather than the hull origin.
	p := turretPivot
	w.transforms[1] = math.Translate(p.X, p.Y, p.Z).
		Mul(math.FromBasis(turret, math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})).
		Mul(math.Translate(-p.X, -p.Y, -p.Z))
	w.transforms[2] = math.Identity()
	up.UploadTransforms(w.transforms)
}
