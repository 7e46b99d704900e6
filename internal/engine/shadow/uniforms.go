package shadow

import (
	"github.com/Faultbox/drawqueue/internal/engine/uniform"
	"github.com/Faultbox/drawqueue/pkg/math"
)

// Uniform names read by shadow-receiving and shadow-pass programs.
const (
	UniformModelView = "shadow_mv_matrix"
	UniformProj      = "shadow_proj_matrix"
	UniformMapNum    = "shadow_map_num"
)

// distNames label the far split of the first four cascades.
var distNames = [4]string{"veryneardist", "neardist", "middist", "fardist"}

// Uniforms is what programs need to sample or render the cascades.
type Uniforms struct {
	ModelView math.Mat4
	Proj      []math.Mat4
	Dists     [4]float32
}

// Uniforms collects the set's matrices and split distances. Missing
// cascades repeat the last far distance.
func (s Set) Uniforms() Uniforms {
	u := Uniforms{
		ModelView: s.ViewMatrix(),
		Proj:      make([]math.Mat4, len(s.Cascades)),
	}
	var last float32
	for i, c := range s.Cascades {
		u.Proj[i] = c.Proj
		last = c.Far
	}
	for i := range u.Dists {
		if i < len(s.Cascades) {
			u.Dists[i] = s.Cascades[i].Far
		} else {
			u.Dists[i] = last
		}
	}
	return u
}

// Apply sets the shadow uniforms on the bound program's cache.
func (u *Uniforms) Apply(c *uniform.Cache) {
	c.SetMat4(UniformModelView, u.ModelView)
	c.SetMat4Array(UniformProj, u.Proj)
	for i, name := range distNames {
		c.SetFloat(name, u.Dists[i])
	}
}
