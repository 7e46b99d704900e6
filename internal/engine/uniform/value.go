package uniform

// Kind tags the GLSL type of a cached uniform.
type Kind uint8

const (
	Int Kind = iota + 1
	Float
	Vec2
	Vec3
	Vec4
	Mat4
	IntArray
	FloatArray
	Vec3Array
	Mat4Array
)

var kindNames = [...]string{
	Int:        "int",
	Float:      "float",
	Vec2:       "vec2",
	Vec3:       "vec3",
	Vec4:       "vec4",
	Mat4:       "mat4",
	IntArray:   "int[]",
	FloatArray: "float[]",
	Vec3Array:  "vec3[]",
	Mat4Array:  "mat4[]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid"
}

// Components returns the scalar count of one element of kind k.
func (k Kind) Components() int {
	switch k {
	case Vec2:
		return 2
	case Vec3, Vec3Array:
		return 3
	case Vec4:
		return 4
	case Mat4, Mat4Array:
		return 16
	default:
		return 1
	}
}

// IsInt reports whether k is stored in Value.Ints.
func (k Kind) IsInt() bool {
	return k == Int || k == IntArray
}

// Value is a uniform's payload as handed to the uploader. Integer kinds
// fill Ints, every other kind fills Floats. The slices are owned by the
// cache and only valid during the Upload call.
type Value struct {
	Kind   Kind
	Ints   []int32
	Floats []float32
}

// Count returns the number of elements, e.g. matrices in a Mat4Array.
func (v Value) Count() int {
	n := len(v.Floats)
	if v.Kind.IsInt() {
		n = len(v.Ints)
	}
	return n / v.Kind.Components()
}
