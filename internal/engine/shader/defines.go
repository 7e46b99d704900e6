package shader

import (
	"strconv"
	"strings"
)

// Defines returns the preprocessor block prepended to a variant's source:
// the shader model followed by one FLAG_ symbol per set bit, in bit order.
func Defines(f Flags, shaderModel int) string {
	var b strings.Builder
	b.WriteString("#define SHADER_MODEL ")
	b.WriteString(strconv.Itoa(shaderModel))
	b.WriteByte('\n')
	for _, info := range flagTable {
		if f&info.flag != 0 {
			b.WriteString("#define ")
			b.WriteString(info.define)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
