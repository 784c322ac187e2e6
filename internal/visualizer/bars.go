package visualizer

const (
	MinBarHeight = 10.0
	MaxBarHeight = 60.0
	binStride    = 8
)

// BarHeights maps frequency data onto count bars. Bar i samples bin i*8;
// bins past the end of data read as silence.
func BarHeights(data []byte, count int, dst []float64) []float64 {
	if cap(dst) < count {
		dst = make([]float64, count)
	}
	dst = dst[:count]
	for i := range dst {
		var value byte
		if idx := i * binStride; idx < len(data) {
			value = data[idx]
		}
		dst[i] = max(MinBarHeight, float64(value)/255*MaxBarHeight)
	}
	return dst
}
