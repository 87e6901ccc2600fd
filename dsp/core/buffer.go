package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Zero32 sets all values in buf to 0.
func Zero32(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// Downmix averages interleaved frames from src into the mono buffer dst and
// returns the number of frames written. A trailing partial frame is ignored.
func Downmix(dst []float64, src []float32, channels int) int {
	if channels < 1 {
		channels = 1
	}

	frames := len(src) / channels
	if frames > len(dst) {
		frames = len(dst)
	}

	if channels == 1 {
		for i := 0; i < frames; i++ {
			dst[i] = float64(src[i])
		}
		return frames
	}

	scale := 1 / float64(channels)
	for i := 0; i < frames; i++ {
		sum := 0.0
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += float64(src[base+ch])
		}
		dst[i] = sum * scale
	}

	return frames
}

// FanOut writes every mono sample of src to all channels of the interleaved
// buffer dst and returns the number of frames written.
func FanOut(dst []float32, src []float64, channels int) int {
	if channels < 1 {
		channels = 1
	}

	frames := len(dst) / channels
	if frames > len(src) {
		frames = len(src)
	}

	for i := 0; i < frames; i++ {
		v := float32(src[i])
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			dst[base+ch] = v
		}
	}

	return frames
}
