package media

// DefaultThumbnailSize is the nominal size used when none is configured.
const DefaultThumbnailSize = 300

// SizeSpec derives every thumbnail dimension from one nominal size S.
type SizeSpec struct {
	Size int
}

// NewSizeSpec returns a SizeSpec for size, falling back to
// DefaultThumbnailSize when size is not positive.
func NewSizeSpec(size int) SizeSpec {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return SizeSpec{Size: size}
}

// BoxWidth is the final thumbnail width, S*0.9.
func (s SizeSpec) BoxWidth() int { return s.Size * 9 / 10 }

// CropHeight is the final thumbnail height, S*0.75.
func (s SizeSpec) CropHeight() int { return s.Size * 3 / 4 }

// VideoHeight is the display height given to video elements, S*0.7.
func (s SizeSpec) VideoHeight() int { return s.Size * 7 / 10 }

// ComputeSize returns the resample target for a w x h original. Landscape
// and square sources are fit to a width of S/0.9, portrait sources to a
// height of S/0.70; the other side keeps the aspect ratio, rounded down.
func ComputeSize(w, h int, spec SizeSpec) (newW, newH int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}

	s := float64(spec.Size)
	if w >= h {
		resize := s / 0.9
		newW = int(resize)
		newH = int(float64(h) / (float64(w) / resize))
	} else {
		resize := s / 0.70
		newH = int(resize)
		newW = int(float64(w) / (float64(h) / resize))
	}

	return max(newW, 1), max(newH, 1)
}

// cropSize clamps the crop box to the resampled image.
func cropSize(w, h int, spec SizeSpec) (int, int) {
	return min(spec.BoxWidth(), w), min(spec.CropHeight(), h)
}
