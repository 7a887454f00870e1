package canvas

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce sync.Once
	fontTTF  *opentype.Font

	faceMu    sync.Mutex
	faceCache map[float64]font.Face
)

// faceFor returns a Go Regular face at the given pixel size. Faces
// are cached; sizes are quantized to quarter pixels to keep the cache
// small under fractional device-pixel ratios.
func faceFor(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular.TTF is embedded and known-good; a parse
			// failure means a corrupted toolchain.
			panic("canvas: parse embedded font: " + err.Error())
		}
		fontTTF = f
		faceCache = make(map[float64]font.Face)
	})

	if size < 1 {
		size = 1
	}
	size = float64(int(size*4)) / 4

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face
	}
	face, err := opentype.NewFace(fontTTF, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic("canvas: new face: " + err.Error())
	}
	faceCache[size] = face
	return face
}
