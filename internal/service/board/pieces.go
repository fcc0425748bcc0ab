package board

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

type pieceKind struct {
	side string
	king bool
}

type pieceCacheKey struct {
	kind pieceKind
	size int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

type piecePalette struct {
	body, rim, crown string
}

var (
	whitePalette = piecePalette{body: "#f4efe6", rim: "#8a7d6b", crown: "#c9a227"}
	blackPalette = piecePalette{body: "#2b2b33", rim: "#0d0d10", crown: "#e0b84a"}
)

// pieceSVG builds the glyph for a man or king on a 100x100 view box.
func pieceSVG(kind pieceKind) []byte {
	pal := whitePalette
	if kind.side == "black" {
		pal = blackPalette
	}
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="100" height="100">`)
	b.WriteString(`<circle cx="50" cy="55" r="38" fill="#000000" fill-opacity="0.25"/>`)
	fmt.Fprintf(&b, `<circle cx="50" cy="50" r="38" fill="%s" stroke="%s" stroke-width="4"/>`, pal.body, pal.rim)
	fmt.Fprintf(&b, `<circle cx="50" cy="50" r="27" fill="none" stroke="%s" stroke-width="3"/>`, pal.rim)
	if kind.king {
		fmt.Fprintf(&b, `<polygon points="30,62 30,40 40,50 50,34 60,50 70,40 70,62" fill="%s" stroke="%s" stroke-width="2"/>`, pal.crown, pal.rim)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}

func renderPieceImage(kind pieceKind, size int) (image.Image, error) {
	key := pieceCacheKey{kind: kind, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(pieceSVG(kind)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", kind.side, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}
