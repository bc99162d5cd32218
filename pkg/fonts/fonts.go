// Package fonts provides the font data and CSS families used by chart
// renderers.
//
// The raster backend needs real glyph outlines, so the Go fonts from
// golang.org/x/image are compiled in. SVG output refers to system fonts by
// CSS family and can optionally embed Go Regular for consistent PDF export.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FamilyName is the CSS font-family name of the embedded regular font.
const FamilyName = "Go"

// SansSerif is the CSS font stack used by SVG text.
const SansSerif = `'Go', 'Helvetica Neue', Arial, sans-serif`

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte { return goregular.TTF }

// BoldTTF returns the Go Bold TrueType data.
func BoldTTF() []byte { return gobold.TTF }

var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularBase64 returns the Go Regular font as a base64 string.
// The result is cached after first computation.
func RegularBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

// FontFaceCSS returns an @font-face rule embedding Go Regular.
func FontFaceCSS() string {
	return "@font-face { font-family: '" + FamilyName + "'; src: url(data:font/ttf;base64," + RegularBase64() + ") format('truetype'); }"
}
