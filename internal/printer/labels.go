package printer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	barcodeWidth  = 95 * 4
	barcodeHeight = 140
	qrSize        = 400
	sealWidth     = 554
	sealHeight    = 200
	sealTextScale = 4
	sealDateFmt   = "02.01.2006"
)

// Labels renders label images into a directory.
type Labels struct {
	dir     string
	aspectW int
	aspectH int
	now     func() time.Time
}

// NewLabels constructs a renderer writing into dir. aspectW:aspectH is the
// label paper shape.
func NewLabels(dir string, aspectW, aspectH int) (*Labels, error) {
	if dir == "" {
		return nil, fmt.Errorf("label directory required")
	}
	if aspectW <= 0 || aspectH <= 0 {
		return nil, fmt.Errorf("invalid paper aspect ratio %d:%d", aspectW, aspectH)
	}
	return &Labels{dir: dir, aspectW: aspectW, aspectH: aspectH, now: time.Now}, nil
}

// Barcode renders the EAN-13 barcode of code with the digits underneath.
func (l *Labels) Barcode(code string) (string, error) {
	bc, err := ean.Encode(code)
	if err != nil {
		return "", fmt.Errorf("encode ean13 %q: %w", code, err)
	}
	scaled, err := barcode.Scale(bc, barcodeWidth, barcodeHeight)
	if err != nil {
		return "", fmt.Errorf("scale barcode: %w", err)
	}
	face := basicfont.Face7x13
	textHeight := face.Metrics().Height.Ceil() + 6
	canvas := whiteCanvas(barcodeWidth, barcodeHeight+textHeight)
	draw.Draw(canvas, scaled.Bounds(), scaled, image.Point{}, draw.Src)
	drawCentered(canvas, bc.Content(), barcodeHeight+textHeight-4, face)
	return l.save(bc.Content()+"_barcode.png", canvas)
}

// QR renders a QR code pointing at link.
func (l *Labels) QR(link string) (string, error) {
	code, err := qr.Encode(link, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	scaled, err := barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}
	name := strconv.FormatInt(l.now().UnixNano(), 10) + "_qr.png"
	return l.save(name, scaled)
}

// SealTag renders the tamper seal with text and, when withDate is set, the
// current date below it. Glyphs outside the built-in ASCII face are skipped.
func (l *Labels) SealTag(text string, withDate bool) (string, error) {
	now := l.now()
	lines := []string{text}
	name := "seal_tag_base.png"
	if withDate {
		stamp := now.Format(sealDateFmt)
		lines = append(lines, stamp)
		name = "seal_tag_" + stamp + ".png"
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	small := whiteCanvas(sealWidth/sealTextScale, sealHeight/sealTextScale)
	top := (small.Bounds().Dy()-lineHeight*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		drawCentered(small, line, top+i*lineHeight, face)
	}
	canvas := whiteCanvas(sealWidth, sealHeight)
	xdraw.NearestNeighbor.Scale(canvas, canvas.Bounds(), small, small.Bounds(), draw.Src, nil)
	return l.save(name, canvas)
}

func (l *Labels) save(name string, img image.Image) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("create label directory: %w", err)
	}
	path := filepath.Join(l.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create label file: %w", err)
	}
	padded := padToAspect(img, l.aspectW, l.aspectH)
	if err := png.Encode(file, padded); err != nil {
		file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("encode label: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close label file: %w", err)
	}
	return path, nil
}

// padToAspect centers img on a white canvas grown along one axis so that
// its proportions match w:h.
func padToAspect(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	imgW, imgH := b.Dx(), b.Dy()
	targetW, targetH := imgW, imgH
	if imgW*h >= w*imgH {
		targetH = h * imgW / w
	} else {
		targetW = w * imgH / h
	}
	canvas := whiteCanvas(targetW, targetH)
	offset := image.Pt((targetW-imgW)/2, (targetH-imgH)/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(b.Size())}, img, b.Min, draw.Src)
	return canvas
}

func whiteCanvas(w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return canvas
}

func drawCentered(dst draw.Image, text string, baseline int, face font.Face) {
	d := font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: face}
	width := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((dst.Bounds().Dx()-width)/2, baseline)
	d.DrawString(text)
}
