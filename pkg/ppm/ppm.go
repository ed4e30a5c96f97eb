// Package ppm provides the pixel buffer rendered into and its plain-text
// PPM (P3) encoding.
package ppm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

// ErrFormat is returned when decoding input that is not valid P3 data
var ErrFormat = errors.New("ppm: invalid format")

const maxValue = 255

// maxPixels bounds the buffer allocated from an untrusted header
const maxPixels = 1 << 24

func init() {
	image.RegisterFormat("ppm", "P3", func(r io.Reader) (image.Image, error) {
		return Decode(r)
	}, DecodeConfig)
}

// Image is a fixed size RGB pixel grid addressed by (column, row),
// row 0 being the top of the picture. New images are white.
type Image struct {
	columns int
	rows    int
	pixels  []color.RGBA
}

// New creates a white image with the given size
func New(columns, rows int) *Image {
	pixels := make([]color.RGBA, columns*rows)
	for i := range pixels {
		pixels[i] = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return &Image{columns: columns, rows: rows, pixels: pixels}
}

// Columns returns the image width
func (img *Image) Columns() int { return img.columns }

// Rows returns the image height
func (img *Image) Rows() int { return img.rows }

func (img *Image) inside(column, row int) bool {
	return column >= 0 && column < img.columns && row >= 0 && row < img.rows
}

// Set stores a pixel. Coordinates outside the image are ignored.
func (img *Image) Set(column, row int, c color.RGBA) {
	if !img.inside(column, row) {
		return
	}
	c.A = 255
	img.pixels[row*img.columns+column] = c
}

// Get returns the pixel at (column, row), or false when out of range
func (img *Image) Get(column, row int) (color.RGBA, bool) {
	if !img.inside(column, row) {
		return color.RGBA{}, false
	}
	return img.pixels[row*img.columns+column], true
}

// ColorModel implements image.Image
func (img *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.columns, img.rows) }

// At implements image.Image
func (img *Image) At(x, y int) color.Color {
	c, _ := img.Get(x, y)
	return c
}

// Encode writes img as P3 text: a header followed by one "r g b" line per
// pixel in row-major order
func Encode(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n%d\n", bounds.Dx(), bounds.Dy(), maxValue); err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// tokenizer splits P3 input into whitespace separated fields, skipping # comments
type tokenizer struct {
	scanner *bufio.Scanner
	fields  []string
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{scanner: bufio.NewScanner(r)}
}

func (t *tokenizer) next() (string, error) {
	for len(t.fields) == 0 {
		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		line := t.scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		t.fields = strings.Fields(line)
	}
	field := t.fields[0]
	t.fields = t.fields[1:]
	return field, nil
}

func (t *tokenizer) nextInt(what string, limit int) (int, error) {
	field, err := t.next()
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s: %v", ErrFormat, what, err)
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 || n > limit {
		return 0, fmt.Errorf("%w: bad %s %q", ErrFormat, what, field)
	}
	return n, nil
}

type header struct {
	columns, rows, maxValue int
}

func readHeader(t *tokenizer) (header, error) {
	magic, err := t.next()
	if err != nil {
		return header{}, fmt.Errorf("%w: missing magic: %v", ErrFormat, err)
	}
	if magic != "P3" {
		return header{}, fmt.Errorf("%w: unsupported magic %q", ErrFormat, magic)
	}

	var h header
	if h.columns, err = t.nextInt("width", 1<<15); err != nil {
		return header{}, err
	}
	if h.rows, err = t.nextInt("height", 1<<15); err != nil {
		return header{}, err
	}
	if h.maxValue, err = t.nextInt("max value", 65535); err != nil {
		return header{}, err
	}
	if h.columns*h.rows > maxPixels {
		return header{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrFormat, h.columns, h.rows, maxPixels)
	}
	if h.maxValue == 0 {
		return header{}, fmt.Errorf("%w: max value must be positive", ErrFormat)
	}
	return h, nil
}

// DecodeConfig reads only the P3 header
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(newTokenizer(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.columns, Height: h.rows}, nil
}

// Decode parses P3 text. Samples are rescaled to 8 bits when the max value is not 255.
func Decode(r io.Reader) (*Image, error) {
	t := newTokenizer(r)
	h, err := readHeader(t)
	if err != nil {
		return nil, err
	}

	img := New(h.columns, h.rows)
	for i := range img.pixels {
		var rgb [3]uint8
		for c := range rgb {
			v, err := t.nextInt("sample", h.maxValue)
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			rgb[c] = uint8(v * maxValue / h.maxValue)
		}
		img.pixels[i] = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}

	return img, nil
}
