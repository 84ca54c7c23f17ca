// Package referral builds the sponsor link a member shares after activation,
// and the QR code images that encode it.
package referral

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DialogSize = 280

	PosterWidth  = 1200
	PosterHeight = 1400

	posterCodeX    = 100
	posterCodeY    = 200
	posterCodeSize = 1000
	captionBase    = 100
	captionScale   = 4

	// light margin around the poster code, in modules, capped so it stays
	// clear of the caption
	quietModules = 4
	quietMax     = 80

	// badge edge relative to the code edge, as 60 of 280
	badgeNum = 60
	badgeDen = 280
)

var (
	badgeFrom = color.RGBA{0x8b, 0x5c, 0xf6, 0xff}
	badgeTo   = color.RGBA{0x22, 0xd3, 0xee, 0xff}
	posterBg0 = color.RGBA{0x00, 0x00, 0x00, 0xff}
	posterBg1 = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
)

// Link is the waitlist URL that locks address in as sponsor.
func Link(origin, address string) string {
	return strings.TrimRight(origin, "/") + "/waitlist/" + url.PathEscape(address)
}

// ShortAddress keeps the first and last six characters.
func ShortAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-6:]
}

// DownloadName is the file name offered for the poster.
func DownloadName(brand string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(brand)), "-")
	return slug + "-referral-qr.png"
}

// Code is a high error correction QR code for one referral link.
type Code struct {
	link string
	qr   *qrcode.QRCode
}

func New(link string) (*Code, error) {
	qr, err := qrcode.New(link, qrcode.High)
	if err != nil {
		return nil, fmt.Errorf("encode referral link: %w", err)
	}
	qr.DisableBorder = true
	return &Code{link: link, qr: qr}, nil
}

func (c *Code) Link() string { return c.link }

// Image renders the code at size pixels square with the brand badge
// excavated at its centre.
func (c *Code) Image(size int) *image.RGBA {
	src := c.qr.Image(size)
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	edge := img.Bounds().Dx() * badgeNum / badgeDen
	pad := edge / 10
	centre := img.Bounds().Dx() / 2
	hole := image.Rect(centre-edge/2-pad, centre-edge/2-pad, centre+edge/2+pad, centre+edge/2+pad)
	draw.Draw(img, hole, image.White, image.Point{}, draw.Src)

	badge := image.Rect(centre-edge/2, centre-edge/2, centre+edge/2, centre+edge/2)
	fillDiagonal(img, badge, badgeFrom, badgeTo)
	return img
}

func (c *Code) PNG(size int) ([]byte, error) {
	return encode(c.Image(size))
}

// DataURI embeds the PNG for inline display.
func (c *Code) DataURI(size int) (string, error) {
	raw, err := c.PNG(size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// PosterImage lays the code out on the dark download card under the
// "Scan to Join" caption.
func (c *Code) PosterImage(brand string) *image.RGBA {
	poster := image.NewRGBA(image.Rect(0, 0, PosterWidth, PosterHeight))
	fillDiagonal(poster, poster.Bounds(), posterBg0, posterBg1)

	code := c.Image(posterCodeSize)
	target := image.Rect(posterCodeX, posterCodeY, posterCodeX+posterCodeSize, posterCodeY+posterCodeSize)
	draw.Draw(poster, target.Inset(-c.quietZone(posterCodeSize)), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(poster, target, code, code.Bounds(), draw.Src, nil)

	drawCaption(poster, "Scan to Join "+brand)
	return poster
}

// quietZone is the white margin, in pixels, a code drawn size pixels wide
// needs on a dark background to stay scannable.
func (c *Code) quietZone(size int) int {
	modules := len(c.qr.Bitmap())
	if modules == 0 {
		return quietMax
	}
	return min(quietModules*size/modules, quietMax)
}

func (c *Code) Poster(brand string) ([]byte, error) {
	return encode(c.PosterImage(brand))
}

func drawCaption(dst *image.RGBA, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	height := face.Height
	small := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  small,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	w, h := width*captionScale, height*captionScale
	x := (dst.Bounds().Dx() - w) / 2
	y := captionBase - face.Ascent*captionScale
	draw.NearestNeighbor.Scale(dst, image.Rect(x, y, x+w, y+h), small, small.Bounds(), draw.Over, nil)
}

func fillDiagonal(dst *image.RGBA, r image.Rectangle, from, to color.RGBA) {
	w, h := r.Dx(), r.Dy()
	span := w*w + h*h
	if span == 0 {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t := float64((x-r.Min.X)*w+(y-r.Min.Y)*h) / float64(span)
			dst.SetRGBA(x, y, lerp(from, to, t))
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), mix(a.A, b.A)}
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
