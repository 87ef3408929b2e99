package snapshot

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/programs"
	"golang.org/x/sync/errgroup"
)

// AntiAlias9x samples 9 positions for each sampled position,
// returning the average colour.
//
// distance is how many pixels apart the sampled positions are.
func AntiAlias9x(img programs.Image, distance float32) programs.Image {
	if distance == 0 {
		slog.Warn("image uselessly antialiased with distance of 0")
	}

	return &antialias9xImage{
		Image:  img,
		offset: distance,
	}
}

type antialias9xImage struct {
	programs.Image
	offset float32
}

func (i *antialias9xImage) GetPixel(pos mgl32.Vec2) mgl32.Vec3 {
	avg := mgl32.Vec3{}
	for _, dx := range [3]float32{-i.offset, 0, i.offset} {
		for _, dy := range [3]float32{-i.offset, 0, i.offset} {
			avg = avg.Add(i.Image.GetPixel(mgl32.Vec2{pos[0] + dx, pos[1] + dy}))
		}
	}
	return avg.Mul(1 / float32(9))
}

// ToImage adapts img to image.Image. Rows run top to bottom while
// fragment positions run bottom to top, so rows are flipped.
func ToImage(img programs.Image) image.Image {
	return &imageImage{
		Image: img,
	}
}

type imageImage struct {
	programs.Image
}

func (i *imageImage) At(x, y int) color.Color {
	b := i.Bounds()
	c := i.GetPixel(mgl32.Vec2{
		float32(x-b.Min.X) + 0.5,
		float32(b.Max.Y-1-y) + 0.5,
	})

	return color.NRGBA{
		R: toByte(c[0]),
		G: toByte(c[1]),
		B: toByte(c[2]),
		A: 0xff,
	}
}

func (i *imageImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (i *imageImage) Opaque() bool {
	return true
}

func toByte(v float32) uint8 {
	v = mgl32.Clamp(v, 0, 1)
	return uint8(v*255 + 0.5)
}

// chunkSize is the number of columns rendered by one worker at a time.
const chunkSize = 50

// BufferImage renders img into memory.
func BufferImage(ctx context.Context, img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	buff := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for chunkMin := b.Min.X; chunkMin < b.Max.X; chunkMin += chunkSize {
		chunkMax := min(chunkMin+chunkSize, b.Max.X)

		g.Go(func() error {
			for x := chunkMin; x < chunkMax; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				for y := b.Min.Y; y < b.Max.Y; y++ {
					buff.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buff, nil
}
