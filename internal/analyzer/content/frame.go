package content

import (
	"fmt"
	"image"
	_ "image/jpeg" // decode support registered via the blank import
	"io"

	"github.com/farcloser/komposer/internal/fault"
)

const lumaBuckets = 16

// frameSignature is the small set of pure-Go signals extracted from one
// decoded frame, cheap enough to compute per sampled frame.
type frameSignature struct {
	histogram   [lumaBuckets]float64
	meanLuma    float64
	edgeDensity float64
	skinRatio   float64
}

// scoreFrame decodes a JPEG frame and computes its signature. Pixels are
// sampled on a fixed stride rather than walked exhaustively, since a
// per-scene decision only needs a stable estimate, not per-pixel precision.
func scoreFrame(r io.Reader) (frameSignature, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return frameSignature{}, fmt.Errorf("%w: decoding sampled frame: %w", fault.ErrProbe, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width == 0 || height == 0 {
		return frameSignature{}, fmt.Errorf("%w: sampled frame has zero area", fault.ErrProbe)
	}

	const stride = 4 // sample every 4th pixel in each axis

	var (
		sig       frameSignature
		lumaSum   float64
		edgeSum   float64
		edgeCnt   float64
		skinCount float64
		sampleCnt float64
		prevLuma  float64
		havePrev  bool
	)

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		havePrev = false

		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r32, g32, b32, _ := img.At(x, y).RGBA()
			r8, g8, b8 := float64(r32>>8), float64(g32>>8), float64(b32>>8)

			luma := 0.299*r8 + 0.587*g8 + 0.114*b8

			bucket := int(luma / 256 * lumaBuckets)
			if bucket >= lumaBuckets {
				bucket = lumaBuckets - 1
			}

			sig.histogram[bucket]++
			lumaSum += luma
			sampleCnt++

			if isSkinTone(r8, g8, b8) {
				skinCount++
			}

			if havePrev {
				edgeSum += absF(luma - prevLuma)
				edgeCnt++
			}

			prevLuma = luma
			havePrev = true
		}
	}

	if sampleCnt == 0 {
		return frameSignature{}, fmt.Errorf("%w: no pixels sampled from frame", fault.ErrProbe)
	}

	for i := range sig.histogram {
		sig.histogram[i] /= sampleCnt
	}

	sig.meanLuma = lumaSum / sampleCnt
	sig.skinRatio = skinCount / sampleCnt

	if edgeCnt > 0 {
		sig.edgeDensity = edgeSum / edgeCnt / 256 // normalize to roughly 0..1
	}

	return sig, nil
}

// isSkinTone is a coarse RGB heuristic standing in for "faces/eyes"
// presence — there is no face-detection library in the retrieved pack, so
// this approximates it rather than attempting real detection.
func isSkinTone(r, g, b float64) bool {
	return r > 95 && g > 40 && b > 20 &&
		r > g && r > b &&
		(r-g) > 15 &&
		absF(r-g) > 15
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}

// histogramDistance returns the L1 distance between two normalized
// luminance histograms, in [0, 2].
func histogramDistance(a, b [lumaBuckets]float64) float64 {
	var sum float64

	for i := range a {
		sum += absF(a[i] - b[i])
	}

	return sum
}
