// Package fingerprint computes 64-bit perceptual hashes for images and
// Hamming distances between them. Two hash algorithms are provided:
// pHash (DCT based, robust against scaling and small edits) and dHash
// (gradient based, cheaper to compute).
package fingerprint

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Oracle is the common surface of both hash algorithms: derive a hash
// from encoded image bytes, measure the distance between two hashes.
type Oracle interface {
	Compute(data []byte) (uint64, error)
	Distance(a, b uint64) float64
}

// Select returns the oracle for an algorithm name ("phash" or "dhash").
func Select(algo string) (Oracle, error) {
	switch algo {
	case "phash":
		return PHash{}, nil
	case "dhash":
		return DHash{}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q (want phash or dhash)", algo)
	}
}

// PHash is the DCT perceptual hash: resize to 32x32, grayscale, 2D
// DCT, then one bit per low-frequency coefficient above the median.
type PHash struct{}

// Compute decodes the image and derives its 64-bit pHash.
func (PHash) Compute(data []byte) (uint64, error) {
	img, err := decode(data)
	if err != nil {
		return 0, err
	}

	gray := luminance(scale(img, 32, 32))
	low := lowFrequencies(dct2D(gray))

	// 63 coefficients fill bits 63..1; bit 0 stays zero.
	m := median(low)
	var hash uint64
	for i, c := range low {
		if c > m {
			hash |= 1 << (63 - i)
		}
	}
	return hash, nil
}

// lowFrequencies collects the top-left 8x8 block of DCT coefficients,
// skipping the DC term at (0,0). DC is the summed brightness of the
// whole image: it dwarfs every AC coefficient, so including it would
// waste a hash bit and skew the median.
func lowFrequencies(coeffs [][]float64) []float64 {
	low := make([]float64, 0, 63)
	for u := range 8 {
		for v := range 8 {
			if u == 0 && v == 0 {
				continue
			}
			low = append(low, coeffs[u][v])
		}
	}
	return low
}

// Distance returns the Hamming distance as a float64.
func (PHash) Distance(a, b uint64) float64 {
	return float64(HammingDistance(a, b))
}

// DHash is the difference hash: resize to 9x8 and take the sign of
// each horizontal brightness gradient, 8 rows of 8 comparisons.
type DHash struct{}

// Compute decodes the image and derives its 64-bit dHash.
func (DHash) Compute(data []byte) (uint64, error) {
	img, err := decode(data)
	if err != nil {
		return 0, err
	}

	gray := luminance(scale(img, 9, 8))

	var hash uint64
	bit := 63
	for y := range 8 {
		for x := range 8 {
			if gray[y][x] > gray[y][x+1] {
				hash |= 1 << bit
			}
			bit--
		}
	}
	return hash, nil
}

// Distance returns the Hamming distance as a float64.
func (DHash) Distance(a, b uint64) float64 {
	return float64(HammingDistance(a, b))
}

// HammingDistance counts differing bits between two 64-bit hashes.
func HammingDistance(a, b uint64) int {
	xor := a ^ b
	distance := 0
	for xor != 0 {
		distance++
		xor &= xor - 1 // clear lowest set bit
	}
	return distance
}

// Format renders a hash as a 16-character hex string.
func Format(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// scale resizes an image to the exact target dimensions.
func scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// luminance converts an image to rows of grayscale values (0-255)
// using the ITU-R BT.601 luma formula, indexed [y][x].
func luminance(img *image.RGBA) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, height)
	for y := range height {
		gray[y] = make([]float64, width)
		for x := range width {
			r, g, b, _ := img.At(x, y).RGBA()
			gray[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray
}

// dct2D computes the two-dimensional DCT-II of a square grayscale
// matrix. Cosine factors are precomputed once per call.
func dct2D(gray [][]float64) [][]float64 {
	size := len(gray)

	cosine := make([][]float64, size)
	for i := range cosine {
		cosine[i] = make([]float64, size)
		for j := range size {
			cosine[i][j] = math.Cos(math.Pi * float64(i) * (2*float64(j) + 1) / (2 * float64(size)))
		}
	}

	out := make([][]float64, size)
	for u := range size {
		out[u] = make([]float64, size)
		for v := range size {
			var sum float64
			for x := range size {
				for y := range size {
					sum += gray[x][y] * cosine[u][x] * cosine[v][y]
				}
			}
			out[u][v] = sum
		}
	}
	return out
}

// median returns the middle value of a slice without mutating it.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
