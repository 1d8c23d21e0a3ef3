// Package dominant summarizes an image's pixels into its most prominent colors
// using k-means clustering.
package dominant

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// Pixel is an 8-bit RGB triple. Producers drop any alpha channel.
type Pixel struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Cluster is one representative color and the number of pixels assigned to it.
type Cluster struct {
	Color Pixel `json:"color"`
	Count int   `json:"count"`
}

// InvalidArgumentError reports arguments Extract cannot work with.
type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Arg, e.Reason)
}

// Default settings for Extractor.
const (
	DefaultMaxIterations = 10
	DefaultEpsilon       = 1.0
	DefaultAttempts      = 10
)

// Extractor runs k-means over pixel colors.
//
// The zero value is not usable; start from Default. An Extractor with a nil
// Rand is safe for concurrent use. Setting Rand makes runs reproducible but
// ties the Extractor to one goroutine, since *rand.Rand is not synchronized.
type Extractor struct {
	// MaxIterations bounds the assign/update rounds of one attempt.
	MaxIterations int

	// Epsilon stops an attempt once no centroid moves farther than this.
	Epsilon float64

	// Attempts is the number of independently seeded runs; the most compact wins.
	Attempts int

	// Rand seeds the centroids. nil means a fresh generator per call.
	Rand *rand.Rand
}

// Default returns an Extractor with the standard settings.
func Default() *Extractor {
	return &Extractor{
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
		Attempts:      DefaultAttempts,
	}
}

// Extract runs Default().Extract.
func Extract(pixels []Pixel, k int) ([]Cluster, error) {
	return Default().Extract(pixels, k)
}

// Extract returns up to k representative colors of pixels, ordered by
// ascending population (least prominent first). Use Reverse for the most
// prominent color first.
//
// k is clamped to the number of distinct colors in pixels, and clusters left
// without members after the final assignment are dropped, so the result may
// hold fewer than k clusters but never an empty one.
//
// Extract fails with *InvalidArgumentError when k <= 0 or pixels is empty.
func (e *Extractor) Extract(pixels []Pixel, k int) ([]Cluster, error) {
	if k <= 0 {
		return nil, &InvalidArgumentError{Arg: "k", Reason: fmt.Sprintf("must be positive, got %d", k)}
	}
	if len(pixels) == 0 {
		return nil, &InvalidArgumentError{Arg: "pixels", Reason: "no pixels to cluster"}
	}

	points := make([]vec3, len(pixels))
	for i, p := range pixels {
		points[i] = vec3{float64(p.R), float64(p.G), float64(p.B)}
	}
	distinct := distinctPoints(pixels)
	if k > len(distinct) {
		k = len(distinct)
	}

	rng := e.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	attempts := max(e.Attempts, 1)
	var best *run
	for a := 0; a < attempts; a++ {
		r := e.runOnce(points, distinct, k, rng)
		if best == nil || r.compactness < best.compactness {
			best = r
		}
	}

	clusters := make([]Cluster, 0, k)
	for i, c := range best.centroids {
		if best.counts[i] == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Color: c.pixel(), Count: best.counts[i]})
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count < clusters[j].Count
	})
	return clusters, nil
}

// Colors returns the cluster colors in the same order.
func Colors(clusters []Cluster) []Pixel {
	out := make([]Pixel, len(clusters))
	for i, c := range clusters {
		out[i] = c.Color
	}
	return out
}

// Reverse returns a copy of clusters in the opposite order.
func Reverse(clusters []Cluster) []Cluster {
	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		out[len(clusters)-1-i] = c
	}
	return out
}

type vec3 [3]float64

func (v vec3) dist2(o vec3) float64 {
	d0, d1, d2 := v[0]-o[0], v[1]-o[1], v[2]-o[2]
	return d0*d0 + d1*d1 + d2*d2
}

func (v vec3) pixel() Pixel {
	return Pixel{R: roundChannel(v[0]), G: roundChannel(v[1]), B: roundChannel(v[2])}
}

func roundChannel(f float64) uint8 {
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 255 {
		return 255
	}
	return uint8(f)
}

// distinctPoints returns each distinct color once, in first-seen order.
func distinctPoints(pixels []Pixel) []vec3 {
	seen := make(map[Pixel]struct{})
	out := make([]vec3, 0)
	for _, p := range pixels {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, vec3{float64(p.R), float64(p.G), float64(p.B)})
	}
	return out
}

type run struct {
	centroids   []vec3
	counts      []int
	compactness float64
}

// runOnce performs one seeded k-means attempt.
func (e *Extractor) runOnce(points, distinct []vec3, k int, rng *rand.Rand) *run {
	// Seed with k distinct colors chosen at random.
	centroids := make([]vec3, k)
	for i, j := range rng.Perm(len(distinct))[:k] {
		centroids[i] = distinct[j]
	}

	assign := make([]int, len(points))
	sums := make([]vec3, k)
	counts := make([]int, k)
	eps2 := e.Epsilon * e.Epsilon

	for iter := 0; iter < max(e.MaxIterations, 1); iter++ {
		for i, p := range points {
			assign[i] = nearestCentroid(p, centroids)
		}

		clear(sums)
		clear(counts)
		for i, p := range points {
			c := assign[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			sums[c][2] += p[2]
			counts[c]++
		}

		maxShift := 0.0
		for c := range centroids {
			if counts[c] == 0 {
				// Empty cluster keeps its centroid.
				continue
			}
			n := float64(counts[c])
			next := vec3{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
			maxShift = math.Max(maxShift, centroids[c].dist2(next))
			centroids[c] = next
		}

		if maxShift < eps2 {
			break
		}
	}

	// Final assignment against the settled centroids.
	clear(counts)
	compactness := 0.0
	for _, p := range points {
		c := nearestCentroid(p, centroids)
		counts[c]++
		compactness += p.dist2(centroids[c])
	}

	return &run{centroids: centroids, counts: counts, compactness: compactness}
}

func nearestCentroid(p vec3, centroids []vec3) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		if d := p.dist2(c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
