package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-quadric-raycast/pkg/core"
	"github.com/df07/go-quadric-raycast/pkg/loaders"
	"github.com/df07/go-quadric-raycast/pkg/quadric"
	"github.com/df07/go-quadric-raycast/pkg/sampler"
)

// surfaceParams holds the shape flags shared by every builder
type surfaceParams struct {
	A, B, C, R float64
}

func main() {
	surfaceType := flag.String("surface", "paraboloid", "Surface: paraboloid, sphere, ellipsoid or ellipsoid-surface")
	a := flag.Float64("a", 1, "First shape coefficient (x² term)")
	b := flag.Float64("b", 1, "Second shape coefficient (y² term)")
	c := flag.Float64("c", 1, "Third shape coefficient (z² term, ellipsoids only)")
	r := flag.Float64("r", 2, "Radius (sphere, ellipsoids)")
	originFlag := flag.String("origin", "0,0,10", "Ray origin as x,y,z")
	translateFlag := flag.String("translate", "0,0,0", "Surface position in world space as x,y,z")
	rotateZ := flag.Float64("rotate-z", 0, "Surface rotation about Z in degrees")
	thetaSteps := flag.Int("theta", 100, "Polar angle samples")
	phiSteps := flag.Int("phi", 100, "Azimuth samples")
	randomCount := flag.Int("random", 0, "Cast this many uniformly random directions instead of the theta/phi grid")
	seed := flag.Int64("seed", 1, "Random seed for -random")
	maxDistance := flag.Float64("max-distance", 100, "Discard hits with |t| at or beyond this distance")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = number of CPUs)")
	output := flag.String("output", "points.ply", "Output PLY file")
	format := flag.String("format", "binary", "PLY format: ascii or binary")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Quadric Raycaster")
		fmt.Println("Usage: quadric-raycast [options]")
		fmt.Println()
		fmt.Println("Casts rays over the full sphere of directions from one origin and")
		fmt.Println("writes the hit points to a PLY point cloud.")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	level, err := parseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	logger := core.Logger()

	opts := runOptions{
		SurfaceType: *surfaceType,
		Params:      surfaceParams{A: *a, B: *b, C: *c, R: *r},
		Origin:      *originFlag,
		Translate:   *translateFlag,
		RotateZDeg:  *rotateZ,
		ThetaSteps:  *thetaSteps,
		PhiSteps:    *phiSteps,
		RandomCount: *randomCount,
		Seed:        *seed,
		Config:      sampler.Config{MaxDistance: *maxDistance, NumWorkers: *workers},
		Output:      *output,
		Format:      *format,
	}
	if err := run(opts); err != nil {
		logger.Error("raycast failed", "error", err)
		os.Exit(1)
	}
}

// runOptions carries the parsed command line
type runOptions struct {
	SurfaceType string
	Params      surfaceParams
	Origin      string
	Translate   string
	RotateZDeg  float64
	ThetaSteps  int
	PhiSteps    int
	RandomCount int // > 0 replaces the grid with random directions
	Seed        int64
	Config      sampler.Config
	Output      string
	Format      string
}

// run builds the surface, casts the directions and saves the points
func run(opts runOptions) error {
	form, err := createSurface(opts.SurfaceType, opts.Params)
	if err != nil {
		return err
	}

	origin, err := parseVec3(opts.Origin)
	if err != nil {
		return fmt.Errorf("invalid -origin: %w", err)
	}
	translation, err := parseVec3(opts.Translate)
	if err != nil {
		return fmt.Errorf("invalid -translate: %w", err)
	}

	placed, err := quadric.Place(form, quadric.RotateZ(opts.RotateZDeg*math.Pi/180).Then(quadric.Translate(translation)))
	if err != nil {
		return err
	}

	plyFormat, err := parsePLYFormat(opts.Format)
	if err != nil {
		return err
	}

	points, _ := sampler.NewCaster(placed, opts.Config).Cast(origin, createDirections(opts))

	return loaders.SavePLY(opts.Output, points, plyFormat)
}

// createDirections returns random directions when requested, else the grid
func createDirections(opts runOptions) []core.Vec3 {
	if opts.RandomCount > 0 {
		return sampler.RandomSphere(opts.RandomCount, rand.New(rand.NewSource(opts.Seed)))
	}
	return sampler.SphereGrid(opts.ThetaSteps, opts.PhiSteps)
}

// createSurface maps a surface name to its canonical builder
func createSurface(surfaceType string, p surfaceParams) (quadric.Form, error) {
	switch surfaceType {
	case "paraboloid":
		return quadric.Paraboloid(p.A, p.B), nil
	case "sphere":
		return quadric.Sphere(p.R), nil
	case "ellipsoid":
		return quadric.Ellipsoid(p.A, p.B, p.C, p.R), nil
	case "ellipsoid-surface":
		return quadric.EllipsoidSurface(p.A, p.B, p.C, p.R), nil
	default:
		return quadric.Form{}, fmt.Errorf("unknown surface type: %q", surfaceType)
	}
}

// parseVec3 parses "x,y,z"
func parseVec3(s string) (core.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("invalid component %q: %w", part, err)
		}
		values[i] = v
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

func parsePLYFormat(s string) (string, error) {
	switch s {
	case "ascii":
		return loaders.FormatASCII, nil
	case "binary", loaders.FormatBinaryLittleEndian:
		return loaders.FormatBinaryLittleEndian, nil
	default:
		return "", fmt.Errorf("unknown PLY format: %q", s)
	}
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %q", s)
	}
	return level, nil
}
