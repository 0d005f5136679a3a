// lodtool is a CLI utility for baking and inspecting terrain patch sets.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Faultbox/veldt/internal/engine/debug"
	"github.com/Faultbox/veldt/internal/engine/tessellate"
	"github.com/Faultbox/veldt/pkg/math"
	"github.com/Faultbox/veldt/pkg/patchfile"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build", "bake":
		cmdBuild(args)
	case "info":
		cmdInfo(args)
	case "lodmap", "map":
		cmdLODMap(args)
	case "verify":
		cmdVerify(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`lodtool - terrain patch set utility

Usage:
  lodtool <command> [options]

Commands:
  build [options] <out.vtp>    Bake one tessellation to a patch file
  info <file.vtp>              Show patch file information
  lodmap <file.vtp> [out.png]  Render the density map to a PNG
  verify <file.vtp>            Check coverage, overlap and blend codes

Examples:
  lodtool build -extent 1024 -view-distance 3 terrain.vtp
  lodtool build -density fixed -fixed-level 2 -x 512 -z 128 flat.vtp
  lodtool info terrain.vtp
  lodtool lodmap terrain.vtp heat.png
  lodtool verify terrain.vtp`)
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	extent := fs.Int("extent", 1024, "World extent in grid units")
	rootGrid := fs.Int("root-grid", 8, "Root cells per axis")
	maxDepth := fs.Int("max-depth", 5, "Quadtree subdivision limit")
	scale := fs.Float64("scale", 1.0, "World units per grid unit")
	height := fs.Float64("height", 96.0, "Terrain height in world units")
	viewDistance := fs.Float64("view-distance", 3.0, "View-distance multiplier")
	density := fs.String("density", "procedural", "Density policy: fixed or procedural")
	fixedLevel := fs.Int("fixed-level", 3, "Density level for the fixed policy")
	seed := fs.Int64("seed", 1, "Noise seed for the procedural policy")
	bias := fs.Float64("bias", 0, "Subdivision bias (0 = built-in default)")
	workers := fs.Int("workers", 0, "Pass parallelism (0 = all CPUs)")
	x := fs.Float64("x", -1, "Viewer X in world units (-1 = world center)")
	y := fs.Float64("y", -1, "Viewer Y in world units (-1 = terrain height)")
	z := fs.Float64("z", -1, "Viewer Z in world units (-1 = world center)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtool build [options] <out.vtp>")
		os.Exit(1)
	}
	outPath := fs.Arg(0)

	vc := tessellate.ViewConfig{
		Scale:           float32(*scale),
		ViewDistance:    float32(*viewDistance),
		MaxDepth:        uint32(*maxDepth),
		WorldExtent:     uint32(*extent),
		RootGrid:        uint32(*rootGrid),
		SubdivisionBias: float32(*bias),
		TerrainHeight:   float32(*height),
	}

	var policy tessellate.DensityPolicy
	switch *density {
	case "fixed":
		policy = tessellate.FixedDensity{Level: uint32(*fixedLevel)}
	case "procedural":
		policy = tessellate.NewProceduralDensity(*seed)
	default:
		fmt.Fprintf(os.Stderr, "Unknown density policy: %s\n", *density)
		os.Exit(1)
	}

	ts, err := tessellate.New(vc,
		tessellate.WithDensity(policy),
		tessellate.WithWorkers(*workers),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	worldSize := float32(*extent) * float32(*scale)
	viewer := math.Vec3{X: float32(*x), Y: float32(*y), Z: float32(*z)}
	if *x < 0 {
		viewer.X = worldSize / 2
	}
	if *y < 0 {
		viewer.Y = float32(*height)
	}
	if *z < 0 {
		viewer.Z = worldSize / 2
	}

	start := time.Now()
	if err := ts.Build(tessellate.NewViewerState(viewer)); err != nil {
		fmt.Fprintf(os.Stderr, "Build error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	f := &patchfile.File{
		Version: patchfile.Version,
		Params: patchfile.Params{
			Scale:        vc.Scale,
			ViewerX:      viewer.X,
			ViewerY:      viewer.Y,
			ViewerZ:      viewer.Z,
			ViewDistance: vc.ViewDistance,
			MaxDepth:     vc.MaxDepth,
			WorldExtent:  vc.WorldExtent,
			RootGrid:     vc.RootGrid,
		},
	}
	for lod := 0; lod < tessellate.NumBuckets; lod++ {
		bucket := ts.Bucket(lod)
		records := make([]patchfile.Record, 0, len(bucket))
		for _, p := range bucket {
			records = append(records, patchfile.Record{
				X:            p.X,
				Y:            p.Y,
				Size:         p.Size,
				Stitch:       p.Stitch,
				Morph:        p.Morph,
				SpecialMorph: p.SpecialMorph,
			})
		}
		f.Buckets[lod] = records
	}

	if err := f.WriteFile(outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	counts := f.Counts()
	fmt.Printf("Baked:   %s\n", outPath)
	fmt.Printf("Patches: %d [%d/%d/%d/%d]\n",
		f.TotalCount(), counts[0], counts[1], counts[2], counts[3])
	fmt.Printf("Viewer:  (%.1f, %.1f, %.1f)\n", viewer.X, viewer.Y, viewer.Z)
	fmt.Printf("Time:    %s\n", elapsed.Round(time.Microsecond))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtool info <file.vtp>")
		os.Exit(1)
	}

	f, err := patchfile.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := f.Params
	fmt.Printf("File:     %s\n", args[0])
	fmt.Printf("Version:  %d\n", f.Version)
	fmt.Printf("World:    %d grid units, %dx%d roots, max depth %d\n",
		p.WorldExtent, p.RootGrid, p.RootGrid, p.MaxDepth)
	fmt.Printf("Viewer:   (%.1f, %.1f, %.1f), view distance %.2f\n",
		p.ViewerX, p.ViewerY, p.ViewerZ, p.ViewDistance)
	fmt.Printf("Scale:    %.2f\n", p.Scale)
	fmt.Println()

	total := f.TotalCount()
	fmt.Println("Patches by density:")
	for lod, n := range f.Counts() {
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		fmt.Printf("  level %d  %8d  (%4.1f%%)\n", lod, n, pct)
	}
	fmt.Printf("Total:    %d patches, largest size %d\n", total, f.MaxSize())

	extent := uint64(p.WorldExtent)
	area := extent * extent
	if area > 0 {
		fmt.Printf("Coverage: %.1f%% of world area\n",
			float64(coveredArea(f))/float64(area)*100)
	}
}

// coveredArea sums patch footprints clipped to the world extent.
func coveredArea(f *patchfile.File) uint64 {
	extent := uint64(f.Params.WorldExtent)
	var covered uint64
	for _, b := range f.Buckets {
		for _, r := range b {
			x0, y0, x1, y1 := r.GridRect()
			w := min(uint64(x1), extent) - min(uint64(x0), extent)
			h := min(uint64(y1), extent) - min(uint64(y0), extent)
			covered += w * h
		}
	}
	return covered
}

func cmdLODMap(args []string) {
	fs := flag.NewFlagSet("lodmap", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtool lodmap <file.vtp> [out.png]")
		os.Exit(1)
	}

	inPath := fs.Arg(0)
	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".png"
	if fs.NArg() > 1 {
		outPath = fs.Arg(1)
	}

	f, err := patchfile.ParseFile(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	img := debug.LODMapFile(f)

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding PNG: %v\n", err)
		os.Exit(1)
	}

	b := img.Bounds()
	fmt.Printf("Wrote %s (%dx%d, %d patches)\n", outPath, b.Dx(), b.Dy(), f.TotalCount())
}

// maxVerifyReports bounds the problem listing; verify still counts the rest.
const maxVerifyReports = 20

func cmdVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lodtool verify <file.vtp>")
		os.Exit(1)
	}

	f, err := patchfile.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := f.Params
	if p.RootGrid == 0 || p.WorldExtent == 0 {
		fmt.Fprintln(os.Stderr, "Corrupt params: zero extent or root grid")
		os.Exit(1)
	}
	vc := tessellate.ViewConfig{WorldExtent: p.WorldExtent, RootGrid: p.RootGrid}
	rootSize := vc.RootSize()

	extent := int(p.WorldExtent)
	occupied := make([]bool, extent*extent)
	problems := 0
	report := func(format string, a ...any) {
		problems++
		if problems <= maxVerifyReports {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	for lod, b := range f.Buckets {
		for _, r := range b {
			if r.Size == 0 || r.Size&(r.Size-1) != 0 {
				report("patch (%d,%d) size %d is not a power of two", r.X, r.Y, r.Size)
				continue
			}
			if r.Size > rootSize {
				report("patch (%d,%d) size %d exceeds root size %d", r.X, r.Y, r.Size, rootSize)
			}
			if self := tessellate.BlendSelf(r.Stitch); self != uint32(lod) {
				report("patch (%d,%d,%d) stitch self level %d in bucket %d", r.X, r.Y, r.Size, self, lod)
			}
			if self := tessellate.BlendSelf(r.Morph); self != uint32(lod) {
				report("patch (%d,%d,%d) morph self level %d in bucket %d", r.X, r.Y, r.Size, self, lod)
			}
			for dir := 0; dir < 4; dir++ {
				if e := tessellate.BlendEdge(r.Stitch, dir); e > tessellate.MaxDensity {
					report("patch (%d,%d,%d) stitch edge %d level %d out of range", r.X, r.Y, r.Size, dir, e)
				}
				if e := tessellate.BlendEdge(r.Morph, dir); e > tessellate.MaxDensity {
					report("patch (%d,%d,%d) morph edge %d level %d out of range", r.X, r.Y, r.Size, dir, e)
				}
			}

			if overlap := markOccupied(occupied, extent, r); overlap {
				report("patch (%d,%d,%d) overlaps another patch", r.X, r.Y, r.Size)
			}
		}
	}

	covered := 0
	for _, c := range occupied {
		if c {
			covered++
		}
	}

	total := f.TotalCount()
	fmt.Printf("Checked %d patches across %d buckets\n", total, patchfile.NumBuckets)
	if uncovered := extent*extent - covered; uncovered > 0 {
		fmt.Printf("Uncovered: %d of %d grid cells\n", uncovered, extent*extent)
	}
	if problems > maxVerifyReports {
		fmt.Fprintf(os.Stderr, "(%d more problems not shown)\n", problems-maxVerifyReports)
	}
	if problems > 0 {
		fmt.Fprintf(os.Stderr, "%d problems found\n", problems)
		os.Exit(1)
	}
	fmt.Println("OK")
}

// markOccupied marks the record's cells, reporting whether any cell was
// already taken. Cells beyond the rim are ignored.
func markOccupied(occupied []bool, extent int, r patchfile.Record) bool {
	x0, y0, x1, y1 := r.GridRect()
	overlap := false
	for y := int(y0); y < int(y1) && y < extent; y++ {
		for x := int(x0); x < int(x1) && x < extent; x++ {
			if occupied[y*extent+x] {
				overlap = true
			}
			occupied[y*extent+x] = true
		}
	}
	return overlap
}
