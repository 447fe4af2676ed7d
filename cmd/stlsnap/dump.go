package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/philipparndt/stlsnap/pkg/dump"
	"github.com/philipparndt/stlsnap/pkg/geometry"
	"github.com/spf13/cobra"
)

// sample is one demo file; inc files are saved under the next free index
type sample struct {
	name  string
	inc   bool
	model *dump.Model
}

func pt(x, y, z float64) geometry.Vector3 {
	return geometry.NewVector3(x, y, z)
}

// samples returns the demo geometry written by the dump command
func samples() []sample {
	zigzag := []geometry.Vector3{pt(0, 0, 0), pt(1, 1, 0), pt(2, 0, 0), pt(3, 1, 0), pt(4, 0, 0)}
	corners := []geometry.Vector3{pt(0, 0, 0), pt(5, 5, 5), pt(5, 0, 0), pt(0, 5, 0), pt(0, 0, 5)}
	chain := []geometry.Vector3{pt(0, 0, 0), pt(1, 2, 3), pt(1, 3, 4), pt(4, 0, 0), pt(0, 0, 0)}

	tetrahedron := dump.New().
		AddTriangle(pt(0, 0, 0), pt(0, 1, 1), pt(1, 0, 1)).
		AddTriangle(pt(0, 1, 1), pt(1, 1, 0), pt(1, 0, 1)).
		AddTriangle(pt(0, 0, 0), pt(1, 1, 0), pt(1, 0, 1)).
		AddTriangle(pt(0, 0, 0), pt(1, 1, 0), pt(0, 1, 1))

	cube := dump.New().
		AddQuad(pt(0, 0, 0), pt(0, 0, 1), pt(1, 0, 1), pt(1, 0, 0)).
		AddQuad(pt(0, 1, 0), pt(0, 1, 1), pt(1, 1, 1), pt(1, 1, 0)).
		AddQuad(pt(0, 0, 0), pt(0, 0, 1), pt(0, 1, 1), pt(0, 1, 0)).
		AddQuad(pt(1, 0, 0), pt(1, 1, 0), pt(1, 1, 1), pt(1, 0, 1)).
		AddQuad(pt(0, 1, 0), pt(0, 0, 0), pt(1, 0, 0), pt(1, 1, 0)).
		AddQuad(pt(0, 0, 1), pt(0, 1, 1), pt(1, 1, 1), pt(1, 0, 1))

	return []sample{
		{name: "points", model: dump.Points(zigzag)},
		{name: "spheres", model: dump.Spheres(corners)},
		{name: "lineChain", model: dump.Line(chain)},
		{name: "directionChain", inc: true, model: dump.Direction(chain)},
		{name: "directionChain", inc: true, model: dump.Direction(zigzag)},
		{name: "directionChain", inc: true, model: dump.Direction(corners)},
		{name: "tetrahedron", model: tetrahedron},
		{name: "cube", model: cube},
	}
}

func newDumpCmd() *cobra.Command {
	var (
		ascii  bool
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "dump [dir]",
		Short: "Write sample debug geometry as STL files",
		Long: `Write a set of debug meshes built from points, edges, cones, spheres and
quads into dir (default: the current directory). Chains are saved under the
next free index, so running the command twice keeps both sets. The result
is a ready-made input for a snapshot run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			for _, s := range samples() {
				path, err := writeSample(filepath.Join(dir, prefix+s.name), s, ascii)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ascii, "ascii", false, "write ASCII instead of binary STL")
	cmd.Flags().StringVar(&prefix, "prefix", "dumpStlExample_", "file name prefix")
	return cmd
}

func writeSample(path string, s sample, ascii bool) (string, error) {
	switch {
	case s.inc && ascii:
		next, err := dump.NextIndexedPath(path)
		if err != nil {
			return "", err
		}
		return dump.SaveASCII(next, s.model)
	case s.inc:
		return dump.SaveInc(path, s.model)
	case ascii:
		return dump.SaveASCII(path, s.model)
	default:
		return dump.Save(path, s.model)
	}
}
