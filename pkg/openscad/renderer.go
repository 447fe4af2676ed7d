package openscad

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

// Renderer turns OpenSCAD sources into STL meshes with the openscad binary
type Renderer struct {
	binary string
}

// NewRenderer creates a renderer. An empty binary means "openscad".
func NewRenderer(binary string) *Renderer {
	if binary == "" {
		binary = "openscad"
	}
	return &Renderer{binary: binary}
}

// Available reports whether the binary can be executed
func (r *Renderer) Available() bool {
	_, err := exec.LookPath(r.binary)
	return err == nil
}

// RenderToSTL renders scadFile into outputFile. The source directory is used
// as working directory so relative use/include statements resolve.
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return ErrNotInstalled
	}

	absScadFile, err := filepath.Abs(scadFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", scadFile, err)
	}

	cmd := exec.CommandContext(ctx, bin, "-o", outputFile, absScadFile)
	cmd.Dir = filepath.Dir(absScadFile)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			errMsg.WriteString("\nstderr: ")
			errMsg.WriteString(strings.TrimSpace(stderr.String()))
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("\nstdout: ")
			errMsg.WriteString(strings.TrimSpace(stdout.String()))
		}
		return errors.New(errMsg.String())
	}

	return nil
}

// RenderToTemp renders scadFile into a fresh temporary STL file. The caller
// removes the returned path.
func (r *Renderer) RenderToTemp(ctx context.Context, scadFile string) (string, error) {
	tmp, err := os.CreateTemp("", "stlsnap-*.stl")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	if err := r.RenderToSTL(ctx, scadFile, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
