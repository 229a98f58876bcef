// Package dataset resolves on-disk stereo pairs into models.StereoPair
// values. Pairs follow the Middlebury layout: a directory per scene with
// two views, two ground-truth disparity maps, and a dmin.txt holding the
// disparity offset between the full-size views.
package dataset

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"stereodisparity/internal/models"
)

// Store resolves named stereo pairs rooted at a directory laid out like
// ./data/<name>/{view1.png,view5.png,disp1.png,disp5.png,dmin.txt}.
type Store struct {
	Root string
}

// New returns a Store rooted at root.
func New(root string) *Store {
	return &Store{Root: root}
}

// List enumerates the dataset names available under Root: every
// subdirectory containing a view1.png.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("dataset: listing %s: %w", s.Root, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Root, e.Name(), "view1.png")); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load resolves the named dataset directory into a StereoPair, applying
// the cross-check preprocessing and search-bound computation of
// models.NewStereoPair.
func (s *Store) Load(name string) (*models.StereoPair, error) {
	dir := filepath.Join(s.Root, name)

	left, err := loadRGB(filepath.Join(dir, "view1.png"))
	if err != nil {
		return nil, err
	}
	right, err := loadRGB(filepath.Join(dir, "view5.png"))
	if err != nil {
		return nil, err
	}
	trueLeft, err := loadDisparity(filepath.Join(dir, "disp1.png"))
	if err != nil {
		return nil, err
	}
	trueRight, err := loadDisparity(filepath.Join(dir, "disp5.png"))
	if err != nil {
		return nil, err
	}
	baseOffset, err := loadOffset(filepath.Join(dir, "dmin.txt"))
	if err != nil {
		return nil, err
	}

	return models.NewStereoPair(left, right, trueLeft, trueRight, baseOffset, name)
}

func loadRGB(path string) (*models.RGBImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: decoding %s: %w", path, err)
	}

	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	out := models.NewRGBImage(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Set(x, y, float64(r>>8), float64(g>>8), float64(bl>>8))
		}
	}
	return out, nil
}

// loadDisparity decodes a disparity PNG and converts it to a
// single-channel map with the standard luma weights. Middlebury disp
// images are nominally already grayscale, but some ship as RGB PNGs, so
// the conversion always runs.
func loadDisparity(path string) (*models.DisparityMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: decoding %s: %w", path, err)
	}

	b := img.Bounds()
	rows, cols := b.Dy(), b.Dx()
	out := models.NewDisparityMap(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			out.Set(x, y, uint8(luma+0.5))
		}
	}
	return out, nil
}

func loadOffset(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("dataset: parsing %s: %w", path, err)
	}
	return v, nil
}
