package main

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stereodisparity/internal/models"
	"stereodisparity/pkg/dataset"
	"stereodisparity/pkg/metrics"
	"stereodisparity/pkg/shearlet"
	"stereodisparity/pkg/solver"
)

// runSolver iterates the selected datasets, runs the solver over each
// pair, scores the output, appends one stats row per pair, and optionally
// writes the disparity maps out as grayscale PNGs.
func runSolver(algorithm, params string, s solver.Disparity) error {
	store := dataset.New(cfg.Dataset.Root)

	names := datasets
	if len(names) == 0 {
		var err error
		names, err = store.List()
		if err != nil {
			return err
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no datasets found under %s", cfg.Dataset.Root)
	}

	for _, name := range names {
		pair, err := store.Load(name)
		if err != nil {
			return err
		}
		if scale != 1.0 {
			pair.Resize(scale)
		}
		if cfg.Preprocessing.Denoise {
			shearlet.NewDenoiser().DenoisePair(pair)
		}

		slog.Info("solving", "algorithm", algorithm, "dataset", name,
			"rows", pair.Rows, "cols", pair.Cols)
		start := time.Now()
		if err := s.Compute(pair); err != nil {
			return fmt.Errorf("%s on %s: %w", algorithm, name, err)
		}
		elapsed := time.Since(start)
		slog.Info("solved", "algorithm", algorithm, "dataset", name, "elapsed", elapsed)

		if err := appendStats(algorithm, params, pair, elapsed); err != nil {
			return err
		}
		if cfg.Output.SaveDisparityPNG {
			if err := saveDisparityPNGs(algorithm, pair); err != nil {
				return err
			}
		}
	}
	return nil
}

var statsHeader = []string{
	"scale", "algorithm", "params", "name", "elapsedSeconds",
	"rmseLeft", "badMatchLeft", "biasLeft", "correlationLeft", "rSquaredLeft",
	"rmseAllLeft", "badMatchAllLeft", "tnLeft", "fpLeft", "fnLeft", "tpLeft",
	"rmseRight", "badMatchRight", "biasRight", "correlationRight", "rSquaredRight",
	"rmseAllRight", "badMatchAllRight", "tnRight", "fpRight", "fnRight", "tpRight",
}

func appendStats(algorithm, params string, pair *models.StereoPair, elapsed time.Duration) error {
	path := cfg.Output.StatsCSV
	writeHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening stats file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(statsHeader); err != nil {
			return err
		}
	}

	row := []string{
		formatFloat(scale),
		algorithm,
		params,
		pair.Name,
		formatFloat(elapsed.Seconds()),
	}
	row = append(row, viewStats(pair.TrueDisparityLeft, pair.DisparityLeft)...)
	row = append(row, viewStats(pair.TrueDisparityRight, pair.DisparityRight)...)

	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func viewStats(gold, guess *models.DisparityMap) []string {
	tn, fp, fn, tp := metrics.OcclusionConfusionMatrix(gold, guess)
	return []string{
		formatFloat(metrics.RMSEUnoccluded(gold, guess)),
		formatFloat(metrics.BadMatchUnoccluded(gold, guess, metrics.BadMatchThresholdAll)),
		formatFloat(metrics.BiasUnoccluded(gold, guess)),
		formatFloat(metrics.CorrelationUnoccluded(gold, guess)),
		formatFloat(metrics.RSquaredUnoccluded(gold, guess)),
		formatFloat(metrics.RMSEAll(gold, guess)),
		formatFloat(metrics.BadMatchAll(gold, guess)),
		strconv.Itoa(tn), strconv.Itoa(fp), strconv.Itoa(fn), strconv.Itoa(tp),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func saveDisparityPNGs(algorithm string, pair *models.StereoPair) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	for suffix, m := range map[string]*models.DisparityMap{
		"left":  pair.DisparityLeft,
		"right": pair.DisparityRight,
	} {
		path := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s.png", pair.Name, algorithm, suffix))
		if err := writeGrayPNG(path, m); err != nil {
			return err
		}
	}
	return nil
}

func writeGrayPNG(path string, m *models.DisparityMap) error {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for y := 0; y < m.Rows; y++ {
		for x := 0; x < m.Cols; x++ {
			img.SetGray(x, y, color.Gray{Y: m.At(x, y)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
