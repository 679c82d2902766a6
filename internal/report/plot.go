package report

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/workprior/crypto-backtest/internal/model"
)

// ScreenshotsDir is where equity-curve PNGs land, relative to the results dir.
func ScreenshotsDir(resultsDir string) string {
	return filepath.Join(resultsDir, "screenshots")
}

// EquityCurvePath names the PNG for one (symbol, strategy) pair.
func EquityCurvePath(resultsDir, symbol, strategy string) string {
	return filepath.Join(ScreenshotsDir(resultsDir), symbol+"_"+slug(strategy)+"_equity_curve.png")
}

// PlotEquityCurve renders an equity curve to a PNG file.
func PlotEquityCurve(path, symbol, strategy string, curve model.EquityCurve) error {
	if len(curve) == 0 {
		return errors.Errorf("empty equity curve for %s/%s", symbol, strategy)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create screenshots dir")
	}

	pts := make(plotter.XYs, len(curve))
	for i, p := range curve {
		pts[i].X = float64(p.Time.Unix())
		pts[i].Y = p.Value
	}

	pl := plot.New()
	pl.Title.Text = symbol + " — " + strategy
	pl.X.Label.Text = "time"
	pl.Y.Label.Text = "equity"
	pl.X.Tick.Marker = plot.TimeTicks{Format: "01-02"}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "build line")
	}
	pl.Add(line)
	pl.Add(plotter.NewGrid())

	if err := pl.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
