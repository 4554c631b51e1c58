/*
 * ladder.go, part of gomeld.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package chemplot draws diagnostic plots for REMD setups.
package chemplot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrData = errors.New("invalid plot data")

func basicLadderPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Alpha"
	p.Y.Label.Text = "Temperature (K)"
	//alpha is always in [0, 1]
	p.X.Min = 0
	p.X.Max = 1
	p.Add(plotter.NewGrid())
	return p
}

//LadderPlot draws the temperature of each replica against its alpha, and saves
//the plot to plotname, in a format taken from the extension (png, svg, pdf...).
//alphas and temps must have the same, non-zero, length.
func LadderPlot(alphas, temps []float64, title, plotname string) error {
	if len(alphas) == 0 || len(alphas) != len(temps) {
		return fmt.Errorf("LadderPlot: %w: %d alphas and %d temperatures", ErrData, len(alphas), len(temps))
	}
	pts := make(plotter.XYs, len(alphas))
	for i := range alphas {
		if math.IsNaN(alphas[i]) || math.IsNaN(temps[i]) {
			return fmt.Errorf("LadderPlot: %w: NaN for replica %d", ErrData, i)
		}
		pts[i].X = alphas[i]
		pts[i].Y = temps[i]
	}
	p := basicLadderPlot(title)
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("LadderPlot: %w", err)
	}
	l.Color = color.RGBA{B: 200, A: 255}
	s.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(l, s)
	if err := p.Save(4*vg.Inch, 4*vg.Inch, plotname); err != nil {
		return fmt.Errorf("LadderPlot: %w", err)
	}
	return nil
}
