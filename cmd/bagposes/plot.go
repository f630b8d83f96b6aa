package main

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jetracer/goalnav/navigation"
	"github.com/jetracer/goalnav/ros"
)

const plotSize = 6 * vg.Inch

// plotTrajectory draws the recorded path in the plane and the goal, if any. The image
// format follows the file extension.
func plotTrajectory(filename string, msgs []ros.PoseStampedMessage, goal *navigation.Goal) error {
	if len(msgs) == 0 {
		return errors.New("no poses to plot")
	}

	p := plot.New()
	p.Title.Text = "Trajectory"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(msgs))
	for i := range msgs {
		pose := msgs[i].Pose()
		pts[i].X = pose.Position.X
		pts[i].Y = pose.Position.Y
	}
	path, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	path.LineStyle.Width = vg.Points(2)
	p.Add(path)
	p.Legend.Add("vehicle", path)

	start, err := plotter.NewScatter(pts[:1])
	if err != nil {
		return err
	}
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(start)
	p.Legend.Add("start", start)

	if goal != nil {
		target, err := plotter.NewScatter(plotter.XYs{{X: goal.X, Y: goal.Y}})
		if err != nil {
			return err
		}
		target.GlyphStyle.Shape = draw.CrossGlyph{}
		target.GlyphStyle.Radius = vg.Points(6)
		target.GlyphStyle.Color = color.RGBA{R: 200, A: 255}
		p.Add(target)
		p.Legend.Add("goal", target)
	}

	return p.Save(plotSize, plotSize, filename)
}
