// Command explore prints an overview of a raw location log and writes a
// scatter plot of the cells visited by the first few users.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/Noofbiz/humob/datasets"
	"github.com/Noofbiz/humob/stats"
	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func main() {
	in := flag.String("in", "data/city_A.csv", "CSV log with at least uid,d,t,x,y columns")
	users := flag.Int("users", 3, "number of users (in log order) to plot")
	outDir := flag.String("out", "plots", "output directory for scatter plots")
	flag.Parse()

	header, err := datasets.ReadHeader(*in)
	if errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("input file not found: %s", *in)
	}
	if err != nil {
		log.Fatalf("failed to read header: %v", err)
	}
	fmt.Printf("Columns: %v\n", header)

	records, err := datasets.LoadEventsCSV(*in)
	if err != nil {
		log.Fatalf("failed to load log: %v", err)
	}
	sum, perUser := datasets.Describe(records)

	fmt.Printf("Users:  %s\n", humanize.Comma(int64(sum.Users)))
	fmt.Printf("Points: %s\n", humanize.Comma(int64(sum.Points)))
	fmt.Printf("Cells:  %s\n", humanize.Comma(int64(sum.Cells)))
	fmt.Printf("Days:   %d..%d\n", sum.FirstDay, sum.LastDay)
	printDistribution("Points per user", sum.PointsPerUser)
	printDistribution("Days per user", sum.DaysPerUser)
	printDistribution("Radius of gyration (cells)", sum.Gyration)

	n := min(*users, len(perUser))
	if n == 0 {
		return
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", *outDir, err)
	}
	for _, u := range perUser[:n] {
		fmt.Printf("User %d: %d points over %d days, extent x=[%.0f,%.0f] y=[%.0f,%.0f], gyration %.2f\n",
			u.UID, u.Points, u.Days, u.Bound.Min[0], u.Bound.Max[0], u.Bound.Min[1], u.Bound.Max[1], u.Gyration)
		path := filepath.Join(*outDir, fmt.Sprintf("user_%d.png", u.UID))
		if err := plotUser(path, u, datasets.UserPoints(records, u.UID)); err != nil {
			log.Fatalf("failed to plot user %d: %v", u.UID, err)
		}
		log.Printf("Wrote %s", path)
	}
}

func printDistribution(name string, s stats.Summary) {
	fmt.Printf("%s:\n", name)
	fmt.Printf("  count %d  mean %.2f  std %.2f\n", s.Count, s.Mean, s.Std)
	fmt.Printf("  min %.2f  25%% %.2f  50%% %.2f  75%% %.2f  max %.2f\n", s.Min, s.Q1, s.Median, s.Q3, s.Max)
}

// plotUser writes a scatter of a user's visited cells.
func plotUser(path string, u datasets.UserSummary, mp orb.MultiPoint) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("User %d trajectory", u.UID)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	xys := make(plotter.XYs, len(mp))
	for i, pt := range mp {
		xys[i] = plotter.XY{X: pt.X(), Y: pt.Y()}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 90}
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc, plotter.NewGrid())

	// pad the extent so single-cell users still get a visible frame
	p.X.Min, p.X.Max = u.Bound.Min[0]-1, u.Bound.Max[0]+1
	p.Y.Min, p.Y.Max = u.Bound.Min[1]-1, u.Bound.Max[1]+1

	return p.Save(8*vg.Inch, 8*vg.Inch, path)
}
