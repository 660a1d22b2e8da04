package datasets

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/Noofbiz/humob/stats"
)

// Summary describes a raw mobility log.
type Summary struct {
	Users    int
	Points   int
	Cells    int // distinct (x, y) cells visited by anyone
	FirstDay int
	LastDay  int

	PointsPerUser stats.Summary
	DaysPerUser   stats.Summary
	// Gyration is the per-user radius of gyration in cell units.
	Gyration stats.Summary
}

// UserSummary describes a single user's part of the log.
type UserSummary struct {
	UID      int64
	Points   int
	Days     int
	Bound    orb.Bound // extent of visited cells
	Gyration float64
}

// Describe summarises records. Users are returned in order of first
// appearance in the log.
func Describe(records []Record) (Summary, []UserSummary) {
	var sum Summary
	if len(records) == 0 {
		return sum, nil
	}

	order := make([]int64, 0)
	points := make(map[int64]orb.MultiPoint)
	days := make(map[int64]map[int]struct{})
	cells := make(map[[2]int]struct{})

	sum.FirstDay, sum.LastDay = records[0].Day, records[0].Day
	for _, r := range records {
		if _, ok := points[r.UID]; !ok {
			order = append(order, r.UID)
			days[r.UID] = make(map[int]struct{})
		}
		points[r.UID] = append(points[r.UID], orb.Point{float64(r.X), float64(r.Y)})
		days[r.UID][r.Day] = struct{}{}
		cells[[2]int{r.X, r.Y}] = struct{}{}
		sum.FirstDay = min(sum.FirstDay, r.Day)
		sum.LastDay = max(sum.LastDay, r.Day)
	}

	users := make([]UserSummary, 0, len(order))
	perUserPoints := make([]float64, 0, len(order))
	perUserDays := make([]float64, 0, len(order))
	gyrations := make([]float64, 0, len(order))
	for _, uid := range order {
		mp := points[uid]
		us := UserSummary{
			UID:      uid,
			Points:   len(mp),
			Days:     len(days[uid]),
			Bound:    mp.Bound(),
			Gyration: radiusOfGyration(mp),
		}
		users = append(users, us)
		perUserPoints = append(perUserPoints, float64(us.Points))
		perUserDays = append(perUserDays, float64(us.Days))
		gyrations = append(gyrations, us.Gyration)
	}

	sum.Users = len(order)
	sum.Points = len(records)
	sum.Cells = len(cells)
	sum.PointsPerUser = stats.Describe(perUserPoints)
	sum.DaysPerUser = stats.Describe(perUserDays)
	sum.Gyration = stats.Describe(gyrations)
	return sum, users
}

// radiusOfGyration is the root mean squared distance of the points from
// their centroid.
func radiusOfGyration(mp orb.MultiPoint) float64 {
	if len(mp) == 0 {
		return 0
	}
	centroid, _ := planar.CentroidArea(mp)
	var sq float64
	for _, p := range mp {
		d := planar.Distance(p, centroid)
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(mp)))
}

// UserPoints returns the visited cells of one user in log order.
func UserPoints(records []Record, uid int64) orb.MultiPoint {
	var mp orb.MultiPoint
	for _, r := range records {
		if r.UID == uid {
			mp = append(mp, orb.Point{float64(r.X), float64(r.Y)})
		}
	}
	return mp
}
