package sim

// tickEpsilon absorbs floating-point error in the tick count.
const tickEpsilon = 1e-9

// Point is a metrics Summary evaluated over [start, Time).
type Point struct {
	Time    float64 `yaml:"time"`
	Summary `yaml:",inline"`
}

// Series evaluates the cumulative metrics at start+tick, start+2·tick, ...
// up to and including until. Each point covers [start, t). A non-positive
// tick or an empty range yields no points.
func Series(planes []*Airplane, capacity int, start, tick, until float64) []Point {
	if !(tick > 0) || !(until > start) {
		return nil
	}
	n := int((until-start)/tick + tickEpsilon)
	points := make([]Point, 0, n)
	for i := 1; i <= n; i++ {
		t := min(start+float64(i)*tick, until)
		points = append(points, Point{
			Time:    t,
			Summary: Summarize(planes, Window{Start: start, End: t}, capacity),
		})
	}
	return points
}
