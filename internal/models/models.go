package models

type Coordinate struct {
	Lat float64
	Lng float64
}

// GeohashPair is one input row: the customer and restaurant geohashes.
type GeohashPair struct {
	Index        int // 1-based position in the input file
	CustomerGH   string
	RestaurantGH string
}

// ProviderResult holds the normalized fields extracted from one provider
// response. Numeric route fields are pointers: nil means the provider call
// failed or returned no usable route, and Status carries the reason.
type ProviderResult struct {
	DistanceMeters  *float64
	DistanceText    string
	DurationSeconds *float64
	DurationText    string
	Polyline        string
	StartAddress    string
	EndAddress      string
	Status          string
	ResponseTimeMs  float64
}

func (r ProviderResult) OK() bool {
	return r.Status == "OK"
}

// ComparisonRecord is one output row: the input pair, both provider results
// and the derived absolute differences. A diff field is non-nil only when
// both of its operands are present.
type ComparisonRecord struct {
	Pair           GeohashPair
	Customer       Coordinate
	Restaurant     Coordinate
	StraightLineM  *float64 // haversine between the decoded cells
	DecodeErr      string   // non-empty when a geohash failed to decode
	Directions     ProviderResult
	Routes         ProviderResult
	DistanceDiffM  *float64
	DurationDiffS  *float64
	RespTimeDiffMs *float64
	FasterAPI      string // "directions" or "routes", empty when unknown
}

// FieldStats are the aggregate statistics of one diff field over the rows
// where it was present.
type FieldStats struct {
	Count  int
	Mean   float64
	Median float64
	Max    float64
	Min    float64
}

// BatchSummary is computed once after all rows are processed.
type BatchSummary struct {
	TotalRows          int
	BothSucceeded      int
	DecodeFailures     int
	DirectionsFailures int
	RoutesFailures     int
	DistanceDiff       FieldStats
	DurationDiff       FieldStats
	RespTimeDiff       FieldStats
}

// Float returns a pointer to v. Convenience for optional fields.
func Float(v float64) *float64 {
	return &v
}
