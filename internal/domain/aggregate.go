package domain

import "sort"

// MonthBucket accumulates the readings of one month.
type MonthBucket struct {
	Total float64 // kWh
	Days  int     // number of valid readings, not calendar days
}

// DailyAverage returns Total / Days. Buckets are only created alongside a
// reading, so Days is always >= 1.
func (b MonthBucket) DailyAverage() float64 {
	return b.Total / float64(b.Days)
}

// MonthlyAggregate maps each observed month to its bucket.
// The zero value is not usable; use NewMonthlyAggregate.
type MonthlyAggregate struct {
	buckets map[MonthKey]MonthBucket
}

func NewMonthlyAggregate() *MonthlyAggregate {
	return &MonthlyAggregate{buckets: make(map[MonthKey]MonthBucket)}
}

// Add folds a reading into the bucket for its month.
func (a *MonthlyAggregate) Add(r Reading) {
	k := MonthKeyOf(r.Date)
	b := a.buckets[k]
	b.Total += r.Consumption
	b.Days++
	a.buckets[k] = b
}

// Bucket returns the bucket for k and whether it exists.
func (a *MonthlyAggregate) Bucket(k MonthKey) (MonthBucket, bool) {
	b, ok := a.buckets[k]
	return b, ok
}

// Len returns the number of distinct months.
func (a *MonthlyAggregate) Len() int {
	return len(a.buckets)
}

// Keys returns all months in ascending (year, month) order.
func (a *MonthlyAggregate) Keys() []MonthKey {
	keys := make([]MonthKey, 0, len(a.buckets))
	for k := range a.buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
