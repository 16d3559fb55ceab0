package analytics

import (
	"sort"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/model"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/period"
)

const (
	DriverTop              = "top"
	DriverGood             = "good"
	DriverAverage          = "average"
	DriverNeedsImprovement = "needs_improvement"

	// ratingScale maps a 1-5 rating onto 0-100.
	ratingScale = 20
)

type DriverPerformance struct {
	DriverID       string  `json:"driver_id"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Trips          int     `json:"trips"`
	CompletedTrips int     `json:"completed_trips"`
	Revenue        float64 `json:"revenue"`
	CompletionRate float64 `json:"completion_rate"`
	Satisfaction   float64 `json:"satisfaction"`
	Efficiency     float64 `json:"efficiency"`
	OverallScore   float64 `json:"overall_score"`
	Performance    string  `json:"performance"`
}

func DriverBucket(score float64) string {
	switch {
	case score >= 90:
		return DriverTop
	case score >= 75:
		return DriverGood
	case score >= 60:
		return DriverAverage
	default:
		return DriverNeedsImprovement
	}
}

// DriverPerformanceIn scores every driver on the assignments created in p,
// best score first.
//
// Satisfaction is the mean rating scaled to 100, or the completion rate when
// no assignment was rated. Efficiency is the share of completions finished by
// their due time.
func DriverPerformanceIn(d *Dataset, p period.Period) []DriverPerformance {
	byDriver := make(map[string][]*model.Assignment)
	for _, a := range d.Assignments {
		if p.Contains(a.CreatedAt) {
			byDriver[a.DriverID] = append(byDriver[a.DriverID], a)
		}
	}

	rows := make([]DriverPerformance, 0, len(d.Drivers))
	for _, dr := range d.Drivers {
		row := DriverPerformance{
			DriverID: dr.ID,
			Name:     dr.Name,
			Status:   string(dr.Status),
		}

		var ratingSum float64
		var rated, onTime int
		for _, a := range byDriver[dr.ID] {
			row.Trips++
			row.Revenue += a.Fare
			if a.Status == model.AssignmentCompleted {
				row.CompletedTrips++
				if a.OnTime() {
					onTime++
				}
			}
			if a.Rating != nil {
				ratingSum += *a.Rating
				rated++
			}
		}

		row.CompletionRate = percent(float64(row.CompletedTrips), float64(row.Trips))
		row.Satisfaction = row.CompletionRate
		if rated > 0 {
			row.Satisfaction = ratingSum / float64(rated) * ratingScale
		}
		row.Efficiency = percent(float64(onTime), float64(row.CompletedTrips))
		row.OverallScore = (row.CompletionRate + row.Satisfaction + row.Efficiency) / 3
		row.Performance = DriverBucket(row.OverallScore)

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OverallScore > rows[j].OverallScore
	})
	return rows
}
