package dto

// DashboardMetrics is the aggregated progress snapshot shown on the
// dashboard. Nil pointers mean "no data yet" and are distinct from zero
// values; the excellence ratio and ECTS progress deliberately default to
// zero instead (see the service for the per-metric policy).
type DashboardMetrics struct {
	TotalCourses     int      `json:"total_courses"`
	GradedCourses    int      `json:"graded_courses"`
	CompletedCourses int      `json:"completed_courses"`
	ExcellentCount   int      `json:"excellent_count"`
	ECTSEarned       float64  `json:"ects_earned"`
	ECTSTarget       int      `json:"ects_target"`
	ECTSProgress     int      `json:"ects_progress"`
	ExamsTarget      int      `json:"exams_target"`
	AvgExamDays      *int     `json:"avg_exam_days"`
	AvgOtherDays     *int     `json:"avg_other_days"`
	ExcellenceRatio  float64  `json:"excellence_ratio"`
	WeightedAverage  *float64 `json:"weighted_average"`
}

// DashboardResponse bundles the metrics with the goal evaluation result.
type DashboardResponse struct {
	Program string           `json:"program"`
	Metrics DashboardMetrics `json:"metrics"`
	Goals   map[string]bool  `json:"goals"`
}

// GoalStatusResponse reports one pass/fail per active rule kind.
type GoalStatusResponse struct {
	Program string          `json:"program"`
	Goals   map[string]bool `json:"goals"`
}
