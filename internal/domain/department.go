package domain

// Department represents a municipal responsibility area tracked for
// aggregate performance. The set of departments is fixed and seeded at
// store initialization; departments are never created or removed at
// runtime.
type Department struct {
	ID                 int64
	Name               string
	TotalComplaints    int64
	ComplaintsResolved int64
	// AvgResolutionTime is reserved for a future reporting pass and
	// currently always zero.
	AvgResolutionTime float64
}

// DepartmentNames lists the seeded departments in display order. The
// first entry doubles as the routing fallback for unmapped categories.
var DepartmentNames = []string{
	"Roads and Infrastructure",
	"Sanitation and Waste Management",
	"Street Lighting",
	"Water Supply",
	"Drainage and Sewerage",
	"Public Health",
}
