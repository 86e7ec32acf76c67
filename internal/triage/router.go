package triage

import "github.com/spec-kit/complaint-service/internal/domain"

var categoryDepartments = map[string]string{
	"Pothole":     "Roads and Infrastructure",
	"Road Damage": "Roads and Infrastructure",
	"Garbage":     "Sanitation and Waste Management",
	"Waste":       "Sanitation and Waste Management",
	"Streetlight": "Street Lighting",
	"Lighting":    "Street Lighting",
	"Water":       "Water Supply",
	"Drainage":    "Drainage and Sewerage",
	"Health":      "Public Health",
}

// RouteDepartment maps a category label to the responsible department.
// Unmapped categories (including "Uncategorized" and "Other") route to
// the first department; this is a deliberate fallback, not an error.
func RouteDepartment(category string) string {
	if dept, ok := categoryDepartments[category]; ok {
		return dept
	}
	return domain.DepartmentNames[0]
}
