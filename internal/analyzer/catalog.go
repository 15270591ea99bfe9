package analyzer

import (
	"fmt"
	"slices"
)

// Designations are the job titles offered in the UI.
var Designations = []string{
	"Data Scientist",
	"Data Analyst",
	"Data Engineer",
	"Machine Learning Engineer",
	"Software Engineer",
	"Backend Developer",
	"Frontend Developer",
	"Full Stack Developer",
	"DevOps Engineer",
	"Product Manager",
	"Business Analyst",
	"UI/UX Designer",
}

// ExperienceLevels are the seniority bands offered in the UI.
var ExperienceLevels = []string{
	"Fresher",
	"1-2 Years Experience",
	"3-5 Years Experience",
	"5-10 Years Experience",
	"10+ Years Experience",
}

// Domains are the industries offered in the UI.
var Domains = []string{
	"Finance",
	"Healthcare",
	"E-commerce",
	"Education",
	"Technology",
	"Manufacturing",
	"Telecommunications",
	"Consulting",
	"Government",
	"Media & Entertainment",
}

// Options groups the three lists for rendering.
type Options struct {
	Designations     []string `json:"designations"`
	ExperienceLevels []string `json:"experienceLevels"`
	Domains          []string `json:"domains"`
}

// Catalog returns copies of the offered options.
func Catalog() Options {
	return Options{
		Designations:     slices.Clone(Designations),
		ExperienceLevels: slices.Clone(ExperienceLevels),
		Domains:          slices.Clone(Domains),
	}
}

// ValidateSelection checks each value against its list. Matching is exact.
func ValidateSelection(designation, experience, domain string) error {
	checks := []struct {
		field string
		value string
		list  []string
	}{
		{"designation", designation, Designations},
		{"experience", experience, ExperienceLevels},
		{"domain", domain, Domains},
	}
	for _, c := range checks {
		if !slices.Contains(c.list, c.value) {
			return fmt.Errorf("%w: %s %q is not offered", ErrInvalidSelection, c.field, c.value)
		}
	}
	return nil
}
