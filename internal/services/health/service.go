package health

import (
	"context"
	"sort"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Report is the health payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
	Info   map[string]string `json:"info,omitempty"`
}

// Service runs readiness checks and reports static build info.
type Service struct {
	checks []Check
	info   map[string]string
}

// NewService constructs a health service.
func NewService(info map[string]string, checks ...Check) *Service {
	return &Service{checks: checks, info: info}
}

// Status runs every check. OK is false if any check fails.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, Info: s.info}
	if len(s.checks) == 0 {
		return r
	}
	r.Checks = make(map[string]string, len(s.checks))
	sorted := append([]Check(nil), s.checks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, c := range sorted {
		if err := c.Run(ctx); err != nil {
			r.OK = false
			r.Checks[c.Name] = err.Error()
			continue
		}
		r.Checks[c.Name] = "ok"
	}
	return r
}
