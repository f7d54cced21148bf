package domain

import "fmt"

// Workload identifies one of the sized usage categories. Workloads are
// always addressed by name, never by report section position.
type Workload string

const (
	// WorkloadMail covers user and shared mailboxes.
	WorkloadMail Workload = "mail"
	// WorkloadDrive covers personal file-sync storage accounts.
	WorkloadDrive Workload = "drive"
	// WorkloadSites covers collaboration sites.
	WorkloadSites Workload = "sites"
)

// Workloads returns all workloads in report order.
func Workloads() []Workload {
	return []Workload{WorkloadMail, WorkloadDrive, WorkloadSites}
}

func ParseWorkload(s string) (Workload, error) {
	switch Workload(s) {
	case WorkloadMail, WorkloadDrive, WorkloadSites:
		return Workload(s), nil
	}
	return "", fmt.Errorf("unknown workload %q (expected mail, drive or sites)", s)
}

func (w Workload) String() string {
	return string(w)
}

// DisplayName returns the human-facing workload label used in reports.
func (w Workload) DisplayName() string {
	switch w {
	case WorkloadMail:
		return "Mailboxes"
	case WorkloadDrive:
		return "Personal Storage"
	case WorkloadSites:
		return "Collaboration Sites"
	}
	return string(w)
}
