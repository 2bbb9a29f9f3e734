package ports

import "github.com/docentkit/docent/internal/domain"

// ReportStore persists verification reports for reproducibility.
type ReportStore interface {
	SaveReport(rep domain.Report) (id string, err error)
}
