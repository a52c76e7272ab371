package worker

import (
	"github.com/analify/dashboard-gateway/internal/service"
)

// StartAuditWorker registers the audit handlers and returns the func that removes them.
func StartAuditWorker(audit *service.AuditService) func() {
	if audit == nil {
		return func() {}
	}
	return audit.RegisterHandlers()
}
