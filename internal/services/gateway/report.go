package gateway

import (
	"fmt"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// FormatResult renders the one-line console verdict for a check
func FormatResult(res models.EndpointResult) string {
	name := res.Endpoint.Name
	switch res.Verdict {
	case models.VerdictGatewayMisconfigured:
		return fmt.Sprintf("❌ %s: Still getting API Gateway 404", name)
	case models.VerdictServiceResponding:
		return fmt.Sprintf("✅ %s: Lambda is responding! (Status: %d)", name, res.StatusCode)
	case models.VerdictUnexpectedStatus:
		return fmt.Sprintf("⚠️  %s: Unexpected status %d", name, res.StatusCode)
	default:
		return fmt.Sprintf("❌ %s: Error - %s", name, res.Error)
	}
}
