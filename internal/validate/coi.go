package validate

import (
	"fmt"
	"math"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/internal/entity"
)

// Required coverage minimums for general liability.
const (
	MinEachOccurrence   = 1_000_000
	MinGeneralAggregate = 2_000_000
)

// RenewalWindowDays is the expiration window that downgrades a policy from
// fine to renewal-needed.
const RenewalWindowDays = 30

// COI evaluates a certificate against the coverage and expiration rules.
// Rules are evaluated independently, without short-circuiting, and the
// function is pure: same certificate and clock in, same findings out.
func COI(coi *entity.COIData, now time.Time) entity.ValidationFindings {
	out := entity.NewValidationFindings()
	gl := coi.GeneralLiability()

	if occ, _ := gl.Limit(entity.LimitEachOccurrence); occ >= MinEachOccurrence {
		out.Recommendations = append(out.Recommendations, "General Liability Each Occurrence meets $1M requirement")
	} else {
		out.Warnings = append(out.Warnings, "General Liability Each Occurrence below $1M requirement")
	}

	if agg, _ := gl.Limit(entity.LimitGeneralAggregate); agg >= MinGeneralAggregate {
		out.Recommendations = append(out.Recommendations, "General Liability Aggregate meets $2M requirement")
	} else {
		out.Warnings = append(out.Warnings, "General Liability Aggregate below $2M requirement")
	}

	days := DaysUntilExpiration(gl.PolicyPeriod.Expiration, now)
	switch {
	case days > RenewalWindowDays:
		out.Recommendations = append(out.Recommendations, fmt.Sprintf("Policy expires in %d days", days))
	case days > 0:
		out.Warnings = append(out.Warnings, fmt.Sprintf("Policy expires in %d days - renewal needed", days))
	default:
		out.CriticalIssues = append(out.CriticalIssues, "Policy appears expired")
	}

	out.IsValid = len(out.CriticalIssues) == 0
	return out
}

// DaysUntilExpiration is the ceiling of the remaining policy lifetime in
// whole days; zero or negative means expired.
func DaysUntilExpiration(expiration, now time.Time) int {
	return int(math.Ceil(expiration.Sub(now).Hours() / 24))
}
