// Package fee computes the platform's split of a gross booking amount.
package fee

// FeeRateBasisPoints is the platform commission, 10% of gross.
const FeeRateBasisPoints int64 = 1000

// Split returns the platform fee and the landlord earnings for a gross
// amount in minor currency units. The fee is rounded half-up; earnings are
// gross minus the rounded fee, so fee+earnings == gross holds exactly for
// every non-negative integer gross. Callers must not pass a negative gross.
func Split(gross int64) (fee int64, earnings int64) {
	fee = (gross*FeeRateBasisPoints + 5000) / 10000
	return fee, gross - fee
}
