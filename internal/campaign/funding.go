// Package campaign holds the commitment-funding arithmetic shared by the
// backing flow and campaign pages. All amounts are integer paise.
package campaign

import (
	"fmt"
	"math"
)

// DefaultCommitmentPercentage is the fraction of a reward's price charged
// up front when no explicit percentage is configured; the remainder is
// collected on delivery.
const DefaultCommitmentPercentage = 40

// CommitmentAmount returns the up-front charge for a reward price at the
// given commitment percentage, rounded to the nearest paisa.
func CommitmentAmount(price int64, percentage int) int64 {
	if price <= 0 || percentage <= 0 {
		return 0
	}
	return int64(math.Round(float64(price) * float64(percentage) / 100))
}

// RemainderAmount returns the balance due on delivery.
func RemainderAmount(price int64, percentage int) int64 {
	return price - CommitmentAmount(price, percentage)
}

// Progress returns funding progress as a whole percentage, clamped to
// 0–100. A zero goal reads as fully funded.
func Progress(currentFunding, fundingGoal int64) int {
	if fundingGoal <= 0 {
		return 100
	}
	if currentFunding <= 0 {
		return 0
	}
	pct := int(currentFunding * 100 / fundingGoal)
	if pct > 100 {
		return 100
	}
	return pct
}

// FormatPrice renders paise as a rupee string, e.g. 555500 -> "₹5555.00".
func FormatPrice(paise int64) string {
	return fmt.Sprintf("₹%.2f", float64(paise)/100)
}
