package gst

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identifiers produced here are candidates. Nothing checks them for
// collisions; the storage layer holds the unique indexes.

func dateOrNow(date time.Time) time.Time {
	if date.IsZero() {
		return now()
	}
	return date
}

func shortUUID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// GenerateUniqueInvoiceNumber returns CODE-YYYY-MM-DD-XXXXXXXX with a random
// hex suffix. A zero date means today.
func GenerateUniqueInvoiceNumber(companyCode string, date time.Time) string {
	return fmt.Sprintf("%s-%s-%s", companyCode, dateOrNow(date).Format("2006-01-02"), shortUUID())
}

// GenerateInvoiceNumber returns CODE-YYYY-MM-DD-NNN. The caller owns the
// sequence.
func GenerateInvoiceNumber(companyCode string, date time.Time, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", companyCode, dateOrNow(date).Format("2006-01-02"), sequence)
}

// GeneratePurchaseNumber returns PUR-YYYY-MM-DD-XXXXXXXX
func GeneratePurchaseNumber(date time.Time) string {
	return fmt.Sprintf("PUR-%s-%s", dateOrNow(date).Format("2006-01-02"), shortUUID())
}

// GenerateVendorCode returns VEND followed by the last six digits of the
// epoch milliseconds and a three-digit random number.
func GenerateVendorCode() string {
	ms := strconv.FormatInt(now().UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return fmt.Sprintf("VEND%s%03d", ms, rand.Intn(1000))
}
