package repository

import (
	"strings"
	"testing"
	"time"
)

// fakeRow hands scanBookingView a canned column set in select order.
type fakeRow struct{ vals []any }

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		if i >= len(r.vals) || r.vals[i] == nil {
			continue
		}
		switch out := d.(type) {
		case *uint64:
			*out = r.vals[i].(uint64)
		case *uint32:
			*out = r.vals[i].(uint32)
		case *string:
			*out = r.vals[i].(string)
		case *time.Time:
			*out = r.vals[i].(time.Time)
		default:
			// sql.Null* targets implement Scanner.
			if sc, ok := d.(interface{ Scan(any) error }); ok {
				if err := sc.Scan(r.vals[i]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func TestScanBookingView_CompanyUpdaterName(t *testing.T) {
	now := time.Now().UTC()
	row := fakeRow{vals: []any{
		uint64(5), uint64(2), uint64(3), uint64(9), "onsite",
		"2026-09-01", "morning", uint32(4), uint32(1),
		"notes", "cancelled", int64(9), "company", now, "changed plans",
		now, now,
		"Acme", "ACM", "HQ", "Dana", "dana@acme.test", "Dana",
	}}

	v, err := scanBookingView(row)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if v.StatusUpdatedByType != "company" {
		t.Fatalf("updater type = %q, want company", v.StatusUpdatedByType)
	}
	if v.UpdatedByName != "Dana" {
		t.Fatalf("updater name = %q, want the company account's name", v.UpdatedByName)
	}
	if v.StatusUpdatedBy == nil || *v.StatusUpdatedBy != 9 {
		t.Fatalf("updater id = %v, want 9", v.StatusUpdatedBy)
	}
}

func TestBookingViewSelect_ResolvesBothAccountTables(t *testing.T) {
	// A company user cancelling their booking must render a name too,
	// not only staff updaters.
	if !strings.Contains(bookingViewSelect, "b.status_updated_by_type = 'staff'") {
		t.Fatal("view does not resolve staff updaters")
	}
	if !strings.Contains(bookingViewSelect, "b.status_updated_by_type = 'company'") {
		t.Fatal("view does not resolve company updaters")
	}
	if !strings.Contains(bookingViewSelect, "COALESCE(su.name, cup.name)") {
		t.Fatal("view does not pick the name from the matching table")
	}
}
