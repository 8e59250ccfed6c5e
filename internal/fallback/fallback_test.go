package fallback

import (
	"strings"
	"testing"
	"time"

	"github.com/afrimarkets/dashboard/internal/model"
)

func TestRecords_Dataset(t *testing.T) {
	recs := Records()
	if len(recs) != 15 {
		t.Fatalf("len(Records) = %d, want 15", len(recs))
	}

	ids := make(map[string]bool)
	for _, r := range recs {
		if ids[r.ID] {
			t.Errorf("duplicate id %q", r.ID)
		}
		ids[r.ID] = true

		if r.Source != model.SourceDemo {
			t.Errorf("%s: Source = %q, want demo", r.ID, r.Source)
		}
		if r.ChangePercent == nil {
			t.Fatalf("%s: ChangePercent missing", r.ID)
		}
		if want := !r.ChangePercent.IsNegative(); r.Positive != want {
			t.Errorf("%s: Positive = %v, want %v (changePercent %s)", r.ID, r.Positive, want, r.ChangePercent)
		}
		if r.Value == "" || r.Currency == "" || r.Exchange == "" {
			t.Errorf("%s: incomplete record %+v", r.ID, r)
		}
	}

	for _, id := range []string{"jse", "ngx", "egx", "nse", "brvm"} {
		if !ids[id] {
			t.Errorf("dataset missing %q", id)
		}
	}
}

func TestRecords_ReturnsCopies(t *testing.T) {
	a := Records()
	a[0].Name = "mutated"
	*a[0].ChangePercent = a[0].ChangePercent.Neg()

	b := Records()
	if b[0].Name == "mutated" {
		t.Error("Records shares record storage between calls")
	}
	if b[0].ChangePercent.Equal(*a[0].ChangePercent) {
		t.Error("Records shares ChangePercent between calls")
	}
}

func TestSnapshot(t *testing.T) {
	now := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	s := Snapshot(now)

	if s.Source != model.SourceDemo {
		t.Errorf("Source = %q, want demo", s.Source)
	}
	if !s.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt, now)
	}
	if s2 := Snapshot(now); s2.ID == s.ID {
		t.Error("each snapshot should get its own ID")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"not a list", "id: jse", "parse yaml"},
		{"missing id", "- name: x\n  rawValue: '1'\n  changePercent: '0'", "no id"},
		{"duplicate", "- {id: a, rawValue: '1', changePercent: '0'}\n- {id: a, rawValue: '1', changePercent: '0'}", "duplicate"},
		{"bad value", "- {id: a, rawValue: 'x', changePercent: '0'}", "rawValue"},
		{"bad change", "- {id: a, rawValue: '1', changePercent: ''}", "changePercent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("parse error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
