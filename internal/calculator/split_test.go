package calculator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/grouptab/grouptab/internal/models"
)

func TestSplitEqualAmong(t *testing.T) {
	tests := []struct {
		name  string
		total models.Money
		among int
		want  []models.Money
	}{
		{
			name:  "perfect split",
			total: 100,
			among: 10,
			want:  []models.Money{10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
		},
		{
			name:  "imperfect split puts remainder up front",
			total: 100,
			among: 9,
			want:  []models.Money{12, 11, 11, 11, 11, 11, 11, 11, 11},
		},
		{
			name:  "negative perfect split",
			total: -100,
			among: 10,
			want:  []models.Money{-10, -10, -10, -10, -10, -10, -10, -10, -10, -10},
		},
		{
			name:  "negative imperfect split mirrors positive",
			total: -100,
			among: 9,
			want:  []models.Money{-12, -11, -11, -11, -11, -11, -11, -11, -11},
		},
		{
			name:  "zero total",
			total: 0,
			among: 3,
			want:  []models.Money{0, 0, 0},
		},
		{
			name:  "single slot",
			total: 7,
			among: 1,
			want:  []models.Money{7},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEqualAmong(tt.total, tt.among)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitEqualAmong(%d, %d) = %v, want %v", tt.total, tt.among, got, tt.want)
			}
		})
	}
}

func TestSplitEqualAmongProperties(t *testing.T) {
	// Sum preservation and spread <= 1 across a range of totals.
	for total := models.Money(-250); total <= 250; total += 7 {
		for among := 1; among <= 11; among++ {
			shares := SplitEqualAmong(total, among)
			if len(shares) != among {
				t.Fatalf("len(SplitEqualAmong(%d, %d)) = %d", total, among, len(shares))
			}
			var sum, min, max models.Money
			min, max = shares[0], shares[0]
			for _, s := range shares {
				sum += s
				if s < min {
					min = s
				}
				if s > max {
					max = s
				}
			}
			if sum != total {
				t.Errorf("SplitEqualAmong(%d, %d) sums to %d", total, among, sum)
			}
			if max-min > 1 {
				t.Errorf("SplitEqualAmong(%d, %d) spread %d > 1", total, among, max-min)
			}
			// Negating the total negates every share.
			mirrored := SplitEqualAmong(-total, among)
			for i := range shares {
				if mirrored[i] != -shares[i] {
					t.Errorf("SplitEqualAmong(%d, %d)[%d] = %d, want %d", -total, among, i, mirrored[i], -shares[i])
					break
				}
			}
		}
	}
}

func TestSplitIntoTransaction(t *testing.T) {
	members := []string{"Alice", "Bob", "Charly", "Django"}

	tests := []struct {
		name        string
		total       models.Money
		from        []string
		to          []string
		balanceRest bool
		want        models.Change
		wantErr     error
	}{
		{
			name:  "one wildcard payer, whole group consumes",
			total: 120,
			from:  []string{"Alice"},
			want:  models.Change{"Alice": 90, "Bob": -30, "Charly": -30, "Django": -30},
		},
		{
			name:  "two wildcard payers",
			total: 120,
			from:  []string{"Alice", "Bob"},
			want:  models.Change{"Alice": 30, "Bob": 30, "Charly": -30, "Django": -30},
		},
		{
			name:  "explicit receiver sits out of the remainder",
			total: 130,
			from:  []string{"Bob"},
			to:    []string{"Alice:0,1"},
			want:  models.Change{"Alice": -10, "Bob": 90, "Charly": -40, "Django": -40},
		},
		{
			name:  "two explicit receivers",
			total: 140,
			from:  []string{"Bob"},
			to:    []string{"Alice:0,1", "Charly:0.1"},
			want:  models.Change{"Alice": -10, "Bob": 80, "Charly": -10, "Django": -60},
		},
		{
			name:        "balance_rest shares the remainder with receivers",
			total:       140,
			from:        []string{"Bob"},
			to:          []string{"Alice:0,1", "Charly:0.1"},
			balanceRest: true,
			want:        models.Change{"Alice": -40, "Bob": 110, "Charly": -40, "Django": -30},
		},
		{
			name:  "percentage payer with wildcard rest",
			total: 100_00,
			from:  []string{"Alice:10%", "Bob"},
			want:  models.Change{"Alice": 10_00 - 25_00, "Bob": 90_00 - 25_00, "Charly": -25_00, "Django": -25_00},
		},
		{
			name:    "wildcard receiver is rejected",
			total:   120,
			from:    []string{"Alice"},
			to:      []string{"Bob"},
			wantErr: models.ErrInvalidTargetFormat,
		},
		{
			name:    "explicit payers not covering the total",
			total:   120,
			from:    []string{"Alice:1,00"},
			wantErr: models.ErrInvalidSemantic,
		},
		{
			name:    "explicit payer amounts above the total",
			total:   100_00,
			from:    []string{"Alice:90", "Bob:20"},
			wantErr: models.ErrInvalidSemantic,
		},
		{
			name:    "duplicate payer",
			total:   120,
			from:    []string{"Alice:0,60", "Alice:0,60"},
			wantErr: models.ErrInvalidSemantic,
		},
		{
			name:    "duplicate receiver",
			total:   120,
			from:    []string{"Alice"},
			to:      []string{"Bob:0,10", "Bob:0,10"},
			wantErr: models.ErrInvalidSemantic,
		},
		{
			name:    "unknown payer",
			total:   120,
			from:    []string{"Theseus"},
			wantErr: models.ErrMemberNotFound,
		},
		{
			name:    "unknown receiver",
			total:   120,
			from:    []string{"Alice"},
			to:      []string{"Theseus:0,1"},
			wantErr: models.ErrMemberNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, _, _, err := SplitIntoTransaction(tt.total, members, tt.from, tt.to, tt.balanceRest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitIntoTransaction: %v", err)
			}
			if !reflect.DeepEqual(change, tt.want) {
				t.Errorf("change = %v, want %v", change, tt.want)
			}
			if sum := change.Sum(); sum != 0 {
				t.Errorf("change nets to %d, want 0", sum)
			}
		})
	}
}

func TestSplitIntoTransactionRemainderDeterminism(t *testing.T) {
	// 100 among 3 consumers leaves an uneven remainder; it must land on
	// the earliest members in group order, run after run.
	members := []string{"Alice", "Bob", "Charly"}
	want := models.Change{"Alice": 100 - 34, "Bob": -33, "Charly": -33}
	for i := 0; i < 50; i++ {
		change, _, _, err := SplitIntoTransaction(100, members, []string{"Alice"}, nil, false)
		if err != nil {
			t.Fatalf("SplitIntoTransaction: %v", err)
		}
		if !reflect.DeepEqual(change, want) {
			t.Fatalf("run %d: change = %v, want %v", i, change, want)
		}
	}
}
