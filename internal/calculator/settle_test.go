package calculator

import (
	"reflect"
	"testing"

	"github.com/grouptab/grouptab/internal/models"
)

func TestPlanSettlement(t *testing.T) {
	tests := []struct {
		name    string
		members []models.Member
		want    []models.Settlement
	}{
		{
			name:    "empty group",
			members: nil,
			want:    nil,
		},
		{
			name: "already settled",
			members: []models.Member{
				{Name: "anna", Balance: 0},
				{Name: "peter", Balance: 0},
			},
			want: nil,
		},
		{
			name: "single pair",
			members: []models.Member{
				{Name: "anna", Balance: 50},
				{Name: "peter", Balance: -50},
			},
			want: []models.Settlement{
				{From: "peter", To: "anna", Amount: 50},
			},
		},
		{
			name: "exact matches pair up before the remainder pass",
			members: []models.Member{
				{Name: "anna", Balance: -50},
				{Name: "bert", Balance: 50},
				{Name: "chris", Balance: -30},
				{Name: "dora", Balance: 30},
			},
			want: []models.Settlement{
				{From: "chris", To: "dora", Amount: 30},
				{From: "anna", To: "bert", Amount: 50},
			},
		},
		{
			name: "uneven balances settle greedily",
			members: []models.Member{
				{Name: "Alice", Balance: -1685},
				{Name: "Bob", Balance: 316},
				{Name: "Charly", Balance: 2117},
				{Name: "Django", Balance: -748},
			},
			want: []models.Settlement{
				{From: "Django", To: "Bob", Amount: 316},
				{From: "Django", To: "Charly", Amount: 432},
				{From: "Alice", To: "Charly", Amount: 1685},
			},
		},
		{
			name: "one debtor pays everyone",
			members: []models.Member{
				{Name: "anna", Balance: -60},
				{Name: "bert", Balance: 10},
				{Name: "chris", Balance: 20},
				{Name: "dora", Balance: 30},
			},
			want: []models.Settlement{
				{From: "anna", To: "bert", Amount: 10},
				{From: "anna", To: "chris", Amount: 20},
				{From: "anna", To: "dora", Amount: 30},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlement(tt.members)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PlanSettlement() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanSettlementZeroesBalances(t *testing.T) {
	members := []models.Member{
		{Name: "Alice", Balance: -1685},
		{Name: "Bob", Balance: 316},
		{Name: "Charly", Balance: 2117},
		{Name: "Django", Balance: -748},
	}
	balances := make(map[string]models.Money, len(members))
	for _, m := range members {
		balances[m.Name] = m.Balance
	}
	for _, s := range PlanSettlement(members) {
		if s.Amount <= 0 {
			t.Fatalf("non-positive settlement amount: %+v", s)
		}
		balances[s.From] += s.Amount
		balances[s.To] -= s.Amount
	}
	for name, b := range balances {
		if b != 0 {
			t.Errorf("%s left with balance %d after settling", name, b)
		}
	}
}

func TestPlanSettlementDoesNotMutateInput(t *testing.T) {
	members := []models.Member{
		{Name: "anna", Balance: 50},
		{Name: "peter", Balance: -50},
	}
	PlanSettlement(members)
	if members[0].Balance != 50 || members[1].Balance != -50 {
		t.Errorf("input balances mutated: %+v", members)
	}
}
