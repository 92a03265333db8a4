package customer

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		candidate Customer
		match     *Customer
		want      Decision
	}{
		{
			name:      "no match inserts",
			candidate: Customer{Name: "Acme"},
			want:      Insert,
		},
		{
			name:      "new record with taken name is rejected",
			candidate: Customer{Name: "Acme"},
			match:     &Customer{ID: "a", Name: "Acme"},
			want:      Reject,
		},
		{
			name:      "other id with same name is rejected",
			candidate: Customer{ID: "b", Name: "Acme"},
			match:     &Customer{ID: "a", Name: "Acme"},
			want:      Reject,
		},
		{
			name:      "same id updates",
			candidate: Customer{ID: "a", Name: "Acme"},
			match:     &Customer{ID: "a", Name: "Acme"},
			want:      Update,
		},
		{
			name:      "same id with new name updates",
			candidate: Customer{ID: "a", Name: "Acme Renamed"},
			match:     &Customer{ID: "a", Name: "Acme"},
			want:      Update,
		},
		{
			name:      "different id and name updates",
			candidate: Customer{ID: "b", Name: "Other"},
			match:     &Customer{ID: "a", Name: "Acme"},
			want:      Update,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.candidate, tt.match); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
