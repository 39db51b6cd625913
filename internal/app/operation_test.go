package app

import (
	"errors"
	"testing"
	"time"

	"docflow/internal/docflow"
)

func TestNewOperation(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 45, 123e6, time.UTC)
	p := docflow.Principal{UserID: "manager-1", Roles: []docflow.Role{docflow.RoleManager}}

	op := NewOperation("doc upload", p, now)

	if op.ID != "20240615T143045.123Z" {
		t.Errorf("ID = %q, want 20240615T143045.123Z", op.ID)
	}
	if op.Name != "doc upload" || op.Principal.UserID != "manager-1" {
		t.Errorf("operation = %+v", op)
	}
	if op.Status != "success" || op.Failed() {
		t.Errorf("Status = %q, want success", op.Status)
	}
}

func TestOperation_Record(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want bool
	}{
		{name: "no errors", errs: []error{nil, nil}, want: false},
		{name: "one error", errs: []error{nil, errors.New("boom")}, want: true},
		{name: "error then success", errs: []error{errors.New("boom"), nil}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("x", docflow.Principal{}, time.Now())
			for _, err := range tt.errs {
				if got := op.Record(err); got != err {
					t.Errorf("Record() = %v, want %v", got, err)
				}
			}
			if op.Failed() != tt.want {
				t.Errorf("Failed() = %v, want %v", op.Failed(), tt.want)
			}
		})
	}
}
