package booking

import (
	"errors"
	"testing"
)

func TestAssertTransition(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		wantErr bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, false},
		{"pending to canceled", StatusPending, StatusCanceled, false},
		{"pending skips payment", StatusPending, StatusPaid, true},
		{"pending to completed", StatusPending, StatusCompleted, true},
		{"confirmed to paid", StatusConfirmed, StatusPaid, false},
		{"confirmed to canceled", StatusConfirmed, StatusCanceled, false},
		{"confirmed back to pending", StatusConfirmed, StatusPending, true},
		{"paid to provider completion", StatusPaid, StatusCompletedByProvider, false},
		{"paid to refunded", StatusPaid, StatusRefunded, false},
		{"paid to disputed", StatusPaid, StatusDisputed, false},
		{"paid to canceled", StatusPaid, StatusCanceled, true},
		{"provider completion to completed", StatusCompletedByProvider, StatusCompleted, false},
		{"provider completion to disputed", StatusCompletedByProvider, StatusDisputed, false},
		{"completed to disputed", StatusCompleted, StatusDisputed, false},
		{"completed to refunded", StatusCompleted, StatusRefunded, false},
		{"disputed to resolved", StatusDisputed, StatusDisputeResolved, false},
		{"disputed to refunded", StatusDisputed, StatusRefunded, false},
		{"same state rejected", StatusPending, StatusPending, true},
		{"same terminal state rejected", StatusCanceled, StatusCanceled, true},
		{"canceled is terminal", StatusCanceled, StatusPending, true},
		{"refunded is terminal", StatusRefunded, StatusPaid, true},
		{"resolved dispute is terminal", StatusDisputeResolved, StatusDisputed, true},
		{"unknown current status", Status("archived"), StatusPending, true},
		{"unknown next status", StatusPending, Status("archived"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertTransition(tt.current, tt.next)
			if (err != nil) != tt.wantErr {
				t.Errorf("AssertTransition(%q, %q) error = %v, wantErr %v",
					tt.current, tt.next, err, tt.wantErr)
			}
			if err != nil {
				var invalid *InvalidTransitionError
				if !errors.As(err, &invalid) {
					t.Fatalf("error type = %T, want *InvalidTransitionError", err)
				}
				if invalid.From != tt.current || invalid.To != tt.next {
					t.Errorf("error names %s -> %s, want %s -> %s",
						invalid.From, invalid.To, tt.current, tt.next)
				}
			}
		})
	}
}

func TestTerminalStatusesHaveNoSuccessors(t *testing.T) {
	terminals := []Status{StatusCanceled, StatusRefunded, StatusDisputeResolved}
	for _, terminal := range terminals {
		if !Terminal(terminal) {
			t.Errorf("Terminal(%q) = false, want true", terminal)
		}
		for candidate := range transitions {
			if err := AssertTransition(terminal, candidate); err == nil {
				t.Errorf("AssertTransition(%q, %q) succeeded, want rejection", terminal, candidate)
			}
		}
	}
}

func TestSettableByParty(t *testing.T) {
	reserved := map[Status]bool{
		StatusPaid:            true,
		StatusRefunded:        true,
		StatusDisputeResolved: true,
	}
	for status := range transitions {
		if got := SettableByParty(status); got == reserved[status] {
			t.Errorf("SettableByParty(%q) = %v, want %v", status, got, !reserved[status])
		}
	}
}

func TestValid(t *testing.T) {
	for status := range transitions {
		if !Valid(status) {
			t.Errorf("Valid(%q) = false, want true", status)
		}
	}
	if Valid(Status("archived")) {
		t.Error("Valid(\"archived\") = true, want false")
	}
	if Terminal(Status("archived")) {
		t.Error("Terminal(\"archived\") = true, want false")
	}
}
