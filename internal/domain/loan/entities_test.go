package loan

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTerms() Terms {
	return Terms{
		Amount:         decimal.RequireFromString("0.5"),
		Interest:       decimal.NewFromInt(5),
		DurationMonths: 6,
	}
}

func TestStatus_Transitions(t *testing.T) {
	all := []Status{StatusOpen, StatusActive, StatusCompleted, StatusDefaulted}
	allowed := map[[2]Status]bool{
		{StatusOpen, StatusActive}:      true,
		{StatusActive, StatusCompleted}: true,
		{StatusActive, StatusDefaulted}: true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestLoan_Transition_RejectsRegression(t *testing.T) {
	now := time.Now().UTC()
	l := &Loan{Status: StatusActive}
	if err := l.Transition(StatusOpen, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("active -> open: want ErrInvalidTransition, got %v", err)
	}
	if l.Status != StatusActive {
		t.Fatalf("status changed on rejected transition: %s", l.Status)
	}

	if err := l.Transition(StatusCompleted, now); err != nil {
		t.Fatalf("active -> completed: %v", err)
	}
	if l.ClosedAt == nil || !l.StatusUpdatedAt.Equal(now) {
		t.Fatalf("closing timestamps not set: %+v", l)
	}
	if err := l.Transition(StatusActive, now); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed -> active: want ErrInvalidTransition, got %v", err)
	}
}

func TestNew_AssignsCreatorRole(t *testing.T) {
	now := time.Now().UTC()
	const creator = "cccccccccccccccccccccccccccccccc"

	req, err := New("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", creator, TypeRequest, validTerms(), now)
	if err != nil {
		t.Fatalf("New request: %v", err)
	}
	if req.Status != StatusOpen || req.Borrower() != creator || req.LenderID != nil {
		t.Fatalf("request roles wrong: %+v", req)
	}

	off, err := New("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", creator, TypeOffer, validTerms(), now)
	if err != nil {
		t.Fatalf("New offer: %v", err)
	}
	if off.Lender() != creator || off.BorrowerID != nil {
		t.Fatalf("offer roles wrong: %+v", off)
	}
}

func TestNew_RejectsUnknownType(t *testing.T) {
	_, err := New("x", "y", Type("swap"), validTerms(), time.Now())
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "type" {
		t.Fatalf("want type ValidationError, got %v", err)
	}
}

func TestValidateTerms(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Terms)
		field  string
	}{
		{"valid", func(*Terms) {}, ""},
		{"upper bounds inclusive", func(tr *Terms) {
			tr.Amount, tr.Interest, tr.DurationMonths = decimal.NewFromInt(10), decimal.NewFromInt(15), 36
		}, ""},
		{"lower bounds inclusive", func(tr *Terms) {
			tr.Amount, tr.Interest, tr.DurationMonths = decimal.RequireFromString("0.01"), decimal.NewFromInt(1), 1
		}, ""},
		{"zero amount", func(tr *Terms) { tr.Amount = decimal.Zero }, "amount"},
		{"amount above 10", func(tr *Terms) { tr.Amount = decimal.RequireFromString("10.00000001") }, "amount"},
		{"sub-satoshi amount", func(tr *Terms) { tr.Amount = decimal.RequireFromString("0.123456789") }, "amount"},
		{"interest 20", func(tr *Terms) { tr.Interest = decimal.NewFromInt(20) }, "interest"},
		{"interest below 1", func(tr *Terms) { tr.Interest = decimal.RequireFromString("0.5") }, "interest"},
		{"interest 3 decimals", func(tr *Terms) { tr.Interest = decimal.RequireFromString("5.125") }, "interest"},
		{"zero duration", func(tr *Terms) { tr.DurationMonths = 0 }, "durationMonths"},
		{"duration 37", func(tr *Terms) { tr.DurationMonths = 37 }, "durationMonths"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTerms()
			tc.mutate(&tr)
			err := ValidateTerms(tr)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}

func TestCounterpartyRoles(t *testing.T) {
	req := &Loan{Type: TypeRequest, CreatorID: "creator"}
	if b, l := req.CounterpartyRoles("acceptor"); b != "creator" || l != "acceptor" {
		t.Fatalf("request: borrower=%s lender=%s", b, l)
	}
	off := &Loan{Type: TypeOffer, CreatorID: "creator"}
	if b, l := off.CounterpartyRoles("acceptor"); b != "acceptor" || l != "creator" {
		t.Fatalf("offer: borrower=%s lender=%s", b, l)
	}
}

func TestSchedule(t *testing.T) {
	l := &Loan{Amount: decimal.NewFromInt(1), Interest: decimal.NewFromInt(12), DurationMonths: 12}
	terms, err := l.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if !terms.TotalRepayment.Equal(decimal.RequireFromString("1.12")) {
		t.Fatalf("total = %s, want 1.12", terms.TotalRepayment)
	}
}
