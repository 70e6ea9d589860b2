package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"p2p-lending-backend/pkg/finance"
)

type Type string

const (
	TypeRequest Type = "request" // borrower seeking funds
	TypeOffer   Type = "offer"   // lender supplying funds
)

func (t Type) Valid() bool { return t == TypeRequest || t == TypeOffer }

type Status string

const (
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusCompleted, StatusDefaulted:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusDefaulted }

// CanTransitionTo: open → active → {completed, defaulted}. Nothing else.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusOpen:
		return next == StatusActive
	case StatusActive:
		return next == StatusCompleted || next == StatusDefaulted
	}
	return false
}

// Table: loans
type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"column:loan_id;size:32;uniqueIndex:ux_loans_loan_id" json:"id"`
	Type            Type            `gorm:"column:type;size:16;not null" json:"type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null" json:"amount"`
	Interest        decimal.Decimal `gorm:"column:interest;type:decimal(5,2);not null" json:"interest"`
	DurationMonths  int             `gorm:"column:duration_months;not null" json:"durationMonths"`
	HasCollateral   bool            `gorm:"column:has_collateral;not null;default:false" json:"hasCollateral"`
	Status          Status          `gorm:"column:status;size:16;not null;default:'open';index:idx_loans_status_created" json:"status"`
	CreatorID       string          `gorm:"column:creator_id;size:32;not null;index" json:"creatorId"`
	BorrowerID      *string         `gorm:"column:borrower_id;size:32;index" json:"borrowerId,omitempty"`
	LenderID        *string         `gorm:"column:lender_id;size:32;index" json:"lenderId,omitempty"`
	MatchedAt       *time.Time      `gorm:"column:matched_at" json:"matchedAt,omitempty"`
	ClosedAt        *time.Time      `gorm:"column:closed_at" json:"closedAt,omitempty"`
	StatusUpdatedAt time.Time       `gorm:"column:status_updated_at" json:"statusUpdatedAt"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_loans_status_created" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// New builds an open loan posted by creatorID. The creator fills the role the
// loan type implies; the opposite role stays empty until the loan is matched.
func New(loanID, creatorID string, t Type, in Terms, now time.Time) (*Loan, error) {
	if !t.Valid() {
		return nil, &ValidationError{Field: "type", Message: "must be request or offer"}
	}
	if err := ValidateTerms(in); err != nil {
		return nil, err
	}
	l := &Loan{
		LoanID:          loanID,
		Type:            t,
		Amount:          in.Amount,
		Interest:        in.Interest,
		DurationMonths:  in.DurationMonths,
		HasCollateral:   in.HasCollateral,
		Status:          StatusOpen,
		CreatorID:       creatorID,
		StatusUpdatedAt: now,
		CreatedAt:       now,
	}
	creator := creatorID
	if t == TypeRequest {
		l.BorrowerID = &creator
	} else {
		l.LenderID = &creator
	}
	return l, nil
}

// Transition moves the loan to next or returns ErrInvalidTransition.
func (l *Loan) Transition(next Status, at time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	l.Status = next
	l.StatusUpdatedAt = at
	if next.Terminal() {
		l.ClosedAt = &at
	}
	return nil
}

// CounterpartyRoles returns (borrowerID, lenderID) once acceptor takes the
// role opposite the loan type.
func (l *Loan) CounterpartyRoles(acceptorID string) (borrowerID, lenderID string) {
	if l.Type == TypeRequest {
		return l.CreatorID, acceptorID
	}
	return acceptorID, l.CreatorID
}

func (l *Loan) Borrower() string { return deref(l.BorrowerID) }
func (l *Loan) Lender() string   { return deref(l.LenderID) }

// IsParticipant reports whether userID created the loan or is one of its parties.
func (l *Loan) IsParticipant(userID string) bool {
	return userID != "" && (l.CreatorID == userID || l.Borrower() == userID || l.Lender() == userID)
}

// Schedule computes the repayment terms from the stored amount, rate and duration.
func (l *Loan) Schedule() (finance.Terms, error) {
	return finance.Calculate(l.Amount, l.Interest, l.DurationMonths)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
