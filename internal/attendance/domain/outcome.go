package domain

// Outcome classifies one processed card scan.
type Outcome string

const (
	// OutcomeAccepted means the scan produced a new ledger record.
	OutcomeAccepted Outcome = "accepted"

	// OutcomeDuplicate means the card was already seen in this session; no
	// record was appended.
	OutcomeDuplicate Outcome = "duplicate"

	// OutcomeStudentUnknown means the card has no directory entry; no record
	// was appended.
	OutcomeStudentUnknown Outcome = "student_unknown"
)

// Recorded reports whether the outcome appended a ledger record.
func (o Outcome) Recorded() bool {
	return o == OutcomeAccepted
}
