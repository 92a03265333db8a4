package customer

// Outcome is the result of a write against the customer collection.
type Outcome int

const (
	Created Outcome = iota
	Updated
	RejectedDuplicate
	InvalidInput
	Deleted
	DeleteFailed
	NotFound
)

func (o Outcome) String() string {
	return [...]string{
		"created",
		"updated",
		"rejected_duplicate",
		"invalid_input",
		"deleted",
		"delete_failed",
		"not_found",
	}[o]
}

// Message is the text shown to end users for the outcome.
func (o Outcome) Message() string {
	return [...]string{
		"New record added.",
		"Record updated.",
		"Duplicate record found. Add record failed.",
		"Invalid record.",
		"Record removed.",
		"Record deletion failed.",
		"Record not found.",
	}[o]
}
