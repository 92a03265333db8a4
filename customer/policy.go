package customer

// Decision is what the write path does with an incoming record.
type Decision int

const (
	Insert Decision = iota
	Reject
	Update
)

func (d Decision) String() string {
	return [...]string{"insert", "reject", "update"}[d]
}

// Decide inspects the candidate against the record returned by
// FindByIDOrName. A candidate without an ID can never be an update: it either
// inserts or collides with an existing name.
func Decide(candidate Customer, match *Customer) Decision {
	if match == nil {
		return Insert
	}
	if match.ID != candidate.ID && match.Name == candidate.Name {
		return Reject
	}
	return Update
}
