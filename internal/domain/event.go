package domain

type DraftEvent struct {
	Kind           string
	Classification string
	Message        string
	SectionCount   int
	Sequence       uint64
}
