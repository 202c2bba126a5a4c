package domain

// TicketStatus enumerates the delivery lifecycle of a ticket. The dataset
// may carry values outside this set; the engine counts those as opaque
// categories rather than rejecting them.
type TicketStatus string

const (
	StatusToDo       TicketStatus = "To Do"
	StatusInProgress TicketStatus = "In Progress"
	StatusInTesting  TicketStatus = "In Testing"
	StatusDone       TicketStatus = "Done"
)

// TicketType enumerates work item categories.
type TicketType string

const (
	TypeStory TicketType = "Story"
	TypeBug   TicketType = "Bug"
	TypeTask  TicketType = "Task"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "Low"
	PriorityMedium   TicketPriority = "Medium"
	PriorityHigh     TicketPriority = "High"
	PriorityCritical TicketPriority = "Critical"
)

// TicketState enumerates workflow states beyond the plain status, such as
// items blocked mid-sprint or carried over from a previous one.
type TicketState string

const (
	StateBlocked   TicketState = "Blocked"
	StateSpillover TicketState = "Spillover"
)
