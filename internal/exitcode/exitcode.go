package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ComputeError    = 4
	DeliveryError   = 5
	PartialSuccess  = 6
)
