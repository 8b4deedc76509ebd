package barrier

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

// ErrInvalidParties is returned by New when parties <= 0.
const ErrInvalidParties = sentinelError("barrier: parties must be greater than zero")
