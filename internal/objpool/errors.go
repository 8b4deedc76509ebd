package objpool

// sentinelError is an immutable error backed by a string constant, so it can
// be declared as a package-level const instead of a var, and compares
// correctly through errors.Is via Go's default == on comparable types.
// Grounded on giantswarm-k8senv's internal/sentinel package.
type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	// ErrInvalidCapacity is returned by New when capacity <= 0.
	ErrInvalidCapacity = sentinelError("objpool: capacity must be greater than zero")

	// ErrUnderflow is returned by Release when the pool is already full —
	// releasing a slot that was never acquired, or releasing it twice.
	ErrUnderflow = sentinelError("objpool: release of slot into a full pool")
)
