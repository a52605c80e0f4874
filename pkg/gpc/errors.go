package gpc

import "errors"

// Reason is the short code carried by a failed validation.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonLatitude  Reason = "LATITUDE"
	ReasonLongitude Reason = "LONGITUDE"
	ReasonNull      Reason = "GPC_NULL"
	ReasonLength    Reason = "GPC_LENGTH"
	ReasonChar      Reason = "GPC_CHAR"
	ReasonRange     Reason = "GPC_RANGE"
)

var (
	// ErrInvalidArgument matches every CoordinateError and CodeError.
	ErrInvalidArgument = errors.New("gpc: invalid argument")
	// ErrIndexOutOfRange is returned by Table lookups outside the grid.
	ErrIndexOutOfRange = errors.New("gpc: index out of range")
)

// Validation is the result of a validity probe.
type Validation struct {
	Valid  bool   `json:"valid" yaml:"valid"`
	Reason Reason `json:"reason" yaml:"reason"`
}

func valid() Validation { return Validation{Valid: true} }

func invalid(r Reason) Validation { return Validation{Reason: r} }

// CoordinateError reports a latitude or longitude outside its open interval.
type CoordinateError struct {
	Reason Reason
}

func (e *CoordinateError) Error() string {
	return string(e.Reason) + ": value out of valid range."
}

// Is reports whether target is ErrInvalidArgument.
func (e *CoordinateError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// CodeError reports a malformed or out-of-range Grid Point Code.
type CodeError struct {
	Reason Reason
}

func (e *CodeError) Error() string {
	return string(e.Reason) + ": Invalid GPC."
}

// Is reports whether target is ErrInvalidArgument.
func (e *CodeError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ReasonOf extracts the validation reason from a codec error.
// It returns ReasonNone for nil and for errors not produced by this package.
func ReasonOf(err error) Reason {
	var ce *CoordinateError
	if errors.As(err, &ce) {
		return ce.Reason
	}
	var ge *CodeError
	if errors.As(err, &ge) {
		return ge.Reason
	}
	return ReasonNone
}
