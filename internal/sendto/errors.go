package sendto

import "errors"

var (
	// Policy and input errors, raised before any I/O
	ErrFeatureDisabled     = errors.New("send to device is not enabled")
	ErrMissingDestination  = errors.New("destination email must be set")
	ErrNoFiles             = errors.New("nothing to send to device")
	ErrPayloadTooLarge     = errors.New("files are too large")
	ErrUnsupportedFileType = errors.New("unsupported filetype")

	// Failures after staging began
	ErrStagingIO      = errors.New("could not stage files")
	ErrDeliveryFailed = errors.New("could not deliver files to device")
)

const (
	ReasonFeatureDisabled     = "FeatureDisabled"
	ReasonMissingDestination  = "MissingDestination"
	ReasonNoFiles             = "NoFiles"
	ReasonPayloadTooLarge     = "PayloadTooLarge"
	ReasonUnsupportedFileType = "UnsupportedFileType"
	ReasonStagingIOFailure    = "StagingIOFailure"
	ReasonDeliveryFailed      = "DeliveryFailed"
	ReasonUnknown             = "Unknown"
)

var reasons = []struct {
	err    error
	reason string
}{
	{ErrFeatureDisabled, ReasonFeatureDisabled},
	{ErrMissingDestination, ReasonMissingDestination},
	{ErrNoFiles, ReasonNoFiles},
	{ErrPayloadTooLarge, ReasonPayloadTooLarge},
	{ErrUnsupportedFileType, ReasonUnsupportedFileType},
	{ErrStagingIO, ReasonStagingIOFailure},
	{ErrDeliveryFailed, ReasonDeliveryFailed},
}

// Reason returns the machine-readable reason for a Dispatch error, or ""
// for nil.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ReasonUnknown
}

// IsRejection reports whether err is a request-validation failure, as
// opposed to a staging or delivery failure.
func IsRejection(err error) bool {
	switch Reason(err) {
	case ReasonFeatureDisabled, ReasonMissingDestination, ReasonNoFiles,
		ReasonPayloadTooLarge, ReasonUnsupportedFileType:
		return true
	}
	return false
}
