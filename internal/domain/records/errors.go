package records

import "errors"

var (
	// ErrNoFile indicates the request carried no usable file upload.
	ErrNoFile = errors.New("no file uploaded")

	// ErrMissingConfig indicates a required credential or endpoint is absent.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrStorage wraps document-store write failures so endpoints can choose
	// between hard failure and partial success.
	ErrStorage = errors.New("record store write failed")
)
