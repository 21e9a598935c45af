package generic

//go:generate mockgen -source=output_interface.go -package=mocks -destination=../../../../internal/mocks/rowwriter_mock.go

import "github.com/AgPipeline/ua-cwl-transformer/pkg/channel"

// RowWriter defines the interface for channel output file implementations
type RowWriter interface {
	// EnsureHeader creates the file with the channel's header when it does
	// not exist or is empty; otherwise it does nothing. Safe to call from
	// concurrent processes sharing the path.
	EnsureHeader(path string, ch channel.Channel) error

	// WriteRow appends one data row after ensuring the header is present.
	// The row must match the channel's header arity.
	WriteRow(path string, ch channel.Channel, values []string) error
}
