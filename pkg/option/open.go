package option

import (
	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/geometry"
	"github.com/bgrewell/opera-kit/pkg/logging"
)

type ExtractionProgressCallback func(
	currentFilename string,
	bytesTransferred int64,
	totalBytes int64,
	currentFileNumber int,
	totalFileCount int,
)

type OpenOptions struct {
	// Layout forces the device block layout instead of sniffing it from the image.
	Layout *geometry.Layout
	// PatchROMTags replaces directory record byte counts with the sizes recorded in matching ROM tags.
	PatchROMTags bool
	// MaxDepth bounds directory recursion on damaged images.
	MaxDepth int
	// ExtractionProgressCallback, when set, makes Unpack count the files before extracting them.
	ExtractionProgressCallback ExtractionProgressCallback
	Logger                     *logging.Logger
}

type OpenOption func(*OpenOptions)

// DefaultOpenOptions returns the options used when Open is called without any.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		PatchROMTags: true,
		MaxDepth:     consts.WALKER_MAX_DEPTH,
		Logger:       logging.DefaultLogger(),
	}
}

// Apply applies opts on top of the defaults.
func Apply(opts ...OpenOption) *OpenOptions {
	o := DefaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithExtractionProgress sets a progress callback function that will be called with progress updates.
// Parameters:
// - currentFilename: The path of the file currently being unpacked.
// - bytesTransferred: The number of bytes written so far for the current file.
// - totalBytes: The byte count of the current file.
// - currentFileNumber: The index of the current file being processed.
// - totalFileCount: The total number of files to be processed.
func WithExtractionProgress(callback ExtractionProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		if callback != nil {
			o.ExtractionProgressCallback = callback
		}
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

func WithLayout(layout geometry.Layout) OpenOption {
	return func(o *OpenOptions) {
		o.Layout = &layout
	}
}

func WithROMTagPatch(enabled bool) OpenOption {
	return func(o *OpenOptions) {
		o.PatchROMTags = enabled
	}
}

func WithMaxDepth(depth int) OpenOption {
	return func(o *OpenOptions) {
		o.MaxDepth = depth
	}
}
