package pose

import "errors"

// Error kinds returned by the inference pipeline. Callers match them with errors.Is
// and decide themselves whether to abort or retry.
var (
	ErrConfig                = errors.New("invalid configuration")
	ErrModelLoad             = errors.New("cannot load model")
	ErrInterpreterInit       = errors.New("cannot create interpreter")
	ErrTensorAllocation      = errors.New("cannot allocate tensors")
	ErrInvoke                = errors.New("invoke failed")
	ErrUnsupportedOutputType = errors.New("unsupported output tensor type")
	ErrUnsupportedInputType  = errors.New("unsupported input tensor type")
	ErrInvalidShape          = errors.New("invalid output shape")
	ErrImageLoad             = errors.New("cannot load image")
)
