// Package imaging provides the image models of the histogram tools: loading,
// histogram equalization, channel cancellation and figure rendering.
//
// Two models share the ImageModel contract:
//   - ColorImage holds an RGB matrix and can also cancel channels
//   - GrayImage holds a single-channel matrix
//
// A model is built from a file path. The decoded source matrix never changes;
// transforms return new matrices. Equalization additionally keeps its latest
// result on the model, available from Equalized().
//
// # Equalization
//
// Each channel is equalized on its own histogram (see package equalize) and
// the equalized channels are stacked back in R, G, B order. No information
// crosses channels.
//
// # Rendering
//
// DrawHistogram and DrawImages return *render.Figure values. Nothing is shown
// or written implicitly; callers encode or save the figures they receive.
//
// # Error Handling
//
//   - *DecodeError: the file is missing, unreadable or not a supported image
//   - ErrInvalidArgument: unknown channel name or mode, nil input matrix
//   - matrix.ErrShapeMismatch: an input matrix has the wrong channel count
//   - display.ErrInvalidOptions, render.ErrInvalidStyle: unusable figure settings
//
// # Thread Safety
//
// Cache is safe for concurrent use, and so are the models it hands out: the
// cached equalization is guarded by a per-model mutex and every other field is
// fixed at construction.
package imaging
