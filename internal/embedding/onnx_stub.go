//go:build !cgo

package embedding

import (
	"context"
	"errors"
)

// ONNXEmbedder is unavailable without cgo; see onnx.go.
type ONNXEmbedder struct{}

// NewONNXEmbedder returns an error when built without cgo.
func NewONNXEmbedder(_ string, _, _ int) (*ONNXEmbedder, error) {
	return nil, errors.New("onnx embedder requires cgo; build with CGO_ENABLED=1 and onnxruntime")
}

func (e *ONNXEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("onnx embedder unavailable")
}

func (e *ONNXEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("onnx embedder unavailable")
}

func (e *ONNXEmbedder) Dimensions() int { return 0 }

func (e *ONNXEmbedder) Close() error { return nil }
