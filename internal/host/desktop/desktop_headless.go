//go:build headless

package desktop

import (
	"context"

	"github.com/cwbudde/parallax/internal/scene"
)

// Run always fails in headless builds.
func Run(_ context.Context, _ Options, _ scene.Config) error {
	return ErrUnavailable
}
