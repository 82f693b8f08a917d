package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidParams = errors.New("invalid game params")
	ErrOutOfBounds   = errors.New("cell out of bounds")
)

// CheckBounds reports a wrapped [ErrOutOfBounds] for cells that fall
// outside an h x w grid.
func CheckBounds(c Cell, height, width int) error {
	if (GameParams{Height: height, Width: width}).InBounds(c) {
		return nil
	}
	return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, c, height, width)
}
