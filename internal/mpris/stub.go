//go:build !linux

package mpris

// Adapter does nothing off linux.
type Adapter struct{}

// New returns a no-op adapter.
func New(_ Player) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op.
func (a *Adapter) Close() error {
	return nil
}
