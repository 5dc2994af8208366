package services

// Tentative is a local state change that can be undone.
type Tentative struct {
	Apply  func()
	Revert func()
}

// RunOptimistic applies t, runs persist and reverts t when persist fails.
// The persist error is returned unchanged.
func RunOptimistic(t Tentative, persist func() error) error {
	if t.Apply != nil {
		t.Apply()
	}
	if err := persist(); err != nil {
		if t.Revert != nil {
			t.Revert()
		}
		return err
	}
	return nil
}
