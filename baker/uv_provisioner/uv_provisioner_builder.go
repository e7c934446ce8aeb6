package uv_provisioner

// ProvisionerBuilderOption is a functional option for configuring a Provisioner via NewProvisioner.
type ProvisionerBuilderOption func(*provisioner)

// WithIslandMargin sets the island separation handed to the host unwrap when a
// new channel must be created, as a fraction of UV space. Non-positive values
// are ignored.
//
// Parameters:
//   - margin: island separation fraction, e.g. 16.0/1024.0
//
// Returns:
//   - ProvisionerBuilderOption: a function that applies the margin option to a provisioner
func WithIslandMargin(margin float64) ProvisionerBuilderOption {
	return func(p *provisioner) {
		if margin > 0 {
			p.islandMargin = margin
		}
	}
}
