package shading

// RewriterBuilderOption is a functional option for configuring a Rewriter via NewRewriter.
type RewriterBuilderOption func(*rewriter)

// WithArchiver attaches the Archiver the rewriter delegates RevertToOriginal
// to. Must be the same archiver that captured the snapshots.
//
// Parameters:
//   - arch: the shared archiver
//
// Returns:
//   - RewriterBuilderOption: a function that applies the archiver option to a rewriter
func WithArchiver(arch Archiver) RewriterBuilderOption {
	return func(r *rewriter) {
		r.arch = arch
	}
}
