//go:build !unix

package metadata

// NativeResolver has no ownership source on this platform.
type NativeResolver struct{}

// NewNativeResolver creates a NativeResolver.
func NewNativeResolver() *NativeResolver {
	return &NativeResolver{}
}

// Owner always fails with ErrOwnerUnsupported.
func (r *NativeResolver) Owner(string) (string, error) {
	return "", ErrOwnerUnsupported
}
