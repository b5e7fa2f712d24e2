//go:build unix

package metadata

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"sync"
	"syscall"
)

// NativeResolver reads the owning uid from stat(2) and maps it to a user
// name. Lookups are cached per uid.
type NativeResolver struct {
	mu    sync.Mutex
	names map[uint32]string
}

// NewNativeResolver creates a NativeResolver with an empty cache.
func NewNativeResolver() *NativeResolver {
	return &NativeResolver{names: make(map[uint32]string)}
}

// Owner returns the user name owning path.
func (r *NativeResolver) Owner(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", ErrOwnerUnsupported
	}
	uid := stat.Uid

	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.names[uid]; ok {
		return name, nil
	}

	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return "", fmt.Errorf("lookup uid %d: %w", uid, err)
	}
	r.names[uid] = u.Username
	return u.Username, nil
}
