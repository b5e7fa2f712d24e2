package metadata

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/harrison/diskreport/internal/models"
)

// ErrOwnerUnsupported is returned by resolvers on platforms without a
// usable notion of file ownership.
var ErrOwnerUnsupported = errors.New("file ownership not supported on this platform")

// OwnerResolver looks up the owner name of a file.
type OwnerResolver interface {
	Owner(path string) (string, error)
}

// Resolver kinds accepted by NewOwnerResolver and the configuration file.
const (
	ResolverNative  = "native"
	ResolverShell   = "shell"
	ResolverUnknown = "unknown"
)

// NewOwnerResolver returns the resolver for kind. An empty kind selects the
// native resolver.
func NewOwnerResolver(kind string) (OwnerResolver, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", ResolverNative:
		return NewNativeResolver(), nil
	case ResolverShell:
		return &ShellResolver{}, nil
	case ResolverUnknown:
		return UnknownResolver{}, nil
	default:
		return nil, &models.ConfigError{
			Field:  "owner resolver",
			Value:  kind,
			Reason: "must be one of native, shell or unknown",
		}
	}
}

// ShellResolver runs `stat -c %U <path>`.
type ShellResolver struct {
	// Command defaults to "stat".
	Command string
}

// Owner runs the stat command and returns its trimmed output.
func (r *ShellResolver) Owner(path string) (string, error) {
	command := r.Command
	if command == "" {
		command = "stat"
	}
	out, err := exec.CommandContext(context.Background(), command, "-c", "%U", path).Output()
	if err != nil {
		return "", fmt.Errorf("%s -c %%U %s: %w", command, path, err)
	}
	owner := strings.TrimSpace(string(out))
	if owner == "" {
		return "", fmt.Errorf("%s returned no owner for %s", command, path)
	}
	return owner, nil
}

// UnknownResolver always reports the "unknown" owner.
type UnknownResolver struct{}

// Owner returns models.OwnerUnknown.
func (UnknownResolver) Owner(string) (string, error) {
	return models.OwnerUnknown, nil
}
