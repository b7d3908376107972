package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites a leading tilde in user-supplied paths, such as a
// plan's clone destination, to the resolved home directory. The home lookup
// runs once and is reused across calls.
type HomeExpander struct {
	provider      HomeDirectoryProvider
	lookupOnce    sync.Once
	homeDirectory string
	lookupError   error
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves "~" and "~/rest" against the home directory. Paths
// without a leading tilde, tilde-user forms like "~bot", and paths whose
// home lookup fails come back unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildePrefixConstant)
	if len(remainder) == 0 {
		return homeDirectory
	}
	if remainder[0] == '/' || remainder[0] == os.PathSeparator {
		return filepath.Join(homeDirectory, remainder[1:])
	}

	return candidatePath
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.lookupError = expander.provider()
	})
	if expander.lookupError != nil {
		return ""
	}
	return expander.homeDirectory
}
