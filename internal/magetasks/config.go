package magetasks

import (
	"os"
	"path/filepath"
)

var (
	// ModulePath is the Go module path.
	ModulePath = "github.com/dkoosis/apptrack"

	// MainPackage is the package built into the binary.
	MainPackage = "./cmd/apptrack"

	// BinPath is the output path for the built binary.
	BinPath = filepath.Join("bin", "apptrack")

	// ProjectRoot is the root directory of the project.
	ProjectRoot string
)

// Initialize records the project root and ensures bin/ exists.
// Call this from the Magefile init() function.
func Initialize() error {
	var err error
	ProjectRoot, err = os.Getwd()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(ProjectRoot, filepath.Dir(BinPath)), 0o750)
}
