package operations

import (
	"os"
	"path/filepath"

	"github.com/kardianos/osext"
	"github.com/mitchellh/go-homedir"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// defaultConfigFileName is looked for in the user's home directory and
// next to the binary when no configuration file is named.
const defaultConfigFileName = ".toyland.yml"

// findConfigFilePath returns fn when it is given, failing if it does not
// name a file. Otherwise it returns the first default location holding a
// configuration file, or "" when there is none and the settings come from
// the environment alone.
func findConfigFilePath(fn string) (string, error) {
	return findConfigFile(fn, defaultConfigDirs())
}

func findConfigFile(fn string, dirs []string) (string, error) {
	if fn != "" {
		if isValidPath(fn) {
			return fn, nil
		}
		absfn, _ := filepath.Abs(fn)
		if isValidPath(absfn) {
			return absfn, nil
		}
		return "", errors.Errorf("configuration file '%s' does not exist", fn)
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, defaultConfigFileName)
		if isValidPath(path) {
			grip.Info(message.Fields{
				"message": "using default configuration file",
				"path":    path,
			})
			return path, nil
		}
	}

	return "", nil
}

func defaultConfigDirs() []string {
	dirs := []string{}
	if userHome, err := homedir.Dir(); err == nil {
		dirs = append(dirs, userHome)
	}
	if binDir, err := osext.ExecutableFolder(); err == nil {
		dirs = append(dirs, binDir)
	}

	return dirs
}

func isValidPath(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}
	return true
}
