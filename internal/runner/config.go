package runner

import (
	"os"
	"path/filepath"

	regexgenerator "github.com/Paulchenkiller/regexgenerator"
	"github.com/projectdiscovery/gologger"
	fileutil "github.com/projectdiscovery/utils/file"
)

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}

func init() {
	configDir := filepath.Join(getUserHomeDir(), ".config/regexgenerator")
	if fileutil.FileExists(regexgenerator.DefaultConfigFilePath) {
		return
	}
	if err := validateDir(configDir); err != nil {
		gologger.Error().Msgf("regexgenerator config dir not found and failed to create got: %v", err)
		return
	}
	if err := regexgenerator.GenerateSample(regexgenerator.DefaultConfigFilePath); err != nil {
		gologger.Error().Msgf("failed to save default config to %v got: %v", regexgenerator.DefaultConfigFilePath, err)
	}
}

// validateDir checks if dir exists if not creates it.
func validateDir(dirPath string) error {
	if fileutil.FolderExists(dirPath) {
		return nil
	}
	return fileutil.CreateFolder(dirPath)
}
