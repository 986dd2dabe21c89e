package runner

import (
	"github.com/projectdiscovery/gologger"
	updateutils "github.com/projectdiscovery/utils/update"
)

var banner = (`
                                                    __  __
_______  ____   ____ ___  ______ ____   ____   ____/ / / /
\_  __ \/ __ \ / ___\\  \/  / __ \\  _\/ __ \ /    \/  /
 |  | \/\  ___// /_/  >>    <\  ___/|  \\  ___/|   |  \  \
 |__|    \___  >___  //__/\_ \\___  >__| \___  >___|  /\  \
             \/_____/        \/    \/         \/     \/  \/
`)

var version = "v0.1.0"

// showBanner prints the startup banner, mirroring the teacher's own
// banner.go.
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tregexgenerator - simulated-annealing regex synthesis\n\n")
}

// GetUpdateCallback returns a callback that self-updates the binary.
func GetUpdateCallback() func() {
	return func() {
		showBanner()
		updateutils.GetUpdateToolCallback("regexgenerator", version)()
	}
}
