package cli

import (
	"fmt"

	"github.com/diillson/escola-artifacts-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
     _____ ____   ____ ___  _        _
    | ____/ ___| / ___/ _ \| |      / \
    |  _| \___ \| |  | | | | |     / _ \
    | |___ ___) | |__| |_| | |___ / ___ \
    |_____|____/ \____\___/|_____/_/   \_\
                                 artifacts
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Escola Artifacts CLI (v%s)", formattedVersion)))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
