package version

import (
	"strings"

	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/Masterminds/semver/v3"
)

// Version is the backtest engine version. Release builds set it with
// -ldflags "-X github.com/MGmoket/stock-assistant/internal/version.Version=v0.3.1".
// "main" marks a development build.
var Version = "v0.3.0"

// GetVersion returns the engine version.
func GetVersion() string {
	return Version
}

// CheckCompatibility reports whether a backtest config written for
// configVersion can run on engineVersion. Major and minor must match; patch
// may differ. Either side being "main" skips the check.
func CheckCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engine, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version '%s'", configVersion)
	}

	if engine.Major() != config.Major() || engine.Minor() != config.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"version mismatch: engine is %d.%d.x but config requires %d.%d.x",
			engine.Major(), engine.Minor(), config.Major(), config.Minor())
	}

	return nil
}
