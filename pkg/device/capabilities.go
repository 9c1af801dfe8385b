package device

import (
	"path/filepath"

	apperrors "github.com/amaumene/testenv/pkg/errors"
	"github.com/amaumene/testenv/pkg/models"
)

const (
	tabletSimulator     = "iPad 2"
	androidEmulatorName = "Android Emulator"
	firefoxBrowser      = "Firefox"
	sampleAppsDir       = "sample-code/apps"
)

var phoneSimulators = map[string]string{
	"6.1": "iPhone 5s",
	"7.0": "iPhone 5s",
	"7.1": "iPhone 5s",
	"8.0": "iPhone 6",
	"8.1": "iPhone 6",
	"8.2": "iPhone 6",
}

// SimulatorName returns the canonical simulator for an iOS release.
func SimulatorName(tablet bool, version string) (string, error) {
	phone, ok := phoneSimulators[version]
	if !ok {
		return "", apperrors.InvalidValue("invalid version", "", version)
	}
	if tablet {
		return tabletSimulator, nil
	}
	return phone, nil
}

// BuildOptions carries the environment inputs capability construction needs.
type BuildOptions struct {
	// App is the sample application name; empty leaves the app path blank.
	App string
	// Root is the directory holding sample-code/.
	Root string
	// Cloud pins the Android platform version used by the cloud provider.
	Cloud bool
}

// BaseCapabilities builds the selector-specific capabilities before
// platform, version and timeout augmentation.
func BaseCapabilities(s Selector, opts BuildOptions) (models.Capabilities, error) {
	caps := models.Capabilities{}

	switch s.Platform() {
	case PlatformIOS:
		name, err := SimulatorName(s.IsTablet(), s.SimulatorVersion())
		if err != nil {
			return models.Capabilities{}, err
		}
		caps.DeviceName = name
		caps.SetApp(iosAppPath(opts.Root, opts.App))

	case PlatformAndroid:
		caps.PlatformName = string(PlatformAndroid)
		caps.DeviceName = androidEmulatorName
		if s.Automation() == AutomationSelendroid {
			caps.AutomationName = string(AutomationSelendroid)
			caps.SetApp(apkPath(opts.Root, opts.App))
		}
		caps.PlatformVersion = s.DefaultPlatformVersion(opts.Cloud)

	case PlatformDesktop:
		caps.BrowserName = firefoxBrowser
		caps.Device = firefoxBrowser
		caps.SetApp(opts.App)

	default:
		return models.Capabilities{}, apperrors.InvalidValue("unknown device", "DEVICE", s.String())
	}

	return caps, nil
}

func iosAppPath(root, app string) string {
	if app == "" {
		return ""
	}
	return filepath.Join(root, sampleAppsDir, app, "build", "Release-iphonesimulator", app+".app")
}

func apkPath(root, app string) string {
	if app == "" {
		return ""
	}
	return filepath.Join(root, sampleAppsDir, app, "bin", app+"-debug.apk")
}
