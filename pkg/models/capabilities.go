package models

// Capabilities describes the desired test target handed verbatim to the
// automation session-creation API.
type Capabilities struct {
	BrowserName     string         `json:"browserName" yaml:"browserName"`
	Device          string         `json:"device,omitempty" yaml:"device,omitempty"`
	DeviceName      string         `json:"deviceName,omitempty" yaml:"deviceName,omitempty"`
	PlatformName    string         `json:"platformName,omitempty" yaml:"platformName,omitempty"`
	PlatformVersion string         `json:"platformVersion,omitempty" yaml:"platformVersion,omitempty"`
	AutomationName  string         `json:"automationName,omitempty" yaml:"automationName,omitempty"`
	App             *string        `json:"app,omitempty" yaml:"app,omitempty"`
	UDID            string         `json:"udid,omitempty" yaml:"udid,omitempty"`
	LaunchTimeout   LaunchTimeout  `json:"launchTimeout" yaml:"launchTimeout"`
	AppiumVersion   *AppiumVersion `json:"appium-version,omitempty" yaml:"appium-version,omitempty"`
	Tags            []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// AppiumVersion asks the cloud provider to run a downloadable server build.
type AppiumVersion struct {
	URL         string `json:"appium-url" yaml:"appium-url"`
	DownloadApp bool   `json:"download-app" yaml:"download-app"`
	StartupArgs string `json:"appium-startup-args" yaml:"appium-startup-args"`
}

// HTTPConfig holds the optional HTTP client tuning knobs. Nil fields were
// not present in the environment.
type HTTPConfig struct {
	Timeout    *int `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Retries    *int `json:"retries,omitempty" yaml:"retries,omitempty"`
	RetryDelay *int `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
}

// AppPath returns the application path, or "" when the key is absent.
func (c *Capabilities) AppPath() string {
	if c.App == nil {
		return ""
	}
	return *c.App
}

// HasApp reports whether the app key is present, even if empty.
func (c *Capabilities) HasApp() bool {
	return c.App != nil
}

// SetApp sets the app key.
func (c *Capabilities) SetApp(path string) {
	c.App = &path
}

// NewAppiumVersion builds the nested build descriptor for a tarball URL.
func NewAppiumVersion(tarball string) *AppiumVersion {
	return &AppiumVersion{
		URL:         tarball,
		DownloadApp: false,
		StartupArgs: "minimal",
	}
}
