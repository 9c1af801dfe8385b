package config

import (
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/amaumene/testenv/pkg/device"
	apperrors "github.com/amaumene/testenv/pkg/errors"
	"github.com/amaumene/testenv/pkg/models"
)

const (
	defaultImplicitWaitTimeout = 5000
	defaultAppiumHost          = "127.0.0.1"
	defaultAppiumPort          = 4723
	defaultSauceHost           = "ondemand.saucelabs.com"
	defaultSaucePort           = 80
	defaultInitTimeout         = 300000
	defaultProjectRoot         = "."
	sauceTunnelPort            = 4443
)

// Config holds the resolved test-run configuration. It is built once by
// Load and must not be modified afterwards.
type Config struct {
	ImplicitWaitTimeout int    `json:"implicit_wait_timeout" yaml:"implicit_wait_timeout"`
	AppiumHost          string `json:"appium_host" yaml:"appium_host" validate:"required"`
	AppiumPort          int    `json:"appium_port" yaml:"appium_port"`
	Version             string `json:"version,omitempty" yaml:"version,omitempty"`

	// CI job numbers
	BuildNumber string `json:"build_number,omitempty" yaml:"build_number,omitempty"`
	JobNumber   string `json:"job_number,omitempty" yaml:"job_number,omitempty"`

	HTTPConfig      models.HTTPConfig `json:"http_config" yaml:"http_config"`
	DebugConnection bool              `json:"debug_connection" yaml:"debug_connection"`

	// Cloud provider
	Sauce         bool   `json:"sauce" yaml:"sauce"`
	Username      string `json:"username,omitempty" yaml:"username,omitempty" validate:"required_if=Sauce true"`
	Password      string `json:"password,omitempty" yaml:"password,omitempty" validate:"required_if=Sauce true"`
	SauceRestRoot string `json:"sauce_rest_root,omitempty" yaml:"sauce_rest_root,omitempty"`

	Verbose       bool                 `json:"verbose" yaml:"verbose"`
	LaunchTimeout models.LaunchTimeout `json:"launch_timeout" yaml:"launch_timeout"`
	IsolatedTests bool                 `json:"isolated_tests" yaml:"isolated_tests"`
	FastTests     bool                 `json:"fast_tests" yaml:"fast_tests"`
	ResetIOS      bool                 `json:"reset_ios" yaml:"reset_ios"`
	InitTimeout   int                  `json:"init_timeout" yaml:"init_timeout"`

	RealDevice bool `json:"real_device" yaml:"real_device"`
	Emulator   bool `json:"emulator" yaml:"emulator"`

	Device device.Selector     `json:"device" yaml:"device"`
	Caps   models.Capabilities `json:"caps" yaml:"caps"`
	Flags  device.Flags        `json:"flags" yaml:"flags"`

	MaxRetry    *int   `json:"max_retry,omitempty" yaml:"max_retry,omitempty"`
	Tarball     string `json:"tarball,omitempty" yaml:"tarball,omitempty"`
	ProjectRoot string `json:"project_root" yaml:"project_root"`

	LocalIP                  string `json:"local_ip,omitempty" yaml:"local_ip,omitempty"`
	LocalAppiumPort          int    `json:"local_appium_port" yaml:"local_appium_port"`
	TestEndpoint             string `json:"test_endpoint" yaml:"test_endpoint" validate:"url"`
	GuineaTestEndpoint       string `json:"guinea_test_endpoint" yaml:"guinea_test_endpoint" validate:"url"`
	ChromeTestEndpoint       string `json:"chrome_test_endpoint" yaml:"chrome_test_endpoint" validate:"url"`
	ChromeGuineaTestEndpoint string `json:"chrome_guinea_test_endpoint" yaml:"chrome_guinea_test_endpoint" validate:"url"`
	PhishingEndpoint         string `json:"phishing_endpoint" yaml:"phishing_endpoint" validate:"url"`
}

// Option customizes Load.
type Option func(*loader)

// WithLocalIPResolver replaces the network-interface lookup.
func WithLocalIPResolver(resolve func() string) Option {
	return func(l *loader) {
		l.localIP = resolve
	}
}

// WithLogger sets the logger used for verbose diagnostics.
func WithLogger(logger log.FieldLogger) Option {
	return func(l *loader) {
		l.logger = logger
	}
}

type loader struct {
	env     Env
	cfg     *Config
	localIP func() string
	logger  log.FieldLogger
}

// Load derives the configuration from env in one pass. Missing cloud
// credentials, an unknown DEVICE or an unsupported iOS release fail the
// whole load and no Config is returned.
func Load(env Env, opts ...Option) (*Config, error) {
	l := &loader{
		env:     env,
		cfg:     &Config{ImplicitWaitTimeout: defaultImplicitWaitTimeout},
		localIP: LocalIPv4,
		logger:  log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	steps := []func() error{
		l.loadDefaults,
		l.loadCloud,
		l.loadDevice,
		l.resolveLaunchTimeout,
		l.augmentCapabilities,
		l.deriveEndpoints,
		l.validate,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return l.cfg, nil
}

func (l *loader) loadDefaults() error {
	c, env := l.cfg, l.env
	var err error

	c.AppiumHost = env.String("APPIUM_HOST", defaultAppiumHost)
	if c.AppiumPort, err = env.Int("APPIUM_PORT", defaultAppiumPort); err != nil {
		return err
	}
	c.Version = env.String("VERSION", "")
	c.BuildNumber = env.String("APPIUM_BUILD_NUMBER", "")
	c.JobNumber = env.String("APPIUM_JOB_NUMBER", "")

	if c.HTTPConfig.Timeout, err = env.OptionalInt("HTTP_TIMEOUT"); err != nil {
		return err
	}
	if c.HTTPConfig.Retries, err = env.OptionalInt("HTTP_RETRIES"); err != nil {
		return err
	}
	if c.HTTPConfig.RetryDelay, err = env.OptionalInt("HTTP_RETRY_DELAY"); err != nil {
		return err
	}

	c.DebugConnection = env.Bool("DEBUG_CONNECTION", false)
	c.Verbose = env.Bool("VERBOSE", false)
	c.IsolatedTests = env.Bool("ISOLATED_TESTS", false)
	c.FastTests = !c.IsolatedTests
	c.ResetIOS = env.Bool("RESET_IOS", true)
	if c.InitTimeout, err = env.Int("MOCHA_INIT_TIMEOUT", defaultInitTimeout); err != nil {
		return err
	}
	c.RealDevice = env.Bool("REAL_DEVICE", false)
	c.Emulator = !c.RealDevice

	if c.MaxRetry, err = env.OptionalInt("MAX_RETRY"); err != nil {
		return err
	}
	c.Tarball = env.String("TARBALL", "")

	root, err := filepath.Abs(env.String("PROJECT_ROOT", defaultProjectRoot))
	if err != nil {
		return apperrors.NewConfigError("resolving project root", "PROJECT_ROOT", err)
	}
	c.ProjectRoot = root
	return nil
}

func (l *loader) loadCloud() error {
	c, env := l.cfg, l.env
	c.Sauce = env.Bool("SAUCE", false)
	if !c.Sauce {
		return nil
	}

	var err error
	c.AppiumHost = env.String("APPIUM_HOST", defaultSauceHost)
	if c.AppiumPort, err = env.Int("APPIUM_PORT", defaultSaucePort); err != nil {
		return err
	}

	// unset and empty are treated alike
	username, hasUser := env.Lookup("SAUCE_USERNAME")
	accessKey, hasKey := env.Lookup("SAUCE_ACCESS_KEY")
	if !hasUser || !hasKey {
		return apperrors.MissingInput("need to set SAUCE_USERNAME and SAUCE_ACCESS_KEY", "SAUCE_USERNAME", "SAUCE_ACCESS_KEY")
	}
	c.Username = username
	c.Password = accessKey
	c.SauceRestRoot = env.String("SAUCE_REST_ROOT", "")
	return nil
}

func (l *loader) loadDevice() error {
	c := l.cfg
	selector, err := device.ParseSelector(l.env.String("DEVICE", device.DefaultSelector.String()))
	if err != nil {
		return err
	}

	caps, err := device.BaseCapabilities(selector, device.BuildOptions{
		App:   l.env.String("APP", ""),
		Root:  c.ProjectRoot,
		Cloud: c.Sauce,
	})
	if err != nil {
		return err
	}

	c.Device = selector
	c.Flags = selector.Flags()
	c.Caps = caps
	return nil
}

func (l *loader) resolveLaunchTimeout() error {
	c := l.cfg
	raw, ok := l.env.Lookup("LAUNCH_TIMEOUT")
	if c.Verbose {
		l.logger.WithField("launch_timeout", raw).Info("raw launch timeout override")
	}

	switch {
	case ok:
		timeout, err := models.ParseLaunchTimeout(raw)
		if err != nil {
			return apperrors.InvalidValue("parsing launch timeout", "LAUNCH_TIMEOUT", raw)
		}
		c.LaunchTimeout = timeout
	case c.Device.StructuredLaunchTimeout():
		c.LaunchTimeout = models.StructuredTimeout(models.DefaultLaunchTimeout, models.DefaultAfterSimLaunchTimeout)
	default:
		c.LaunchTimeout = models.FlatTimeout(models.DefaultLaunchTimeout)
	}

	c.Caps.LaunchTimeout = c.LaunchTimeout
	return nil
}

func (l *loader) augmentCapabilities() error {
	c := l.cfg

	if c.Flags.IOS {
		c.Caps.PlatformName = string(device.PlatformIOS)
		if c.RealDevice {
			c.Caps.UDID = "auto"
		}
	}

	if c.Version != "" {
		c.Caps.PlatformVersion = c.Version
	} else if v := c.Device.DefaultPlatformVersion(c.Sauce); v != "" {
		c.Caps.PlatformVersion = v
	}

	if c.Sauce && c.Tarball != "" {
		c.Caps.AppiumVersion = models.NewAppiumVersion(c.Tarball)
		c.Caps.Tags = []string{c.Device.String()}
	}
	return nil
}

// Sanitized returns a copy safe for logs and HTTP responses.
func (c *Config) Sanitized() *Config {
	out := *c
	if out.Password != "" {
		out.Password = redacted
	}
	if out.Tarball != "" {
		out.Tarball = redactURLCredentials(out.Tarball)
	}
	if out.Caps.AppiumVersion != nil {
		v := *out.Caps.AppiumVersion
		v.URL = redactURLCredentials(v.URL)
		out.Caps.AppiumVersion = &v
	}
	return &out
}

// Platform reports the selected platform family.
func (c *Config) Platform() device.Platform {
	return c.Device.Platform()
}

// Fields returns the logrus fields describing the run.
func (c *Config) Fields() log.Fields {
	return log.Fields{
		"device":           c.Device.String(),
		"platform":         string(c.Platform()),
		"platform_version": c.Caps.PlatformVersion,
		"appium":           c.AppiumHost,
		"port":             c.AppiumPort,
		"sauce":            c.Sauce,
		"real_device":      c.RealDevice,
	}
}

const redacted = "***REDACTED***"

func redactURLCredentials(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok || strings.Contains(userinfo, "/") {
		return raw
	}
	return scheme + "://" + redacted + "@" + host
}
