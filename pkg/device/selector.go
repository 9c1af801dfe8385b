package device

import (
	"strings"

	apperrors "github.com/amaumene/testenv/pkg/errors"
)

// Platform is the platform family a selector targets
type Platform string

const (
	PlatformIOS     Platform = "iOS"
	PlatformAndroid Platform = "Android"
	PlatformDesktop Platform = "Desktop"
)

// Automation is the automation backend a selector drives
type Automation string

const (
	AutomationDefault    Automation = ""
	AutomationSelendroid Automation = "Selendroid"
)

// FormFactor distinguishes iPhone and iPad simulators
type FormFactor int

const (
	FormDefault FormFactor = iota
	FormPhone
	FormTablet
)

// Selector is the closed set of supported device selections.
type Selector int

const (
	Unknown Selector = iota
	IOS
	IOS6
	IOS6IPhone
	IOS6IPad
	IOS7
	IOS7IPhone
	IOS7IPad
	IOS71
	IOS71IPhone
	IOS71IPad
	IOS8
	IOS8IPhone
	IOS8IPad
	IOS81
	IOS81IPhone
	IOS81IPad
	IOS82
	IOS82IPhone
	IOS82IPad
	Android
	Selendroid
	Firefox
)

// DefaultSelector is used when DEVICE is not set.
const DefaultSelector = IOS

// Flags are the platform flags consumers branch on. Family flags cover minor
// releases: IOS7 is set for 7.0 and 7.1, IOS8 for 8.0, 8.1 and 8.2.
type Flags struct {
	IOS        bool `json:"ios" yaml:"ios"`
	IOS6       bool `json:"ios6" yaml:"ios6"`
	IOS7       bool `json:"ios7" yaml:"ios7"`
	IOS71      bool `json:"ios71" yaml:"ios71"`
	IOS8       bool `json:"ios8" yaml:"ios8"`
	IOS81      bool `json:"ios81" yaml:"ios81"`
	IOS82      bool `json:"ios82" yaml:"ios82"`
	Android    bool `json:"android" yaml:"android"`
	Selendroid bool `json:"selendroid" yaml:"selendroid"`
}

type selectorInfo struct {
	name       string
	platform   Platform
	automation Automation
	form       FormFactor
	version    string // iOS simulator release
	flags      Flags
}

var (
	ios6Flags  = Flags{IOS: true, IOS6: true}
	ios7Flags  = Flags{IOS: true, IOS7: true}
	ios71Flags = Flags{IOS: true, IOS7: true, IOS71: true}
	ios8Flags  = Flags{IOS: true, IOS8: true}
	ios81Flags = Flags{IOS: true, IOS8: true, IOS81: true}
	ios82Flags = Flags{IOS: true, IOS8: true, IOS82: true}
)

var selectors = map[Selector]selectorInfo{
	IOS:         {name: "ios", platform: PlatformIOS, version: "6.1", flags: Flags{IOS: true}},
	IOS6:        {name: "ios6", platform: PlatformIOS, version: "6.1", flags: ios6Flags},
	IOS6IPhone:  {name: "ios6_iphone", platform: PlatformIOS, form: FormPhone, version: "6.1", flags: ios6Flags},
	IOS6IPad:    {name: "ios6_ipad", platform: PlatformIOS, form: FormTablet, version: "6.1", flags: ios6Flags},
	IOS7:        {name: "ios7", platform: PlatformIOS, version: "7.0", flags: ios7Flags},
	IOS7IPhone:  {name: "ios7_iphone", platform: PlatformIOS, form: FormPhone, version: "7.0", flags: ios7Flags},
	IOS7IPad:    {name: "ios7_ipad", platform: PlatformIOS, form: FormTablet, version: "7.0", flags: ios7Flags},
	IOS71:       {name: "ios71", platform: PlatformIOS, version: "7.1", flags: ios71Flags},
	IOS71IPhone: {name: "ios71_iphone", platform: PlatformIOS, form: FormPhone, version: "7.1", flags: ios71Flags},
	IOS71IPad:   {name: "ios71_ipad", platform: PlatformIOS, form: FormTablet, version: "7.1", flags: ios71Flags},
	IOS8:        {name: "ios8", platform: PlatformIOS, version: "8.0", flags: ios8Flags},
	IOS8IPhone:  {name: "ios8_iphone", platform: PlatformIOS, form: FormPhone, version: "8.0", flags: ios8Flags},
	IOS8IPad:    {name: "ios8_ipad", platform: PlatformIOS, form: FormTablet, version: "8.0", flags: ios8Flags},
	IOS81:       {name: "ios81", platform: PlatformIOS, version: "8.1", flags: ios81Flags},
	IOS81IPhone: {name: "ios81_iphone", platform: PlatformIOS, form: FormPhone, version: "8.1", flags: ios81Flags},
	IOS81IPad:   {name: "ios81_ipad", platform: PlatformIOS, form: FormTablet, version: "8.1", flags: ios81Flags},
	IOS82:       {name: "ios82", platform: PlatformIOS, version: "8.2", flags: ios82Flags},
	IOS82IPhone: {name: "ios82_iphone", platform: PlatformIOS, form: FormPhone, version: "8.2", flags: ios82Flags},
	IOS82IPad:   {name: "ios82_ipad", platform: PlatformIOS, form: FormTablet, version: "8.2", flags: ios82Flags},
	Android:     {name: "android", platform: PlatformAndroid, flags: Flags{Android: true}},
	Selendroid:  {name: "selendroid", platform: PlatformAndroid, automation: AutomationSelendroid, flags: Flags{Selendroid: true}},
	Firefox:     {name: "firefox", platform: PlatformDesktop},
}

var byName = func() map[string]Selector {
	m := make(map[string]Selector, len(selectors))
	for s, info := range selectors {
		m[info.name] = s
	}
	return m
}()

// ParseSelector resolves a DEVICE value. Matching is case-insensitive and exact.
func ParseSelector(raw string) (Selector, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := byName[name]; ok {
		return s, nil
	}
	return Unknown, apperrors.InvalidValue("unknown device", "DEVICE", raw)
}

// All returns every supported selector in declaration order.
func All() []Selector {
	out := make([]Selector, 0, len(selectors))
	for s := IOS; s <= Firefox; s++ {
		out = append(out, s)
	}
	return out
}

func (s Selector) info() selectorInfo {
	return selectors[s]
}

func (s Selector) String() string {
	if info, ok := selectors[s]; ok {
		return info.name
	}
	return "unknown"
}

func (s Selector) Valid() bool {
	_, ok := selectors[s]
	return ok
}

func (s Selector) Platform() Platform     { return s.info().platform }
func (s Selector) Automation() Automation { return s.info().automation }
func (s Selector) FormFactor() FormFactor { return s.info().form }
func (s Selector) Flags() Flags           { return s.info().flags }

func (s Selector) IsIOS() bool    { return s.Platform() == PlatformIOS }
func (s Selector) IsTablet() bool { return s.FormFactor() == FormTablet }

// SimulatorVersion is the iOS release the simulator name is resolved
// against; empty for non-iOS selectors.
func (s Selector) SimulatorVersion() string {
	return s.info().version
}

// DefaultPlatformVersion is the platformVersion used when VERSION is not
// set. Android selectors only pin a version on the cloud provider. Bare ios
// names no release, so it leaves the version to the automation server.
func (s Selector) DefaultPlatformVersion(cloud bool) string {
	switch s {
	case IOS:
		return ""
	case Android:
		if cloud {
			return "4.3"
		}
		return ""
	case Selendroid:
		if cloud {
			return "4.1"
		}
		return ""
	}
	return s.info().version
}

// StructuredLaunchTimeout reports whether the selector's default launch
// timeout is split into global and after-simulator-launch limits.
func (s Selector) StructuredLaunchTimeout() bool {
	f := s.Flags()
	return f.IOS71 || f.IOS8
}

func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Selector) UnmarshalText(text []byte) error {
	parsed, err := ParseSelector(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
