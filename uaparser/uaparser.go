// Package uaparser extracts browser, operating system and device
// information from user agent strings, using the uap-core regexes.yaml
// parser list.
//
// Each of the three parser lists is compiled into a refilter.Set. The first
// parser whose regex matches a user agent wins, and its replacement fields
// decide how the capture groups become the result.
//
// Example:
//
//	f, _ := os.Open("regexes.yaml")
//	rx, err := uaparser.Load(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ex, err := uaparser.New(rx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := ex.Extract("Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
//	fmt.Println(res.UserAgent.Family, res.UserAgent.Major) // Firefox 121
package uaparser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp/syntax"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/coregx/refilter"
	"github.com/coregx/refilter/engine"
)

// ErrNoSubmatch is returned when the configured engine cannot report
// capture groups.
var ErrNoSubmatch = errors.New("uaparser: engine does not report capture groups")

// MissingGroupError reports a replacement referring to a capture group the
// regex does not have.
type MissingGroupError struct {
	Regex string
	Group int
}

// Error implements the error interface.
func (e *MissingGroupError) Error() string {
	return "uaparser: replacement refers to group $" + strconv.Itoa(e.Group) +
		" missing from `" + e.Regex + "`"
}

// Regexes is the parser list document, as found in uap-core's
// regexes.yaml. Replacement fields are nil when absent.
type Regexes struct {
	UserAgentParsers []UserAgentParser `yaml:"user_agent_parsers"`
	OSParsers        []OSParser        `yaml:"os_parsers"`
	DeviceParsers    []DeviceParser    `yaml:"device_parsers"`
}

// UserAgentParser describes how to extract a browser.
type UserAgentParser struct {
	Regex string `yaml:"regex"`

	// FamilyReplacement replaces the first group; "$1" in it is
	// substituted with that group.
	FamilyReplacement *string `yaml:"family_replacement"`

	// V1Replacement to V4Replacement replace groups 2 to 5 as is.
	V1Replacement *string `yaml:"v1_replacement"`
	V2Replacement *string `yaml:"v2_replacement"`
	V3Replacement *string `yaml:"v3_replacement"`
	V4Replacement *string `yaml:"v4_replacement"`
}

// OSParser describes how to extract an operating system. Replacements may
// refer to any group as $1 to $9.
type OSParser struct {
	Regex           string  `yaml:"regex"`
	OSReplacement   *string `yaml:"os_replacement"`
	OSV1Replacement *string `yaml:"os_v1_replacement"`
	OSV2Replacement *string `yaml:"os_v2_replacement"`
	OSV3Replacement *string `yaml:"os_v3_replacement"`
	OSV4Replacement *string `yaml:"os_v4_replacement"`
}

// DeviceParser describes how to extract a device. Replacements may refer
// to any group as $1 to $9.
type DeviceParser struct {
	Regex string `yaml:"regex"`

	// RegexFlag "i" makes the regex case-insensitive.
	RegexFlag string `yaml:"regex_flag"`

	DeviceReplacement *string `yaml:"device_replacement"`
	BrandReplacement  *string `yaml:"brand_replacement"`
	ModelReplacement  *string `yaml:"model_replacement"`
}

// Load decodes a parser list document.
func Load(r io.Reader) (*Regexes, error) {
	var rx Regexes
	if err := yaml.NewDecoder(r).Decode(&rx); err != nil {
		return nil, fmt.Errorf("uaparser: decode regexes: %w", err)
	}
	return &rx, nil
}

// LoadFile decodes the parser list document at path.
func LoadFile(path string) (*Regexes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("uaparser: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// UserAgent is an extracted browser. Empty fields are unset.
type UserAgent struct {
	Family     string
	Major      string
	Minor      string
	Patch      string
	PatchMinor string
}

// OS is an extracted operating system. Empty fields are unset.
type OS struct {
	Family     string
	Major      string
	Minor      string
	Patch      string
	PatchMinor string
}

// Device is an extracted device. Empty fields are unset.
type Device struct {
	Family string
	Brand  string
	Model  string
}

// Result holds the extraction results of the three domains; a nil field
// means no parser of that domain matched.
type Result struct {
	UserAgent *UserAgent
	OS        *OS
	Device    *Device
}

// Extractor extracts all three domains. It is safe for concurrent use.
type Extractor struct {
	UserAgent *UserAgentExtractor
	OS        *OSExtractor
	Device    *DeviceExtractor
}

// New compiles rx with the default configuration.
func New(rx *Regexes) (*Extractor, error) {
	return NewWithConfig(rx, refilter.DefaultConfig())
}

// NewWithConfig compiles rx. The configured engine must report capture
// groups.
func NewWithConfig(rx *Regexes, config refilter.Config) (*Extractor, error) {
	ua, err := NewUserAgentExtractor(rx.UserAgentParsers, config)
	if err != nil {
		return nil, err
	}
	osx, err := NewOSExtractor(rx.OSParsers, config)
	if err != nil {
		return nil, err
	}
	dev, err := NewDeviceExtractor(rx.DeviceParsers, config)
	if err != nil {
		return nil, err
	}
	return &Extractor{UserAgent: ua, OS: osx, Device: dev}, nil
}

// Extract runs the three extractors on ua.
func (e *Extractor) Extract(ua string) Result {
	var res Result
	if v, ok := e.UserAgent.Extract(ua); ok {
		res.UserAgent = &v
	}
	if v, ok := e.OS.Extract(ua); ok {
		res.OS = &v
	}
	if v, ok := e.Device.Extract(ua); ok {
		res.Device = &v
	}
	return res
}

// domain is the filtered set of one parser list.
type domain struct {
	set *refilter.Set
}

// register adds the rewritten regex to b and returns its number of
// capture groups.
func register(b *refilter.Builder, kind string, i int, pattern string, opts refilter.Options) (int, error) {
	pattern = rewriteRegex(pattern)
	if _, err := b.RegisterWithOptions(pattern, opts); err != nil {
		return 0, fmt.Errorf("uaparser: %s parser %d: %w", kind, i, err)
	}
	flags := syntax.Perl
	if opts.CaseInsensitive {
		flags |= syntax.FoldCase
	}
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return 0, fmt.Errorf("uaparser: %s parser %d: %w", kind, i, err)
	}
	return re.MaxCap(), nil
}

func compile(b *refilter.Builder) (domain, error) {
	set, err := b.Compile()
	if errors.Is(err, refilter.ErrEmptySet) {
		// an empty parser list never matches
		return domain{}, nil
	}
	if err != nil {
		return domain{}, err
	}
	for _, re := range set.Regexes() {
		if _, ok := re.Regexp().(engine.SubmatchRegexp); !ok {
			return domain{}, ErrNoSubmatch
		}
	}
	return domain{set: set}, nil
}

// match returns the id and captures of the first matching regex.
func (d domain) match(ua string) (int, captures, bool) {
	if d.set == nil {
		return 0, captures{}, false
	}
	id, ok := d.set.Match(ua)
	if !ok {
		return 0, captures{}, false
	}
	indices := d.set.Regex(id).FindStringSubmatchIndex(ua)
	if indices == nil {
		return 0, captures{}, false
	}
	return id, captures{input: ua, indices: indices}, true
}

// Set returns the compiled regex set, nil for an empty parser list.
func (d domain) Set() *refilter.Set {
	return d.set
}

// UserAgentExtractor extracts browsers.
type UserAgentExtractor struct {
	domain
	repl [][5]resolver
}

// NewUserAgentExtractor compiles the user agent parsers.
//
// A family replacement containing "$1" requires the regex to have a group;
// otherwise a *MissingGroupError is returned.
func NewUserAgentExtractor(parsers []UserAgentParser, config refilter.Config) (*UserAgentExtractor, error) {
	b, err := refilter.NewBuilderWithConfig(config)
	if err != nil {
		return nil, err
	}
	e := &UserAgentExtractor{repl: make([][5]resolver, 0, len(parsers))}
	for i, p := range parsers {
		groups, err := register(b, "user agent", i, p.Regex, refilter.Options{})
		if err != nil {
			return nil, err
		}
		family, err := newFamilyResolver(p.FamilyReplacement, groups)
		if err != nil {
			var missing *MissingGroupError
			if errors.As(err, &missing) {
				missing.Regex = p.Regex
			}
			return nil, err
		}
		e.repl = append(e.repl, [5]resolver{
			family,
			newFallbackResolver(p.V1Replacement, groups, 2),
			newFallbackResolver(p.V2Replacement, groups, 3),
			newFallbackResolver(p.V3Replacement, groups, 4),
			newFallbackResolver(p.V4Replacement, groups, 5),
		})
	}
	if e.domain, err = compile(b); err != nil {
		return nil, err
	}
	return e, nil
}

// Extract returns the browser of ua, or false if no parser matches.
func (e *UserAgentExtractor) Extract(ua string) (UserAgent, bool) {
	id, c, ok := e.match(ua)
	if !ok {
		return UserAgent{}, false
	}
	r := &e.repl[id]
	return UserAgent{
		Family:     r[0].resolve(c),
		Major:      r[1].resolve(c),
		Minor:      r[2].resolve(c),
		Patch:      r[3].resolve(c),
		PatchMinor: r[4].resolve(c),
	}, true
}

// OSExtractor extracts operating systems.
type OSExtractor struct {
	domain
	repl [][5]resolver
}

// NewOSExtractor compiles the OS parsers.
func NewOSExtractor(parsers []OSParser, config refilter.Config) (*OSExtractor, error) {
	b, err := refilter.NewBuilderWithConfig(config)
	if err != nil {
		return nil, err
	}
	e := &OSExtractor{repl: make([][5]resolver, 0, len(parsers))}
	for i, p := range parsers {
		groups, err := register(b, "os", i, p.Regex, refilter.Options{})
		if err != nil {
			return nil, err
		}
		e.repl = append(e.repl, [5]resolver{
			newResolver(p.OSReplacement, groups, 1),
			newOptResolver(p.OSV1Replacement, groups, 2),
			newOptResolver(p.OSV2Replacement, groups, 3),
			newOptResolver(p.OSV3Replacement, groups, 4),
			newOptResolver(p.OSV4Replacement, groups, 5),
		})
	}
	if e.domain, err = compile(b); err != nil {
		return nil, err
	}
	return e, nil
}

// Extract returns the operating system of ua, or false if no parser
// matches.
func (e *OSExtractor) Extract(ua string) (OS, bool) {
	id, c, ok := e.match(ua)
	if !ok {
		return OS{}, false
	}
	r := &e.repl[id]
	return OS{
		Family:     r[0].resolve(c),
		Major:      r[1].resolve(c),
		Minor:      r[2].resolve(c),
		Patch:      r[3].resolve(c),
		PatchMinor: r[4].resolve(c),
	}, true
}

// DeviceExtractor extracts devices.
type DeviceExtractor struct {
	domain
	repl [][3]resolver
}

// NewDeviceExtractor compiles the device parsers.
func NewDeviceExtractor(parsers []DeviceParser, config refilter.Config) (*DeviceExtractor, error) {
	b, err := refilter.NewBuilderWithConfig(config)
	if err != nil {
		return nil, err
	}
	e := &DeviceExtractor{repl: make([][3]resolver, 0, len(parsers))}
	for i, p := range parsers {
		var opts refilter.Options
		switch p.RegexFlag {
		case "":
		case "i":
			opts.CaseInsensitive = true
		default:
			return nil, fmt.Errorf("uaparser: device parser %d: unknown regex_flag %q", i, p.RegexFlag)
		}
		groups, err := register(b, "device", i, p.Regex, opts)
		if err != nil {
			return nil, err
		}
		e.repl = append(e.repl, [3]resolver{
			newResolver(p.DeviceReplacement, groups, 1),
			// the brand never falls back to a group
			newOptResolver(p.BrandReplacement, 0, 1),
			newOptResolver(p.ModelReplacement, groups, 1),
		})
	}
	if e.domain, err = compile(b); err != nil {
		return nil, err
	}
	return e, nil
}

// Extract returns the device of ua, or false if no parser matches.
func (e *DeviceExtractor) Extract(ua string) (Device, bool) {
	id, c, ok := e.match(ua)
	if !ok {
		return Device{}, false
	}
	r := &e.repl[id]
	return Device{
		Family: r[0].resolve(c),
		Brand:  r[1].resolve(c),
		Model:  r[2].resolve(c),
	}, true
}
