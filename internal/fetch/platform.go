package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board whose page layout we know.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// platformHosts maps host suffixes to platforms
var platformHosts = []struct {
	suffix   string
	platform Platform
}{
	{"greenhouse.io", PlatformGreenhouse},
	{"lever.co", PlatformLever},
	{"myworkdayjobs.com", PlatformWorkday},
	{"workday.com", PlatformWorkday},
	{"ashbyhq.com", PlatformAshby},
}

var platformContent = map[Platform][]string{
	PlatformGreenhouse: {".job__description.body", ".job__description", "#content", ".job-post-container"},
	PlatformLever:      {".posting-page", ".section-wrapper.page-full-width", ".posting-description"},
	PlatformWorkday:    {"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
	PlatformAshby:      {".ashby-job-posting-right-pane", "[class*='_descriptionText']"},
}

// genericContent matches description containers on unknown boards and company career pages
var genericContent = []string{
	".job-description",
	"#job-description",
	".job-details",
	".posting-content",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

var commonNoise = []string{
	"form",
	".application-form",
	"#application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-banner",
	".cookie-consent",
}

var platformNoise = map[Platform][]string{
	PlatformGreenhouse: {".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	PlatformLever:      {".apply-section", ".posting-apply"},
	PlatformWorkday:    {"[data-automation-id='applyButton']", ".WDAF"},
	PlatformAshby:      {".ashby-application-form-container"},
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range platformHosts {
		if host == h.suffix || strings.HasSuffix(host, "."+h.suffix) {
			return h.platform
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors tried in order to find the description.
// Platform selectors come first, then the generic ones.
func ContentSelectors(platform Platform) []string {
	out := append([]string(nil), platformContent[platform]...)
	return append(out, genericContent...)
}

// NoiseSelectors returns selectors for elements removed before extraction.
func NoiseSelectors(platform Platform) []string {
	out := append([]string(nil), commonNoise...)
	return append(out, platformNoise[platform]...)
}
