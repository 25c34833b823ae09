package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known host for published resumes.
type Platform string

const (
	PlatformNotion     Platform = "notion"
	PlatformGoogleDocs Platform = "google-docs"
	PlatformGitHub     Platform = "github"
	PlatformReadCV     Platform = "read.cv"
	PlatformUnknown    Platform = "unknown"
)

// DetectPlatform identifies the resume host from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.HasSuffix(host, "notion.site") || strings.HasSuffix(host, "notion.so"):
		return PlatformNotion
	case host == "docs.google.com" && strings.HasPrefix(parsed.Path, "/document/"):
		return PlatformGoogleDocs
	case strings.HasSuffix(host, "github.io") || host == "github.com":
		return PlatformGitHub
	case host == "read.cv":
		return PlatformReadCV
	}
	return PlatformUnknown
}

// NeedsBrowser reports whether the platform only renders its content with
// JavaScript.
func (p Platform) NeedsBrowser() bool {
	return p == PlatformNotion || p == PlatformReadCV
}

// PlatformContentSelectors lists, most specific first, the selectors that
// hold the resume body on p.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformNotion:
		return []string{".notion-page-content", ".notion-frame", "main"}
	case PlatformGoogleDocs:
		return []string{"#contents", ".doc-content", "body"}
	case PlatformGitHub:
		return append([]string{"article.markdown-body", ".markdown-body"}, resumeSelectors...)
	case PlatformReadCV:
		return []string{"main", "[class*='profile']"}
	default:
		return append([]string(nil), resumeSelectors...)
	}
}

// PlatformNoiseSelectors lists the elements on p that sit inside the
// content area but are not part of the resume.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformNotion:
		return append(common, ".notion-topbar", ".notion-sidebar-container")
	case PlatformGoogleDocs:
		return append(common, "#header", "#footer", "#banners")
	case PlatformGitHub:
		return append(common, ".js-header-wrapper", ".file-navigation", ".BorderGrid")
	default:
		return common
	}
}
