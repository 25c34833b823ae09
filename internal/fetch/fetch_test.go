package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<h2>Experience</h2>"))
	}))
	defer server.Close()

	page, err := Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, page.URL)
	assert.Equal(t, "<h2>Experience</h2>", page.HTML)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Equal(t, defaultUserAgent, gotAgent)
}

func TestGet_Errors(t *testing.T) {
	t.Run("relative URL", func(t *testing.T) {
		_, err := Get(context.Background(), "jane.dev/cv", nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "jane.dev/cv", fetchErr.URL)
		assert.Contains(t, err.Error(), "invalid URL")
	})

	t.Run("not found keeps the page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("gone"))
		}))
		defer server.Close()

		page, err := Get(context.Background(), server.URL, nil)
		require.Error(t, err)
		require.NotNil(t, page)
		assert.Equal(t, http.StatusNotFound, page.Status)
		assert.Equal(t, "gone", page.HTML)
		assert.Contains(t, err.Error(), "HTTP status 404")
	})
}

func TestMainText(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		html     string
		want     string
	}{
		{
			name:     "resume container wins over main",
			platform: PlatformUnknown,
			html: `<body><nav>Home</nav><main><p>Blog</p>
				<div id="resume"><h2>Experience</h2>
				<p>Acme</p></div></main><footer>(c)</footer></body>`,
			want: "Experience\nAcme",
		},
		{
			name:     "chrome removed before body fallback",
			platform: PlatformUnknown,
			html:     `<body><header>Jane's site</header><div><h2>Skills</h2></div><script>x()</script></body>`,
			want:     "Skills",
		},
		{
			name:     "platform noise removed",
			platform: PlatformGitHub,
			html: `<body><article class="markdown-body"><div class="share-buttons">Share</div>
				<h2>Education</h2></article></body>`,
			want: "Education",
		},
		{
			name:     "notion page content",
			platform: PlatformNotion,
			html:     `<body><div class="notion-topbar">Jane</div><div class="notion-page-content"><h1>Summary</h1></div></body>`,
			want:     "Summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := MainText(tt.html, tt.platform)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, defaultTimeout, opts.Timeout)
	assert.Equal(t, defaultUserAgent, opts.UserAgent)
}
