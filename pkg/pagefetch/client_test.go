package pagefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>World&#39;s Best Banana Bread</title>
<meta name="description" content="A one-bowl banana bread." />
<script type="application/ld+json">{"@type": "Recipe", "name": "Banana Bread"}</script>
<script type="application/ld+json">{"@type": "WebSite"}</script>
<style>body { color: red; }</style>
</head>
<body>
<h1>World's Best Banana Bread</h1>
<p>Mash the bananas.</p>
<ul><li>3 ripe bananas</li><li>2 cups flour</li></ul>
<script>trackPageView();</script>
</body>
</html>`

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ChefStacksBot")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	client := NewClient(WithRateLimit(100))
	page, err := client.Fetch(context.Background(), ts.URL)

	require.NoError(t, err)
	assert.Equal(t, "World's Best Banana Bread", page.Title)
	assert.Equal(t, "A one-bowl banana bread.", page.Description)
	require.Len(t, page.StructuredData, 2)
	assert.Contains(t, page.StructuredData[0], `"Recipe"`)
}

func TestFetchNonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	client := NewClient(WithRateLimit(100))
	_, err := client.Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchBodyCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer ts.Close()

	client := NewClient(WithRateLimit(100), WithMaxBodyBytes(100))
	page, err := client.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, page.HTML, 100)
}

func TestVisibleText(t *testing.T) {
	text := VisibleText(samplePage)

	assert.Contains(t, text, "Mash the bananas.")
	assert.Contains(t, text, "3 ripe bananas")
	assert.NotContains(t, text, "trackPageView")
	assert.NotContains(t, text, "color: red")

	// Line structure is preserved for the notes grammar.
	assert.Contains(t, text, "3 ripe bananas\n2 cups flour")
}
