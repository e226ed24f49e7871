package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/scrape/goquery"
	"github.com/stretchr/testify/assert"
)

func TestLocateContent(t *testing.T) {
	t.Parallel()

	t.Run("uses first matching selector and strips chrome", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body>
<div class="content">Sidebar content</div>
<main>
	<nav>Menu</nav>
	<h1>Title</h1>
	<p>First paragraph.</p>
	<script>var x = 1;</script>
	<footer>Copyright</footer>
</main>
</body></html>`)

		got := goquery.LocateContent(doc)

		assert.Equal(t, "Title\nFirst paragraph.", got)
	})

	t.Run("does not modify the document", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><body><main><nav>Menu</nav><p>Body</p></main></body></html>`)

		_ = goquery.LocateContent(doc)

		assert.Equal(t, 1, doc.Find("main nav").Length())
	})

	t.Run("falls back to largest block over 100 characters", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("word ", 30)
		longer := strings.Repeat("text ", 40)
		doc := newDoc(t, `<html><body>
<p>short</p>
<p>`+long+`</p>
<p>`+longer+`</p>
</body></html>`)

		got := goquery.LocateContent(doc)

		assert.Equal(t, strings.TrimSpace(longer), got)
	})

	t.Run("falls back to whole document text", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><title>T</title><style>p{}</style></head><body><span>tiny</span></body></html>`)

		got := goquery.LocateContent(doc)

		assert.Equal(t, "T\ntiny", got)
	})

	t.Run("non-empty whenever the document has text", func(t *testing.T) {
		t.Parallel()

		for _, html := range []string{
			`<html><body>x</body></html>`,
			`<div class="post-body">hello</div>`,
			`<section><p>a</p><p>b</p></section>`,
		} {
			assert.NotEmpty(t, goquery.LocateContent(newDoc(t, html)), html)
		}
	})
}
