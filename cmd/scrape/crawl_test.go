package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/scrape"
	main "github.com/fwojciec/scrape/cmd/scrape"
	"github.com/fwojciec/scrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeHTML = `<html><head><title>Classicist</title></head><body>
<main><p>Welcome to the Institute.</p>
<a href="/articles/on-the-orders/">On the Orders</a>
<a href="/about/">About</a>
<a href="/missing/">Missing</a>
<a href="https://twitter.com/classicist">Twitter</a>
</main></body></html>`

const directoryHTML = `<html><body>
<div class="list-item profession-3 chapter-12 level-1" data-title="Acme">
  <div class="list-item-title-name"><a href="/member/acme/">Acme Studio</a></div>
  <span class="certified"></span>
</div>
<div class="list-item">
  <div class="list-item-title-name"><a href="/member/jane/">Jane Smith</a></div>
</div>
</body></html>`

func sitePages() map[string]string {
	return map[string]string{
		"https://www.classicist.org/":                        homeHTML,
		"https://www.classicist.org/articles/on-the-orders/": "<html><head><title>On the Orders</title></head><body><h1>On the Orders</h1></body></html>",
		"https://www.classicist.org/about/":                  "<html><head><title>About</title></head><body></body></html>",
		"https://www.classicist.org/membership-directory/":   directoryHTML,
	}
}

func TestCrawlCmd(t *testing.T) {
	t.Parallel()

	t.Run("crawls a site and exports JSON", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		stdout, _, err := run(t, newMain(site(sitePages())), "crawl",
			"--url", "https://www.classicist.org/", "--depth", "2", "--delay", "0",
			"--output-dir", dir, "--summary")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Scraped 3 pages")
		assert.Contains(t, stdout, "failed to scrape https://www.classicist.org/missing/")
		assert.Contains(t, stdout, "Done: 4/4 processed")

		path := fs.FileName(dir, "json", fixedTime)
		assert.Contains(t, stdout, "Data exported to: "+path)
		result, err := fs.ReadResultJSON(path)
		require.NoError(t, err)
		require.NotNil(t, result.Crawl)
		assert.Len(t, result.Crawl.Pages, 3)
		assert.Len(t, result.Crawl.Errors, 1)

		_, err = os.Stat(fs.SummaryFileName(dir, fixedTime))
		require.NoError(t, err)
	})

	t.Run("depth one fetches only the seed", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		stdout, _, err := run(t, newMain(site(sitePages())), "crawl",
			"--url", "https://www.classicist.org/", "--delay", "0", "--output-dir", dir, "--format", "csv")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Scraped 1 pages")
		_, err = os.Stat(fs.FileName(dir, "csv", fixedTime))
		require.NoError(t, err)
	})

	t.Run("directory URLs crawl the member listing", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		stdout, _, err := run(t, newMain(site(sitePages())), "crawl",
			"--url", "https://www.classicist.org/membership-directory/", "--delay", "0",
			"--output-dir", dir, "--format", "csv")

		require.NoError(t, err)
		assert.Contains(t, stdout, "Found 2 members")
		members, err := fs.ReadMembersCSV(fs.FileName(dir, "csv", fixedTime))
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "Acme Studio", members[0].Name)
		assert.Equal(t, "https://www.classicist.org/member/acme/", members[0].DetailURL)
		assert.True(t, members[0].Certified)
	})

	t.Run("seed failure still exports", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		stdout, _, err := run(t, newMain(site(nil)), "crawl",
			"--url", "https://www.classicist.org/", "--delay", "0", "--output-dir", dir)

		require.NoError(t, err)
		assert.Contains(t, stdout, "Scraped 0 pages")
		assert.Contains(t, stdout, "failed to scrape https://www.classicist.org/")
	})

	t.Run("exports to SQLite", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		stdout, _, err := run(t, newMain(site(sitePages())), "crawl",
			"--url", "https://www.classicist.org/", "--delay", "0", "--output-dir", dir, "--format", "sqlite")

		require.NoError(t, err)
		assert.Contains(t, stdout, filepath.Join(dir, main.DatabaseName))
		_, err = os.Stat(filepath.Join(dir, main.DatabaseName))
		require.NoError(t, err)
	})

	t.Run("interrupt cancels the crawl", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var stdout, stderr bytes.Buffer
		err := newMain(site(sitePages())).Run(ctx, []string{"crawl",
			"--url", "https://www.classicist.org/", "--delay", "0", "--output-dir", dir}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, main.ExitInterrupted, main.ExitCode(ctx, err))
		_, statErr := os.Stat(fs.FileName(dir, "json", fixedTime))
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestDetailsCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"name,detail_url,certified\n"+
			"No Link,,false\n"+
			"Acme Studio,https://www.classicist.org/member/acme/,true\n"+
			"Gone,https://www.classicist.org/member/gone/,false\n"+
			"Jane Smith,https://www.classicist.org/member/jane/,false\n"), 0o644))

	pages := map[string]string{
		"https://www.classicist.org/member/acme/": `<html><body><div class="phone">(555) 123-4567</div></body></html>`,
		"https://www.classicist.org/member/jane/": `<html><body><div class="email">jane@example.com</div></body></html>`,
	}

	stdout, _, err := run(t, newMain(site(pages)), "details",
		"--input-file", input, "--limit", "2", "--delay", "0", "--output-dir", dir, "--format", "json")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded 4 members")
	assert.Contains(t, stdout, "failed to scrape details for Gone")
	assert.Contains(t, stdout, "Scraped details for 1 members")

	result, err := fs.ReadResultJSON(fs.FileName(dir, "json", fixedTime))
	require.NoError(t, err)
	require.NotNil(t, result.Details)
	require.Len(t, result.Details.Members, 1)
	assert.Equal(t, "Acme Studio", result.Details.Members[0].Name)
	assert.Equal(t, "(555) 123-4567", result.Details.Members[0].Phone)
}

func TestDetailsCmd_SkipScraped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"name,detail_url\n"+
			"Acme Studio,https://www.classicist.org/member/acme/\n"+
			"Gone,https://www.classicist.org/member/gone/\n"+
			"Jane Smith,https://www.classicist.org/member/jane/\n"), 0o644))

	pages := map[string]string{
		"https://www.classicist.org/member/acme/": `<html><body><div class="phone">(555) 123-4567</div></body></html>`,
		"https://www.classicist.org/member/jane/": `<html><body><div class="email">jane@example.com</div></body></html>`,
	}
	fetcher := site(pages)
	var fetched []string
	fetchFn := fetcher.FetchFn
	fetcher.FetchFn = func(ctx context.Context, url string) (*scrape.Response, error) {
		fetched = append(fetched, url)
		return fetchFn(ctx, url)
	}
	args := []string{"details", "--input-file", input, "--limit", "2", "--delay", "0",
		"--output-dir", dir, "--format", "json", "--skip-scraped"}

	stdout, _, err := run(t, newMain(fetcher), args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skipping 0 members")
	assert.FileExists(t, filepath.Join(dir, main.HistoryName))

	fetched = nil
	stdout, _, err = run(t, newMain(fetcher), args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skipping 1 members")
	assert.Equal(t, []string{
		"https://www.classicist.org/member/gone/",
		"https://www.classicist.org/member/jane/",
	}, fetched)

	result, err := fs.ReadResultJSON(fs.FileName(dir, "json", fixedTime))
	require.NoError(t, err)
	require.Len(t, result.Details.Members, 1)
	assert.Equal(t, "Jane Smith", result.Details.Members[0].Name)
}

func TestDetailsCmd_RejectsCorruptHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "members.csv")
	require.NoError(t, os.WriteFile(input, []byte("name,detail_url\nAcme,https://www.classicist.org/member/acme/\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, main.HistoryName), []byte("garbage"), 0o644))

	_, stderr, err := run(t, newMain(site(nil)), "details", "--input-file", input,
		"--delay", "0", "--output-dir", dir, "--skip-scraped")

	require.Error(t, err)
	assert.Contains(t, stderr, "invalid URL filter")
}
