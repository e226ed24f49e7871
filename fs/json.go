package fs

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/fwojciec/scrape"
)

// Result kinds recorded in export info.
const (
	KindCrawl     = "crawl"
	KindDirectory = "directory"
	KindDetails   = "details"
)

// Ensure JSONExporter implements scrape.Exporter at compile time.
var _ scrape.Exporter = (*JSONExporter)(nil)

// JSONExporter writes results as indented JSON documents.
type JSONExporter struct {
	files
}

// NewJSONExporter creates a JSONExporter writing into dir.
func NewJSONExporter(dir string, opts ...Option) *JSONExporter {
	return &JSONExporter{files: newFiles(dir, opts)}
}

type exportInfo struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Tool      string    `json:"tool"`
}

type scrapingInfo struct {
	Timestamp  time.Time `json:"timestamp"`
	Depth      int       `json:"depth"`
	PagesFound int       `json:"pages_found"`
	Errors     []string  `json:"errors"`
}

type jsonPage struct {
	*scrape.PageRecord
	LinksCount     int    `json:"links_count"`
	ContentPreview string `json:"content_preview"`
}

type crawlDocument struct {
	ExportInfo   exportInfo   `json:"export_info"`
	ScrapingInfo scrapingInfo `json:"scraping_info"`
	Pages        []jsonPage   `json:"pages"`
}

type directoryDocument struct {
	ExportInfo exportInfo              `json:"export_info"`
	Members    []*scrape.MemberSummary `json:"members"`
	Errors     []string                `json:"errors"`
}

type detailsDocument struct {
	ExportInfo exportInfo               `json:"export_info"`
	Members    []*scrape.DetailedMember `json:"members"`
	Errors     []string                 `json:"errors"`
}

func (e *JSONExporter) info(kind, source string) exportInfo {
	return exportInfo{
		Kind:      kind,
		Timestamp: e.now(),
		Source:    source,
		Tool:      Tool,
	}
}

// ExportCrawl writes a crawl result. Each page carries its links count
// and a content preview next to the full record.
func (e *JSONExporter) ExportCrawl(ctx context.Context, r *scrape.CrawlResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc := crawlDocument{
		ExportInfo: e.info(KindCrawl, r.URL),
		ScrapingInfo: scrapingInfo{
			Timestamp:  r.Timestamp,
			Depth:      r.Depth,
			PagesFound: len(r.Pages),
			Errors:     nonNil(r.Errors),
		},
		Pages: make([]jsonPage, 0, len(r.Pages)),
	}
	for _, p := range r.Pages {
		doc.Pages = append(doc.Pages, jsonPage{
			PageRecord:     p,
			LinksCount:     len(p.Links),
			ContentPreview: scrape.ContentPreview(p.Content),
		})
	}
	return e.write(doc)
}

// ExportDirectory writes a directory result.
func (e *JSONExporter) ExportDirectory(ctx context.Context, r *scrape.DirectoryResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	members := r.Members
	if members == nil {
		members = []*scrape.MemberSummary{}
	}
	return e.write(directoryDocument{
		ExportInfo: e.info(KindDirectory, r.URL),
		Members:    members,
		Errors:     nonNil(r.Errors),
	})
}

// ExportDetails writes a detail result.
func (e *JSONExporter) ExportDetails(ctx context.Context, r *scrape.DetailResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	members := r.Members
	if members == nil {
		members = []*scrape.DetailedMember{}
	}
	return e.write(detailsDocument{
		ExportInfo: e.info(KindDetails, ""),
		Members:    members,
		Errors:     nonNil(r.Errors),
	})
}

func (e *JSONExporter) write(v any) (string, error) {
	path := FileName(e.dir, "json", e.now())
	err := WriteFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	})
	if err != nil {
		return "", scrape.Errorf(scrape.EINTERNAL, "failed to write %s: %v", path, err)
	}
	return path, nil
}

// Result is a result read back from a JSON export.
// Exactly one of the fields is set, matching the export kind.
type Result struct {
	Crawl     *scrape.CrawlResult
	Directory *scrape.DirectoryResult
	Details   *scrape.DetailResult
}

// ReadResultJSON reads a file written by JSONExporter.
func ReadResultJSON(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scrape.Errorf(scrape.ENOTFOUND, "file not found: %s", path)
		}
		return nil, err
	}

	var head struct {
		ExportInfo exportInfo `json:"export_info"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "invalid JSON in %s: %v", path, err)
	}

	switch head.ExportInfo.Kind {
	case KindCrawl:
		var doc crawlDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, scrape.Errorf(scrape.EINVALID, "invalid crawl export %s: %v", path, err)
		}
		r := &scrape.CrawlResult{
			URL:       doc.ExportInfo.Source,
			Timestamp: doc.ScrapingInfo.Timestamp,
			Depth:     doc.ScrapingInfo.Depth,
			Pages:     make([]*scrape.PageRecord, 0, len(doc.Pages)),
			Errors:    nonNil(doc.ScrapingInfo.Errors),
		}
		for _, p := range doc.Pages {
			if p.PageRecord != nil {
				r.Pages = append(r.Pages, p.PageRecord)
			}
		}
		return &Result{Crawl: r}, nil
	case KindDirectory:
		var doc directoryDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, scrape.Errorf(scrape.EINVALID, "invalid directory export %s: %v", path, err)
		}
		return &Result{Directory: &scrape.DirectoryResult{
			URL:       doc.ExportInfo.Source,
			Timestamp: doc.ExportInfo.Timestamp,
			Members:   doc.Members,
			Errors:    nonNil(doc.Errors),
		}}, nil
	case KindDetails:
		var doc detailsDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, scrape.Errorf(scrape.EINVALID, "invalid details export %s: %v", path, err)
		}
		return &Result{Details: &scrape.DetailResult{
			Timestamp: doc.ExportInfo.Timestamp,
			Members:   doc.Members,
			Errors:    nonNil(doc.Errors),
		}}, nil
	default:
		return nil, scrape.Errorf(scrape.EINVALID, "unknown export kind %q in %s", head.ExportInfo.Kind, path)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
