package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/hndigest"
)

// DefaultArxivAPI is the arXiv Atom query endpoint.
const DefaultArxivAPI = "https://export.arxiv.org/api/query"

// Ensure ArxivService implements hndigest.PaperLookup.
var _ hndigest.PaperLookup = (*ArxivService)(nil)

// ArxivService resolves paper metadata through the arXiv Atom API.
type ArxivService struct {
	client  *http.Client
	baseURL string
}

// NewArxivService creates a new ArxivService. If client is nil,
// http.DefaultClient is used; an empty baseURL selects DefaultArxivAPI.
func NewArxivService(client *http.Client, baseURL string) *ArxivService {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultArxivAPI
	}
	return &ArxivService{client: client, baseURL: baseURL}
}

// LookupPaper fetches the Atom entry for the paper at arxivURL, which may
// point at either the abstract or the PDF. The returned paper keeps
// arxivURL as its key.
func (s *ArxivService) LookupPaper(ctx context.Context, arxivURL string) (*hndigest.Paper, error) {
	id, err := ArxivID(arxivURL)
	if err != nil {
		return nil, err
	}

	q := url.Values{"id_list": {id}}
	body, err := s.fetchURL(ctx, s.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "parsing arXiv feed: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, hndigest.Errorf(hndigest.EPARSE, "empty arXiv feed")
	}

	entry := root.SelectElement("entry")
	if entry == nil || strings.Contains(childText(entry, "id"), "/api/errors") {
		return nil, hndigest.Errorf(hndigest.ENOTFOUND, "arXiv paper %q not found", id)
	}

	paper := &hndigest.Paper{
		ArxivURL:  arxivURL,
		Title:     oneLine(childText(entry, "title")),
		Summary:   oneLine(childText(entry, "summary")),
		Published: childText(entry, "published"),
	}
	for _, author := range entry.SelectElements("author") {
		if name := childText(author, "name"); name != "" {
			paper.Authors = append(paper.Authors, name)
		}
	}

	return paper, nil
}

// ArxivID extracts the paper identifier from an arXiv abstract or PDF URL,
// e.g. "2401.00001v2" or "hep-th/9901001".
func ArxivID(arxivURL string) (string, error) {
	u, err := url.Parse(arxivURL)
	if err != nil {
		return "", hndigest.Errorf(hndigest.EINVALID, "invalid arXiv URL %q", arxivURL)
	}
	for _, prefix := range []string{"/abs/", "/pdf/"} {
		if i := strings.Index(u.Path, prefix); i >= 0 {
			id := strings.TrimSuffix(u.Path[i+len(prefix):], ".pdf")
			id = strings.Trim(id, "/")
			if id != "" {
				return id, nil
			}
		}
	}
	return "", hndigest.Errorf(hndigest.EINVALID, "not an arXiv paper URL: %q", arxivURL)
}

func childText(el *etree.Element, tag string) string {
	child := el.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// oneLine joins the hard-wrapped lines arXiv uses in titles and abstracts.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fetchURL fetches a URL and returns the response body.
func (s *ArxivService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, hndigest.Errorf(hndigest.ENETWORK, "fetch %s: %v", targetURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, hndigest.StatusErrorf(hndigest.EFETCH, resp.StatusCode, "HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}
